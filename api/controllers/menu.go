package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/api/responses"
	"github.com/angelmondragon/bitefinderz-backend/api/validators"
	"github.com/angelmondragon/bitefinderz-backend/internal/menu"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pagination"
)

// Menu serves one resolved page of the catalog. The optional cart_id query
// parameter personalizes tiered discounts against that cart's quantities.
func Menu(builder *menu.ViewBuilder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID := strings.TrimSpace(r.URL.Query().Get("cart_id"))
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := builder.Build(r.Context(), cartID, categoryID, pagination.Params{
			Limit:  limit,
			Cursor: cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toMenuResponse(page))
	}
}

type menuResponse struct {
	Items      []menuItemResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

type menuItemResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Price       string            `json:"price"`
	CategoryID  string            `json:"category_id"`
	Available   bool              `json:"available"`
	DietaryTags []string          `json:"dietary_tags,omitempty"`
	Discount    *discountResponse `json:"discount,omitempty"`
}

type discountResponse struct {
	Kind            string     `json:"kind"`
	RuleID          string     `json:"rule_id"`
	RuleName        string     `json:"rule_name"`
	Percent         string     `json:"percent"`
	DiscountedPrice *string    `json:"discounted_price,omitempty"`
	PotentialPrice  *string    `json:"potential_price,omitempty"`
	Message         string     `json:"message"`
	Tiered          bool       `json:"tiered"`
	ItemScoped      bool       `json:"item_scoped"`
	MinQuantity     int        `json:"min_quantity,omitempty"`
	UnitsToUnlock   int        `json:"units_to_unlock,omitempty"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
}

func toMenuResponse(page *menu.Page) menuResponse {
	out := menuResponse{
		Items:      make([]menuItemResponse, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, resolved := range page.Items {
		item := menuItemResponse{
			ID:          resolved.Item.ID.String(),
			Name:        resolved.Item.Name,
			Description: resolved.Item.Description,
			Price:       resolved.Item.Price.StringFixed(2),
			CategoryID:  resolved.Item.CategoryID.String(),
			Available:   resolved.Item.Available,
			DietaryTags: resolved.Item.DietaryTags,
		}
		if outcome := resolved.Outcome; outcome != nil {
			discount := &discountResponse{
				Kind:          string(outcome.Kind),
				RuleID:        outcome.RuleID.String(),
				RuleName:      outcome.RuleName,
				Percent:       outcome.Percent.String(),
				Message:       outcome.Message,
				Tiered:        outcome.Tiered,
				ItemScoped:    outcome.ItemScoped,
				MinQuantity:   outcome.MinQuantity,
				UnitsToUnlock: outcome.UnitsToUnlock,
				ValidUntil:    outcome.ValidUntil,
			}
			if outcome.DiscountedPrice != nil {
				price := outcome.DiscountedPrice.StringFixed(2)
				discount.DiscountedPrice = &price
			}
			if outcome.PotentialPrice != nil {
				price := outcome.PotentialPrice.StringFixed(2)
				discount.PotentialPrice = &price
			}
			item.Discount = discount
		}
		out.Items = append(out.Items, item)
	}
	return out
}
