package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/bitefinderz-backend/api/responses"
	"github.com/angelmondragon/bitefinderz-backend/api/validators"
	"github.com/angelmondragon/bitefinderz-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
)

// CartStore is the read/write surface of the live cart source.
type CartStore interface {
	Snapshot(ctx context.Context, cartID string) (cart.Quantities, error)
	Save(ctx context.Context, cartID string, quantities cart.Quantities) error
}

// CartFetch returns a cart's quantity snapshot.
func CartFetch(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantities, err := store.Snapshot(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart unavailable"))
			return
		}
		responses.WriteSuccess(w, toCartResponse(cartID, quantities))
	}
}

// CartReplace swaps a cart's full quantity set and notifies watchers. Each
// cart has a single writer, so replace semantics are safe.
func CartReplace(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartReplaceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantities, err := payload.toQuantities()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Save(r.Context(), cartID, quantities); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart unavailable"))
			return
		}
		responses.WriteSuccess(w, toCartResponse(cartID, quantities))
	}
}

type cartReplaceRequest struct {
	Items []cartLineRequest `json:"items" validate:"required,dive"`
}

type cartLineRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

func (r cartReplaceRequest) toQuantities() (cart.Quantities, error) {
	quantities := make(cart.Quantities, len(r.Items))
	for _, line := range r.Items {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
		}
		if line.Quantity > 0 {
			quantities[itemID] = line.Quantity
		}
	}
	return quantities, nil
}

type cartResponse struct {
	CartID string             `json:"cart_id"`
	Items  []cartLineResponse `json:"items"`
}

type cartLineResponse struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func toCartResponse(cartID string, quantities cart.Quantities) cartResponse {
	out := cartResponse{CartID: cartID, Items: make([]cartLineResponse, 0, len(quantities))}
	for itemID, qty := range quantities {
		out.Items = append(out.Items, cartLineResponse{ItemID: itemID.String(), Quantity: qty})
	}
	return out
}

func cartIDFromRequest(r *http.Request) (string, error) {
	cartID := strings.TrimSpace(chi.URLParam(r, "cartId"))
	if cartID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	return cartID, nil
}
