package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bitefinderz-backend/api/responses"
	"github.com/angelmondragon/bitefinderz-backend/api/validators"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
)

// UsageRecorder is the fire-and-forget bookkeeping entry point.
type UsageRecorder interface {
	Record(ctx context.Context, discountID, itemID, categoryID uuid.UUID)
}

// RecordDiscountUsage is called by the ordering system when a discounted line
// item is purchased. Always answers 202: bookkeeping never blocks a purchase.
func RecordDiscountUsage(recorder UsageRecorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if recorder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "usage recorder unavailable"))
			return
		}

		var payload recordUsageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recorder.Record(r.Context(), ids.discountID, ids.itemID, ids.categoryID)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

type recordUsageRequest struct {
	DiscountID string `json:"discount_id" validate:"required,uuid"`
	ItemID     string `json:"item_id" validate:"required,uuid"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

type usageIDs struct {
	discountID uuid.UUID
	itemID     uuid.UUID
	categoryID uuid.UUID
}

func (r recordUsageRequest) parse() (usageIDs, error) {
	discountID, err := uuid.Parse(r.DiscountID)
	if err != nil {
		return usageIDs{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount id")
	}
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return usageIDs{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return usageIDs{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}
	return usageIDs{discountID: discountID, itemID: itemID, categoryID: categoryID}, nil
}
