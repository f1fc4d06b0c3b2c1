package discount

import (
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule is a promotional rule as seen by the resolution engine.
//
// Scope is derived from two fields: a non-empty ItemIDs set makes the rule
// item-scoped; otherwise a nil CategoryID means global and a set CategoryID
// means category-scoped.
type Rule struct {
	ID               uuid.UUID
	Name             string
	CategoryID       *uuid.UUID
	ItemIDs          []uuid.UUID
	Percent          decimal.Decimal
	MinQuantity      int
	Active           bool
	StartsAt         *time.Time
	EndsAt           *time.Time
	CouponCode       *string
	CustomerSpecific bool
}

// ItemScoped reports whether the rule targets an explicit set of items.
func (r Rule) ItemScoped() bool {
	return len(r.ItemIDs) > 0
}

// TargetsItem reports whether the item-scope set contains the given item.
func (r Rule) TargetsItem(itemID uuid.UUID) bool {
	for _, id := range r.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Tiered reports whether the rule is gated on a minimum cart quantity.
func (r Rule) Tiered() bool {
	return r.MinQuantity > 0
}

// ActiveAt reports whether the rule is switched on and inside its validity
// window at the given instant. Absent bounds are open-ended.
func (r Rule) ActiveAt(now time.Time) bool {
	if !r.Active {
		return false
	}
	if r.StartsAt != nil && r.StartsAt.After(now) {
		return false
	}
	if r.EndsAt != nil && r.EndsAt.Before(now) {
		return false
	}
	return true
}

// AutoResolvable reports whether the rule participates in catalog-wide
// automatic resolution. Coupon-gated and customer-specific rules only apply
// through their dedicated redemption paths.
func (r Rule) AutoResolvable() bool {
	return r.CouponCode == nil && !r.CustomerSpecific
}

// ValidPercent reports whether the percent-off lies in (0, 100]. Rules
// outside that range contribute no price improvement and are skipped.
func (r Rule) ValidPercent() bool {
	return r.Percent.IsPositive() && r.Percent.LessThanOrEqual(decimal.NewFromInt(100))
}

// FromModel maps a persisted rule row onto the engine representation.
func FromModel(row *models.DiscountRule) Rule {
	return Rule{
		ID:               row.ID,
		Name:             row.Name,
		CategoryID:       row.CategoryID,
		ItemIDs:          append([]uuid.UUID{}, row.ItemIDs...),
		Percent:          row.Percent,
		MinQuantity:      row.MinQty,
		Active:           row.IsActive,
		StartsAt:         row.StartsAt,
		EndsAt:           row.EndsAt,
		CouponCode:       row.CouponCode,
		CustomerSpecific: row.CustomerSpecific,
	}
}
