package discount

import (
	"context"

	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository loads discount rules from the database. It implements Source.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchRules returns active, auto-resolvable rules. Coupon-gated and
// customer-specific rules are excluded at the query level; they are handled
// by the coupon redemption path. When a category is given, the result is
// narrowed to global rules, rules for that category, and all item-scoped
// rules (item-scoped rules carry no category and are filtered per item at
// resolution time).
func (r *Repository) FetchRules(ctx context.Context, categoryID *uuid.UUID) ([]Rule, error) {
	query := r.db.WithContext(ctx).Model(&models.DiscountRule{}).
		Where("is_active = ?", true).
		Where("coupon_code IS NULL").
		Where("customer_specific = ?", false)
	if categoryID != nil {
		query = query.Where(
			"category_id IS NULL OR category_id = ? OR cardinality(item_ids) > 0",
			*categoryID,
		)
	}

	var rows []models.DiscountRule
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(rows))
	for i := range rows {
		rules = append(rules, FromModel(&rows[i]))
	}
	return rules, nil
}
