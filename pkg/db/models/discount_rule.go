package models

import (
	"time"

	dbtypes "github.com/angelmondragon/bitefinderz-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountRule is a promotional rule row. A nil CategoryID with an empty
// ItemIDs set means the rule is global; a non-empty ItemIDs set makes the
// rule item-scoped and overrides the category scope.
type DiscountRule struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string            `gorm:"column:name;not null"`
	CategoryID       *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	ItemIDs          dbtypes.UUIDArray `gorm:"column:item_ids;type:uuid[]"`
	Percent          decimal.Decimal   `gorm:"column:percent;type:numeric(5,2);not null"`
	MinQty           int               `gorm:"column:min_qty;not null;default:0"`
	IsActive         bool              `gorm:"column:is_active;not null;default:true"`
	StartsAt         *time.Time        `gorm:"column:starts_at"`
	EndsAt           *time.Time        `gorm:"column:ends_at"`
	CouponCode       *string           `gorm:"column:coupon_code"`
	CustomerSpecific bool              `gorm:"column:customer_specific;not null;default:false"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (DiscountRule) TableName() string {
	return "discount_rules"
}
