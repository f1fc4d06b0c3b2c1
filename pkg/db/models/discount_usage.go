package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountUsage records a discount applied to a purchased line item.
type DiscountUsage struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;not null"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	RecordedAt time.Time `gorm:"column:recorded_at;autoCreateTime"`
}

func (DiscountUsage) TableName() string {
	return "discount_usages"
}
