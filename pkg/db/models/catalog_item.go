package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CatalogItem is an orderable menu item.
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	PriceAmount decimal.Decimal `gorm:"column:price_amount;type:numeric(12,2);not null"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	DietaryTags pq.StringArray  `gorm:"column:dietary_tags;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name regardless of GORM pluralization rules.
func (CatalogItem) TableName() string {
	return "catalog_items"
}
