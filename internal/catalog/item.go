package catalog

import (
	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the read-model view of a menu item used by resolution and display.
// The resolver never mutates it; annotated copies are built downstream.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Available   bool
	DietaryTags []string
}

// FromModel maps a persisted row onto the read model.
func FromModel(row *models.CatalogItem) Item {
	return Item{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.PriceAmount,
		CategoryID:  row.CategoryID,
		Available:   row.IsAvailable,
		DietaryTags: append([]string{}, row.DietaryTags...),
	}
}
