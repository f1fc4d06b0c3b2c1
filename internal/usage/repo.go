package usage

import (
	"context"
	"time"

	pkgdb "github.com/angelmondragon/bitefinderz-backend/pkg/db"
	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists usage rows as the local system of record. The BigQuery
// stream is a copy for analytics; this table is what billing reconciles.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores one usage row keyed by its event id. A replayed event hits
// the primary key and is treated as already recorded, so at-least-once
// delivery never double counts.
func (r *Repository) Insert(ctx context.Context, eventID uuid.UUID, payload DiscountAppliedPayload, occurredAt time.Time) error {
	row := models.DiscountUsage{
		ID:         eventID,
		DiscountID: payload.DiscountID,
		ItemID:     payload.ItemID,
		CategoryID: payload.CategoryID,
		RecordedAt: occurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil
		}
		return err
	}
	return nil
}

// CountForDiscount returns how many times a rule has been recorded, for
// redemption-cap checks and ops tooling.
func (r *Repository) CountForDiscount(ctx context.Context, discountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscountUsage{}).
		Where("discount_id = ?", discountID).
		Count(&count).Error
	return count, err
}
