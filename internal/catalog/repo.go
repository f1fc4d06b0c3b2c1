package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository loads catalog items for browsing and resolution.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	var row models.CatalogItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		return nil, err
	}
	item := FromModel(&row)
	return &item, nil
}

// ListForView returns every item shown in a catalog view, optionally narrowed
// to a category. Unavailable items are included; the resolver short-circuits
// them so presentation can still render them as sold out.
func (r *Repository) ListForView(ctx context.Context, categoryID *uuid.UUID) ([]Item, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItem{}).
		Order("created_at ASC, id ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var rows []models.CatalogItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	return items, nil
}

// ListPageResult carries one keyset page of items.
type ListPageResult struct {
	Items      []Item
	NextCursor string
}

// ListPage returns a cursor-paginated slice of the catalog for API listings.
func (r *Repository) ListPage(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) (*ListPageResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.CatalogItem{}).
		Order("created_at ASC, id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) > (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.CatalogItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := &ListPageResult{}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}

	result.Items = make([]Item, 0, len(rows))
	for i := range rows {
		result.Items = append(result.Items, FromModel(&rows[i]))
	}
	return result, nil
}
