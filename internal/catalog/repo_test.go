package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	catalogItems := `
CREATE TABLE IF NOT EXISTS catalog_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price_amount NUMERIC NOT NULL,
  category_id TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  dietary_tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(catalogItems).Error)
	return db
}

func newCatalogItem(t *testing.T, db *gorm.DB, name string, categoryID uuid.UUID, price string, available bool, created time.Time) *models.CatalogItem {
	t.Helper()

	item := &models.CatalogItem{
		ID:          uuid.New(),
		Name:        name,
		PriceAmount: decimal.RequireFromString(price),
		CategoryID:  categoryID,
		IsAvailable: available,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	categoryID := uuid.New()
	row := newCatalogItem(t, db, "Carnitas Tacos", categoryID, "12.50", true, time.Now().UTC())

	item, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, item.ID)
	assert.Equal(t, "Carnitas Tacos", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, categoryID, item.CategoryID)
}

func TestRepositoryFindByID_notFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryListForView_categoryFilter(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	tacos := uuid.New()
	drinks := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	first := newCatalogItem(t, db, "Al Pastor", tacos, "11.00", true, base)
	second := newCatalogItem(t, db, "Barbacoa", tacos, "13.00", false, base.Add(time.Minute))
	newCatalogItem(t, db, "Horchata", drinks, "4.00", true, base)

	items, err := repo.ListForView(context.Background(), &tacos)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.False(t, items[1].Available)
}

func TestRepositoryListPage_pagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	categoryID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	var created []uuid.UUID
	for i := 0; i < 4; i++ {
		row := newCatalogItem(t, db, "Item", categoryID, "9.00", true, base.Add(time.Duration(i)*time.Minute))
		created = append(created, row.ID)
	}

	page1, err := repo.ListPage(context.Background(), &categoryID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	require.NotEmpty(t, page1.NextCursor)
	assert.Equal(t, created[0], page1.Items[0].ID)
	assert.Equal(t, created[1], page1.Items[1].ID)

	page2, err := repo.ListPage(context.Background(), &categoryID, pagination.Params{
		Limit:  2,
		Cursor: page1.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Empty(t, page2.NextCursor)
	assert.Equal(t, created[2], page2.Items[0].ID)
	assert.Equal(t, created[3], page2.Items[1].ID)
}

func TestRepositoryListPage_invalidCursor(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	categoryID := uuid.New()
	_, err := repo.ListPage(context.Background(), &categoryID, pagination.Params{Cursor: "not-a-cursor"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
