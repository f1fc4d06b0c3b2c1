package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/internal/cart"
	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
	"github.com/angelmondragon/bitefinderz-backend/internal/discount"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/pagination"
	"github.com/google/uuid"
)

// PageLister yields one keyset page of catalog items.
type PageLister interface {
	ListPage(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) (*catalog.ListPageResult, error)
}

// QuantityReader yields the current quantity snapshot for a cart.
type QuantityReader interface {
	Snapshot(ctx context.Context, cartID string) (cart.Quantities, error)
}

// Page is one resolved slice of the menu for HTTP listings.
type Page struct {
	Items      []ResolvedItem
	NextCursor string
}

// ViewBuilder answers one-shot menu requests: a page of items, each annotated
// with its resolved discount against the caller's cart.
type ViewBuilder struct {
	rules RuleProvider
	pages PageLister
	carts QuantityReader
	logg  *logger.Logger
	now   func() time.Time
}

// NewViewBuilder builds a one-shot menu view builder.
func NewViewBuilder(rules RuleProvider, pages PageLister, carts QuantityReader, logg *logger.Logger) (*ViewBuilder, error) {
	if rules == nil || pages == nil || carts == nil {
		return nil, fmt.Errorf("rule provider, page lister and quantity reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &ViewBuilder{
		rules: rules,
		pages: pages,
		carts: carts,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// Build resolves one page. An empty cartID, or a cart that cannot be read,
// resolves as an empty cart.
func (b *ViewBuilder) Build(ctx context.Context, cartID string, categoryID *uuid.UUID, params pagination.Params) (*Page, error) {
	page, err := b.pages.ListPage(ctx, categoryID, params)
	if err != nil {
		return nil, err
	}

	quantities := cart.Quantities{}
	if cartID != "" {
		snapshot, err := b.carts.Snapshot(ctx, cartID)
		if err != nil {
			b.logg.Error(ctx, "cart snapshot failed, resolving with empty cart", err)
		} else {
			quantities = snapshot
		}
	}

	rules := b.rules.Rules(ctx, categoryID)
	now := b.now()

	resolved := make([]ResolvedItem, 0, len(page.Items))
	for _, item := range page.Items {
		resolved = append(resolved, ResolvedItem{
			Item:    item,
			Outcome: discount.Resolve(item, rules, quantities.Get(item.ID), now),
		})
	}
	return &Page{Items: resolved, NextCursor: page.NextCursor}, nil
}
