package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/internal/cart"
	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
	"github.com/angelmondragon/bitefinderz-backend/internal/discount"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Triggers label what caused a resolution pass.
const (
	TriggerInitial    = "initial"
	TriggerCartChange = "cart_change"
	TriggerRefresh    = "refresh"
)

var errSuperseded = errors.New("resolution pass superseded")

// RuleProvider yields the active rule snapshot for a catalog scope.
type RuleProvider interface {
	Rules(ctx context.Context, categoryID *uuid.UUID) []discount.Rule
}

// ItemLister yields the items shown in a catalog view.
type ItemLister interface {
	ListForView(ctx context.Context, categoryID *uuid.UUID) ([]catalog.Item, error)
}

// QuantitySource yields cart quantity snapshots and change notifications.
type QuantitySource interface {
	Snapshot(ctx context.Context, cartID string) (cart.Quantities, error)
	Watch(ctx context.Context, cartID string) (<-chan struct{}, error)
}

// ResolvedItem pairs a catalog item with its winning discount, if any.
type ResolvedItem struct {
	Item    catalog.Item
	Outcome *discount.Outcome
}

// View is one fully resolved catalog rendering.
type View struct {
	Generation uint64
	Items      []ResolvedItem
	ResolvedAt time.Time
}

// Service keeps a catalog view in sync with a live cart. Every cart change
// triggers a fresh resolution pass; passes are generation-stamped so that a
// slow pass can never overwrite the result of a newer one.
type Service struct {
	rules      RuleProvider
	items      ItemLister
	carts      QuantitySource
	logg       *logger.Logger
	met        *metrics.ResolutionMetrics
	now        func() time.Time
	cartID     string
	categoryID *uuid.UUID

	generation atomic.Uint64

	mu        sync.Mutex
	published uint64
	last      cart.Quantities

	updates chan View
	refresh chan struct{}
}

// NewService builds a view service bound to one cart and catalog scope.
func NewService(
	rules RuleProvider,
	items ItemLister,
	carts QuantitySource,
	logg *logger.Logger,
	met *metrics.ResolutionMetrics,
	cartID string,
	categoryID *uuid.UUID,
) (*Service, error) {
	if rules == nil || items == nil || carts == nil {
		return nil, fmt.Errorf("rule provider, item lister and quantity source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cartID == "" {
		return nil, fmt.Errorf("cart id required")
	}
	return &Service{
		rules:      rules,
		items:      items,
		carts:      carts,
		logg:       logg,
		met:        met,
		now:        time.Now,
		cartID:     cartID,
		categoryID: categoryID,
		updates:    make(chan View, 1),
		refresh:    make(chan struct{}, 1),
	}, nil
}

// Updates delivers resolved views, newest wins. The channel holds at most one
// pending view; an unread stale view is replaced, never queued behind.
func (s *Service) Updates() <-chan View {
	return s.updates
}

// Refresh requests an out-of-band resolution pass, bypassing snapshot dedupe.
// Safe to call from any goroutine; concurrent requests coalesce.
func (s *Service) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run drives the view until the context is canceled. It resolves once up
// front, then re-resolves on every cart change whose snapshot actually
// differs from the previous one.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithCartID(ctx, s.cartID)

	signals, err := s.carts.Watch(ctx, s.cartID)
	if err != nil {
		return fmt.Errorf("watching cart: %w", err)
	}

	quantities, err := s.carts.Snapshot(ctx, s.cartID)
	if err != nil {
		// Resolution must not block on the cart store: an unreadable
		// snapshot renders as an empty cart until the next change event.
		s.logg.Error(ctx, "initial cart snapshot failed, assuming empty cart", err)
		quantities = cart.Quantities{}
	}
	s.setLast(quantities)
	s.startPass(ctx, TriggerInitial, quantities)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-signals:
			if !ok {
				return nil
			}
			quantities, err := s.carts.Snapshot(ctx, s.cartID)
			if err != nil {
				s.logg.Error(ctx, "cart snapshot failed, keeping previous view", err)
				continue
			}
			if quantities.Equal(s.lastSnapshot()) {
				continue
			}
			s.setLast(quantities)
			s.startPass(ctx, TriggerCartChange, quantities)
		case <-s.refresh:
			quantities, err := s.carts.Snapshot(ctx, s.cartID)
			if err != nil {
				s.logg.Error(ctx, "cart snapshot failed, refreshing with previous one", err)
				quantities = s.lastSnapshot()
			}
			s.setLast(quantities)
			s.startPass(ctx, TriggerRefresh, quantities)
		}
	}
}

func (s *Service) startPass(ctx context.Context, trigger string, quantities cart.Quantities) {
	gen := s.generation.Add(1)
	snapshot := quantities.Clone()

	go func() {
		started := s.now()
		view, err := s.resolvePass(ctx, gen, snapshot)
		if err != nil {
			if errors.Is(err, errSuperseded) || errors.Is(err, context.Canceled) {
				s.met.IncSuperseded(trigger)
				return
			}
			s.logg.Error(ctx, "resolution pass failed, keeping previous view", err)
			return
		}
		s.met.ObserveDuration(trigger, s.now().Sub(started))
		if !s.publish(gen, *view) {
			s.met.IncSuperseded(trigger)
			return
		}
		s.met.IncPass(trigger)
	}()
}

// resolvePass resolves every item in scope against the given snapshot. It
// aborts as soon as a newer generation exists so a stale pass stops burning
// cycles on a view that can never be published.
func (s *Service) resolvePass(ctx context.Context, gen uint64, quantities cart.Quantities) (*View, error) {
	items, err := s.items.ListForView(ctx, s.categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	rules := s.rules.Rules(ctx, s.categoryID)

	now := s.now()
	resolved := make([]ResolvedItem, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.generation.Load() != gen {
			return nil, errSuperseded
		}
		resolved = append(resolved, ResolvedItem{
			Item:    item,
			Outcome: discount.Resolve(item, rules, quantities.Get(item.ID), now),
		})
	}
	return &View{Generation: gen, Items: resolved, ResolvedAt: now}, nil
}

// publish delivers a view unless a newer generation already went out.
func (s *Service) publish(gen uint64, view View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.published {
		return false
	}
	s.published = gen

	// Drop an unread stale view so the send below can never block.
	select {
	case <-s.updates:
	default:
	}
	s.updates <- view
	return true
}

func (s *Service) setLast(quantities cart.Quantities) {
	s.mu.Lock()
	s.last = quantities.Clone()
	s.mu.Unlock()
}

func (s *Service) lastSnapshot() cart.Quantities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.Clone()
}
