package cart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/bitefinderz-backend/pkg/redis"
	"github.com/google/uuid"
)

// LiveSource reads cart quantity snapshots from Redis and watches the cart's
// event channel for change notifications.
type LiveSource struct {
	client *pkgredis.Client
	logg   *logger.Logger
}

// NewLiveSource builds a Redis-backed cart source.
func NewLiveSource(client *pkgredis.Client, logg *logger.Logger) (*LiveSource, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LiveSource{client: client, logg: logg}, nil
}

// Snapshot reads the current quantity hash for a cart. A missing key yields an
// empty snapshot, never an error.
func (s *LiveSource) Snapshot(ctx context.Context, cartID string) (Quantities, error) {
	fields, err := s.client.HGetAll(ctx, s.client.CartQuantitiesKey(cartID))
	if err != nil {
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}
	return parseQuantities(ctx, s.logg, fields), nil
}

// Save replaces the quantity hash for a cart and publishes a change event so
// watchers re-resolve. Zero-quantity entries are dropped from the stored hash.
func (s *LiveSource) Save(ctx context.Context, cartID string, quantities Quantities) error {
	fields := make(map[string]string, len(quantities))
	for itemID, qty := range quantities {
		if qty <= 0 {
			continue
		}
		fields[itemID.String()] = strconv.Itoa(qty)
	}
	key := s.client.CartQuantitiesKey(cartID)
	if err := s.client.ReplaceHash(ctx, key, fields); err != nil {
		return fmt.Errorf("storing cart snapshot: %w", err)
	}
	if err := s.client.Publish(ctx, s.client.CartEventsChannel(cartID), "changed"); err != nil {
		return fmt.Errorf("publishing cart event: %w", err)
	}
	return nil
}

// Watch subscribes to a cart's event channel and emits a signal per change
// notification until the context is canceled. The payload is irrelevant; every
// message means "snapshot may have changed, re-read it".
func (s *LiveSource) Watch(ctx context.Context, cartID string) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, s.client.CartEventsChannel(cartID))
	if sub == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	// Force the subscription handshake so a dead connection fails here
	// instead of silently never delivering.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribing to cart events: %w", err)
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		defer func() {
			if err := sub.Close(); err != nil {
				s.logg.Warn(ctx, "closing cart subscription: "+err.Error())
			}
		}()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				select {
				case signals <- struct{}{}:
				default:
					// A signal is already pending; change events coalesce.
				}
			}
		}
	}()
	return signals, nil
}

// parseQuantities converts a stored hash into a snapshot, skipping entries
// whose key is not a UUID or whose value is not a non-negative integer.
func parseQuantities(ctx context.Context, logg *logger.Logger, fields map[string]string) Quantities {
	quantities := make(Quantities, len(fields))
	for rawID, rawQty := range fields {
		itemID, err := uuid.Parse(rawID)
		if err != nil {
			logg.Warn(ctx, "skipping cart entry with malformed item id "+rawID)
			continue
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil || qty < 0 {
			logg.Warn(ctx, "skipping cart entry with malformed quantity "+rawQty)
			continue
		}
		if qty == 0 {
			continue
		}
		quantities[itemID] = qty
	}
	return quantities
}
