package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Store persists usage rows locally, keyed by event id for replay safety.
type Store interface {
	Insert(ctx context.Context, eventID uuid.UUID, payload DiscountAppliedPayload, occurredAt time.Time) error
}

// Publisher puts an encoded usage event on the usage topic.
type Publisher interface {
	PublishUsage(ctx context.Context, data []byte) error
}

// Recorder is the fire-and-forget entry point for usage bookkeeping. The
// purchase path must never fail or slow down because bookkeeping did, so
// Record returns nothing: failures are logged and swallowed.
type Recorder struct {
	store     Store
	publisher Publisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewRecorder builds a recorder. The publisher may be nil when the deployment
// has no usage topic; local persistence still happens.
func NewRecorder(store Store, publisher Publisher, logg *logger.Logger) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("usage store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Recorder{
		store:     store,
		publisher: publisher,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Record persists one discount application and publishes it to the usage
// topic. Both sides are attempted even when one fails.
func (r *Recorder) Record(ctx context.Context, discountID, itemID, categoryID uuid.UUID) {
	ctx = r.logg.WithRuleID(ctx, discountID.String())
	ctx = r.logg.WithItemID(ctx, itemID.String())

	payload := DiscountAppliedPayload{
		DiscountID: discountID,
		ItemID:     itemID,
		CategoryID: categoryID,
	}
	envelope, err := NewDiscountAppliedEvent(payload, r.now())
	if err != nil {
		r.logg.Error(ctx, "building usage event failed", err)
		return
	}

	var errs error
	if err := r.store.Insert(ctx, envelope.EventID, payload, envelope.OccurredAt); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("persisting usage row: %w", err))
	}
	if err := r.publish(ctx, envelope); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		r.logg.Error(ctx, "recording discount usage failed", errs)
	}
}

func (r *Recorder) publish(ctx context.Context, envelope Envelope) error {
	if r.publisher == nil {
		return nil
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding usage envelope: %w", err)
	}
	if err := r.publisher.PublishUsage(ctx, data); err != nil {
		return fmt.Errorf("publishing usage event: %w", err)
	}
	return nil
}
