package usage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/enums"
	"github.com/google/uuid"
)

// EnvelopeVersion is bumped on breaking payload changes so old consumers can
// reject events they do not understand.
const EnvelopeVersion = 1

// Envelope is the wire frame for usage events published to Pub/Sub.
type Envelope struct {
	Version    int                  `json:"version"`
	EventID    uuid.UUID            `json:"event_id"`
	Type       enums.UsageEventType `json:"type"`
	OccurredAt time.Time            `json:"occurred_at"`
	Data       json.RawMessage      `json:"data"`
}

// DiscountAppliedPayload describes a single discount application.
type DiscountAppliedPayload struct {
	DiscountID uuid.UUID `json:"discount_id"`
	ItemID     uuid.UUID `json:"item_id"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewDiscountAppliedEvent wraps a payload in a versioned envelope.
func NewDiscountAppliedEvent(payload DiscountAppliedPayload, occurredAt time.Time) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding usage payload: %w", err)
	}
	return Envelope{
		Version:    EnvelopeVersion,
		EventID:    uuid.New(),
		Type:       enums.EventDiscountApplied,
		OccurredAt: occurredAt.UTC(),
		Data:       data,
	}, nil
}

// DecodeEnvelope parses a published message body and validates the frame.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decoding usage envelope: %w", err)
	}
	if envelope.Version != EnvelopeVersion {
		return Envelope{}, fmt.Errorf("unsupported envelope version %d", envelope.Version)
	}
	if envelope.EventID == uuid.Nil {
		return Envelope{}, fmt.Errorf("usage envelope missing event id")
	}
	return envelope, nil
}

// DiscountApplied extracts the payload from a discount.applied envelope.
func (e Envelope) DiscountApplied() (DiscountAppliedPayload, error) {
	if e.Type != enums.EventDiscountApplied {
		return DiscountAppliedPayload{}, fmt.Errorf("unexpected event type %q", e.Type)
	}
	var payload DiscountAppliedPayload
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return DiscountAppliedPayload{}, fmt.Errorf("decoding discount payload: %w", err)
	}
	if payload.DiscountID == uuid.Nil || payload.ItemID == uuid.Nil {
		return DiscountAppliedPayload{}, fmt.Errorf("discount payload missing ids")
	}
	return payload, nil
}
