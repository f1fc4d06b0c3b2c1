package usage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := DiscountAppliedPayload{
		DiscountID: uuid.New(),
		ItemID:     uuid.New(),
		CategoryID: uuid.New(),
	}
	occurredAt := time.Now()

	envelope, err := NewDiscountAppliedEvent(payload, occurredAt)
	if err != nil {
		t.Fatalf("NewDiscountAppliedEvent: %v", err)
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if decoded.EventID != envelope.EventID {
		t.Fatalf("event id changed in transit")
	}
	if !decoded.OccurredAt.Equal(envelope.OccurredAt) {
		t.Fatalf("occurred_at changed in transit")
	}

	got, err := decoded.DiscountApplied()
	if err != nil {
		t.Fatalf("DiscountApplied: %v", err)
	}
	if got != payload {
		t.Fatalf("payload changed in transit: %+v vs %+v", got, payload)
	}
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeEnvelopeRejectsUnknownVersion(t *testing.T) {
	envelope, _ := NewDiscountAppliedEvent(DiscountAppliedPayload{
		DiscountID: uuid.New(),
		ItemID:     uuid.New(),
		CategoryID: uuid.New(),
	}, time.Now())
	envelope.Version = 99
	raw, _ := json.Marshal(envelope)

	if _, err := DecodeEnvelope(raw); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestDecodeEnvelopeRejectsMissingEventID(t *testing.T) {
	raw, _ := json.Marshal(Envelope{
		Version: EnvelopeVersion,
		Type:    enums.EventDiscountApplied,
	})
	if _, err := DecodeEnvelope(raw); err == nil {
		t.Fatalf("expected missing event id error")
	}
}

func TestDiscountAppliedRejectsWrongType(t *testing.T) {
	envelope := Envelope{
		Version: EnvelopeVersion,
		EventID: uuid.New(),
		Type:    enums.UsageEventType("something.else"),
	}
	if _, err := envelope.DiscountApplied(); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestDiscountAppliedRejectsMissingIDs(t *testing.T) {
	envelope, err := NewDiscountAppliedEvent(DiscountAppliedPayload{}, time.Now())
	if err != nil {
		t.Fatalf("NewDiscountAppliedEvent: %v", err)
	}
	if _, err := envelope.DiscountApplied(); err == nil {
		t.Fatalf("expected missing ids error")
	}
}
