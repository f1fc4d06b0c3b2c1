package usage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/google/uuid"
)

type fakeStore struct {
	inserted []DiscountAppliedPayload
	eventIDs []uuid.UUID
	err      error
}

func (f *fakeStore) Insert(_ context.Context, eventID uuid.UUID, payload DiscountAppliedPayload, _ time.Time) error {
	f.inserted = append(f.inserted, payload)
	f.eventIDs = append(f.eventIDs, eventID)
	return f.err
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) PublishUsage(_ context.Context, data []byte) error {
	f.published = append(f.published, data)
	return f.err
}

func usageTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestRecorder(t *testing.T, store Store, publisher Publisher) *Recorder {
	t.Helper()
	recorder, err := NewRecorder(store, publisher, usageTestLogger())
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	return recorder
}

func TestRecorderPersistsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}
	recorder := newTestRecorder(t, store, publisher)

	discountID := uuid.New()
	itemID := uuid.New()
	categoryID := uuid.New()
	recorder.Record(context.Background(), discountID, itemID, categoryID)

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(store.inserted))
	}
	if store.inserted[0].DiscountID != discountID || store.inserted[0].ItemID != itemID {
		t.Fatalf("wrong payload persisted: %+v", store.inserted[0])
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}

	envelope, err := DecodeEnvelope(publisher.published[0])
	if err != nil {
		t.Fatalf("published event does not decode: %v", err)
	}
	payload, err := envelope.DiscountApplied()
	if err != nil {
		t.Fatalf("published payload invalid: %v", err)
	}
	if payload.CategoryID != categoryID {
		t.Fatalf("category id lost in transit")
	}
	if store.eventIDs[0] != envelope.EventID {
		t.Fatalf("persisted row and published event must share an id")
	}
}

func TestRecorderStoreFailureStillPublishes(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	publisher := &fakePublisher{}
	recorder := newTestRecorder(t, store, publisher)

	recorder.Record(context.Background(), uuid.New(), uuid.New(), uuid.New())

	if len(publisher.published) != 1 {
		t.Fatalf("a store failure must not suppress the publish")
	}
}

func TestRecorderPublishFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{err: errors.New("topic gone")}
	recorder := newTestRecorder(t, store, publisher)

	// Record has no error return; the call simply must not panic and the
	// local row must still land.
	recorder.Record(context.Background(), uuid.New(), uuid.New(), uuid.New())

	if len(store.inserted) != 1 {
		t.Fatalf("a publish failure must not suppress persistence")
	}
}

func TestRecorderWorksWithoutPublisher(t *testing.T) {
	store := &fakeStore{}
	recorder := newTestRecorder(t, store, nil)

	recorder.Record(context.Background(), uuid.New(), uuid.New(), uuid.New())

	if len(store.inserted) != 1 {
		t.Fatalf("expected local persistence without a publisher")
	}
}

func TestNewRecorderValidation(t *testing.T) {
	if _, err := NewRecorder(nil, &fakePublisher{}, usageTestLogger()); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := NewRecorder(&fakeStore{}, nil, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}
