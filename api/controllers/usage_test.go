package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type stubRecorder struct {
	called     bool
	discountID uuid.UUID
}

func (s *stubRecorder) Record(_ context.Context, discountID, _, _ uuid.UUID) {
	s.called = true
	s.discountID = discountID
}

func TestRecordDiscountUsage(t *testing.T) {
	recorder := &stubRecorder{}
	discountID := uuid.New()
	body := `{"discount_id":"` + discountID.String() + `","item_id":"` + uuid.NewString() + `","category_id":"` + uuid.NewString() + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/usage/discounts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	RecordDiscountUsage(recorder, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if !recorder.called || recorder.discountID != discountID {
		t.Fatalf("recorder not invoked with the right rule")
	}
}

func TestRecordDiscountUsageRejectsMissingFields(t *testing.T) {
	recorder := &stubRecorder{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/usage/discounts", strings.NewReader(`{"discount_id":""}`))
	rec := httptest.NewRecorder()
	RecordDiscountUsage(recorder, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if recorder.called {
		t.Fatalf("invalid payload must not be recorded")
	}
}
