package dbtypes

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDArrayRoundTrip(t *testing.T) {
	ids := UUIDArray{uuid.New(), uuid.New()}

	value, err := ids.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var parsed UUIDArray
	if err := parsed.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(parsed) != 2 || parsed[0] != ids[0] || parsed[1] != ids[1] {
		t.Fatalf("round trip mismatch: %v vs %v", parsed, ids)
	}
}

func TestUUIDArrayScanEmpty(t *testing.T) {
	var parsed UUIDArray
	if err := parsed.Scan("{}"); err != nil {
		t.Fatalf("scan empty: %v", err)
	}
	if len(parsed) != 0 {
		t.Fatalf("expected empty array, got %v", parsed)
	}
}

func TestUUIDArrayScanRejectsGarbage(t *testing.T) {
	var parsed UUIDArray
	if err := parsed.Scan("{not-a-uuid}"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestUUIDArrayContains(t *testing.T) {
	target := uuid.New()
	arr := UUIDArray{uuid.New(), target}
	if !arr.Contains(target) {
		t.Fatalf("expected array to contain %s", target)
	}
	if arr.Contains(uuid.New()) {
		t.Fatalf("did not expect a random id to match")
	}
}
