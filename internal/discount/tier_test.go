package discount

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSplitTiers(t *testing.T) {
	regular := percentRule("10")
	tieredRule := percentRule("20")
	tieredRule.MinQuantity = 3

	gotRegular, gotTiered := SplitTiers([]Rule{regular, tieredRule})
	if len(gotRegular) != 1 || gotRegular[0].ID != regular.ID {
		t.Fatalf("unexpected regular partition")
	}
	if len(gotTiered) != 1 || gotTiered[0].ID != tieredRule.ID {
		t.Fatalf("unexpected tiered partition")
	}
}

func TestEligibleTiers(t *testing.T) {
	low := percentRule("10")
	low.MinQuantity = 2
	high := percentRule("20")
	high.MinQuantity = 5

	got := EligibleTiers([]Rule{low, high}, 3)
	if len(got) != 1 || got[0].ID != low.ID {
		t.Fatalf("expected only the satisfied tier, got %d", len(got))
	}

	if got := EligibleTiers([]Rule{low, high}, 0); len(got) != 0 {
		t.Fatalf("expected no satisfied tiers at qty 0, got %d", len(got))
	}
}

func TestBestPicksHighestPercent(t *testing.T) {
	ten := percentRule("10")
	thirty := percentRule("30")
	twenty := percentRule("20")

	best := Best([]Rule{ten, thirty, twenty})
	if best == nil || best.ID != thirty.ID {
		t.Fatalf("expected the 30%% rule to win")
	}
}

func TestBestEmptyInput(t *testing.T) {
	if Best(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestBestSkipsInvalidPercents(t *testing.T) {
	zero := percentRule("10")
	zero.Percent = decimal.Zero
	negative := percentRule("10")
	negative.Percent = decimal.RequireFromString("-5")
	over := percentRule("10")
	over.Percent = decimal.RequireFromString("150")
	valid := percentRule("5")

	best := Best([]Rule{zero, negative, over, valid})
	if best == nil || best.ID != valid.ID {
		t.Fatalf("expected the only valid rule to win")
	}

	if Best([]Rule{zero, negative, over}) != nil {
		t.Fatalf("expected nil when every percent is invalid")
	}
}

// Ties are broken by the lowest rule ID string, so the winner is stable no
// matter how the input slice is ordered.
func TestBestTieBreaksByLowestID(t *testing.T) {
	a := percentRule("25")
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := percentRule("25")
	b.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

	forward := Best([]Rule{a, b})
	reversed := Best([]Rule{b, a})
	if forward == nil || reversed == nil {
		t.Fatalf("expected winners in both orders")
	}
	if forward.ID != a.ID || reversed.ID != a.ID {
		t.Fatalf("tie-break must pick the lowest id in either order: %s vs %s", forward.ID, reversed.ID)
	}
}

func TestBestReturnsCopy(t *testing.T) {
	rule := percentRule("25")
	rules := []Rule{rule}

	best := Best(rules)
	best.Name = "mutated"
	if rules[0].Name == "mutated" {
		t.Fatalf("Best must not alias the input slice")
	}
}
