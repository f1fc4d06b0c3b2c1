package discount

import (
	"testing"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testItem(categoryID uuid.UUID) catalog.Item {
	return catalog.Item{
		ID:         uuid.New(),
		Name:       "pad thai",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: categoryID,
		Available:  true,
	}
}

func percentRule(percent string) Rule {
	return Rule{
		ID:      uuid.New(),
		Name:    "promo",
		Percent: decimal.RequireFromString(percent),
		Active:  true,
	}
}

func TestFilterActiveDropsDisabledRules(t *testing.T) {
	now := time.Now()
	active := percentRule("10")
	disabled := percentRule("20")
	disabled.Active = false

	got := FilterActive([]Rule{active, disabled}, now)
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("expected only the active rule, got %d rules", len(got))
	}
}

func TestFilterActiveHonorsValidityWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := percentRule("10")
	expired.EndsAt = &past

	upcoming := percentRule("10")
	upcoming.StartsAt = &future

	running := percentRule("10")
	running.StartsAt = &past
	running.EndsAt = &future

	openEnded := percentRule("10")

	got := FilterActive([]Rule{expired, upcoming, running, openEnded}, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 rules inside window, got %d", len(got))
	}
	for _, rule := range got {
		if rule.ID == expired.ID || rule.ID == upcoming.ID {
			t.Fatalf("rule %s should have been filtered out", rule.ID)
		}
	}
}

func TestFilterActiveBoundaryInstantsAreInclusive(t *testing.T) {
	now := time.Now()
	rule := percentRule("10")
	rule.StartsAt = &now
	rule.EndsAt = &now

	if got := FilterActive([]Rule{rule}, now); len(got) != 1 {
		t.Fatalf("start == now and end == now should both pass, got %d rules", len(got))
	}
}

func TestFilterActiveEmptyInput(t *testing.T) {
	if got := FilterActive(nil, time.Now()); len(got) != 0 {
		t.Fatalf("expected empty output, got %d", len(got))
	}
}

func TestSplitScopePartitionsDisjointly(t *testing.T) {
	categoryID := uuid.New()
	item := testItem(categoryID)

	forItem := percentRule("10")
	forItem.ItemIDs = []uuid.UUID{item.ID}

	forOtherItem := percentRule("10")
	forOtherItem.ItemIDs = []uuid.UUID{uuid.New()}

	forCategory := percentRule("10")
	forCategory.CategoryID = &categoryID

	otherCategory := uuid.New()
	forOtherCategory := percentRule("10")
	forOtherCategory.CategoryID = &otherCategory

	global := percentRule("10")

	itemScoped, categoryOrGlobal := SplitScope(
		[]Rule{forItem, forOtherItem, forCategory, forOtherCategory, global},
		item,
	)

	if len(itemScoped) != 1 || itemScoped[0].ID != forItem.ID {
		t.Fatalf("expected exactly the item-scoped rule, got %d", len(itemScoped))
	}
	if len(categoryOrGlobal) != 2 {
		t.Fatalf("expected category rule + global rule, got %d", len(categoryOrGlobal))
	}
	for _, rule := range categoryOrGlobal {
		if rule.ItemScoped() {
			t.Fatalf("item-scoped rule leaked into category/global partition")
		}
	}
}

func TestSplitScopeItemScopedRuleNeverFallsBackToCategory(t *testing.T) {
	categoryID := uuid.New()
	item := testItem(categoryID)

	// Item-scoped for a different item, category matches ours anyway.
	rule := percentRule("10")
	rule.ItemIDs = []uuid.UUID{uuid.New()}
	rule.CategoryID = &categoryID

	itemScoped, categoryOrGlobal := SplitScope([]Rule{rule}, item)
	if len(itemScoped) != 0 || len(categoryOrGlobal) != 0 {
		t.Fatalf("rule scoped to another item must not apply at all")
	}
}
