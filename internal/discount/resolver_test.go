package discount

import (
	"reflect"
	"testing"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestResolveSingleRegularRule(t *testing.T) {
	item := testItem(uuid.New())
	rule := percentRule("20")

	got := Resolve(item, []Rule{rule}, 0, time.Now())
	if !got.Applied() {
		t.Fatalf("expected applied outcome, got %+v", got)
	}
	if got.RuleID != rule.ID {
		t.Fatalf("wrong winning rule: %s", got.RuleID)
	}
	if got.DiscountedPrice == nil || !got.DiscountedPrice.Equal(mustDecimal(t, "8.00")) {
		t.Fatalf("expected 8.00, got %v", got.DiscountedPrice)
	}
	if got.PotentialPrice != nil {
		t.Fatalf("applied outcome must not carry a potential price")
	}
	if got.Message != "20% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestResolveHighestPercentWins(t *testing.T) {
	item := testItem(uuid.New())
	small := percentRule("5")
	big := percentRule("15")

	got := Resolve(item, []Rule{small, big}, 0, time.Now())
	if !got.Applied() || got.RuleID != big.ID {
		t.Fatalf("expected the 15%% rule to win, got %+v", got)
	}
}

func TestResolveTieredRuleMet(t *testing.T) {
	item := testItem(uuid.New())
	rule := percentRule("30")
	rule.MinQuantity = 3

	got := Resolve(item, []Rule{rule}, 3, time.Now())
	if !got.Applied() {
		t.Fatalf("quantity gate met, expected applied outcome, got %+v", got)
	}
	if !got.Tiered || got.MinQuantity != 3 {
		t.Fatalf("tier fields not carried through: %+v", got)
	}
	if got.Message != "Buy 3+ for 30% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.DiscountedPrice == nil || !got.DiscountedPrice.Equal(mustDecimal(t, "7.00")) {
		t.Fatalf("expected 7.00, got %v", got.DiscountedPrice)
	}
}

func TestResolveTieredRuleUnmetIsInformational(t *testing.T) {
	item := testItem(uuid.New())
	rule := percentRule("30")
	rule.MinQuantity = 3

	got := Resolve(item, []Rule{rule}, 1, time.Now())
	if got == nil || got.Applied() {
		t.Fatalf("unmet tier must be informational, got %+v", got)
	}
	if got.Kind != enums.DiscountKindInformational {
		t.Fatalf("wrong kind %q", got.Kind)
	}
	if got.DiscountedPrice != nil {
		t.Fatalf("informational outcome must not change the price")
	}
	if got.PotentialPrice == nil || !got.PotentialPrice.Equal(mustDecimal(t, "7.00")) {
		t.Fatalf("expected 7.00 preview, got %v", got.PotentialPrice)
	}
	if got.UnitsToUnlock != 2 {
		t.Fatalf("expected 2 units to unlock, got %d", got.UnitsToUnlock)
	}
	if got.Message != "Add 2 more to unlock 30% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestResolveItemScopedShadowsBetterCategoryRule(t *testing.T) {
	categoryID := uuid.New()
	item := testItem(categoryID)

	forItem := percentRule("10")
	forItem.ItemIDs = []uuid.UUID{item.ID}

	forCategory := percentRule("50")
	forCategory.CategoryID = &categoryID

	got := Resolve(item, []Rule{forItem, forCategory}, 0, time.Now())
	if !got.Applied() || got.RuleID != forItem.ID {
		t.Fatalf("item-scoped rule must shadow the category rule, got %+v", got)
	}
	if !got.ItemScoped {
		t.Fatalf("ItemScoped flag not set")
	}
	if got.Message != "Special item offer: 10% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestResolveUnmetItemScopedTierShadowsCategoryRule(t *testing.T) {
	categoryID := uuid.New()
	item := testItem(categoryID)

	forItem := percentRule("30")
	forItem.ItemIDs = []uuid.UUID{item.ID}
	forItem.MinQuantity = 5

	forCategory := percentRule("20")
	forCategory.CategoryID = &categoryID

	// The item-scoped tier is unmet, but it still takes the item out of the
	// category pool: the result is informational, not the 20% category rule.
	got := Resolve(item, []Rule{forItem, forCategory}, 1, time.Now())
	if got == nil || got.Applied() {
		t.Fatalf("expected informational outcome, got %+v", got)
	}
	if got.RuleID != forItem.ID {
		t.Fatalf("wrong rule %s", got.RuleID)
	}
	if got.Message != "Special item offer: add 4 more to unlock 30% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestResolveTieredWinsExactTie(t *testing.T) {
	item := testItem(uuid.New())
	regular := percentRule("25")
	tiered := percentRule("25")
	tiered.MinQuantity = 2

	got := Resolve(item, []Rule{regular, tiered}, 2, time.Now())
	if !got.Applied() || got.RuleID != tiered.ID {
		t.Fatalf("tiered rule must win an exact tie, got %+v", got)
	}
}

func TestResolveRegularBeatsWeakerMetTier(t *testing.T) {
	item := testItem(uuid.New())
	regular := percentRule("30")
	tiered := percentRule("20")
	tiered.MinQuantity = 2

	got := Resolve(item, []Rule{regular, tiered}, 5, time.Now())
	if !got.Applied() || got.RuleID != regular.ID {
		t.Fatalf("stronger regular rule must win, got %+v", got)
	}
}

func TestResolveUnavailableItem(t *testing.T) {
	item := testItem(uuid.New())
	item.Available = false

	if got := Resolve(item, []Rule{percentRule("20")}, 0, time.Now()); got != nil {
		t.Fatalf("unavailable item must resolve to nil, got %+v", got)
	}
}

func TestResolveNoRulesInScope(t *testing.T) {
	categoryID := uuid.New()
	item := testItem(categoryID)

	otherCategory := uuid.New()
	rule := percentRule("20")
	rule.CategoryID = &otherCategory

	if got := Resolve(item, []Rule{rule}, 0, time.Now()); got != nil {
		t.Fatalf("out-of-scope rule must resolve to nil, got %+v", got)
	}
	if got := Resolve(item, nil, 0, time.Now()); got != nil {
		t.Fatalf("empty rule set must resolve to nil, got %+v", got)
	}
}

func TestResolveSkipsCouponAndCustomerRules(t *testing.T) {
	item := testItem(uuid.New())

	code := "WELCOME10"
	coupon := percentRule("40")
	coupon.CouponCode = &code

	personal := percentRule("40")
	personal.CustomerSpecific = true

	open := percentRule("10")

	got := Resolve(item, []Rule{coupon, personal, open}, 0, time.Now())
	if !got.Applied() || got.RuleID != open.ID {
		t.Fatalf("gated rules must not auto-resolve, got %+v", got)
	}
}

func TestResolveSkipsMalformedPercents(t *testing.T) {
	item := testItem(uuid.New())

	broken := percentRule("0")
	over := percentRule("101")

	if got := Resolve(item, []Rule{broken, over}, 0, time.Now()); got != nil {
		t.Fatalf("malformed percents must drop out, got %+v", got)
	}
}

func TestResolveLimitedTimeMessage(t *testing.T) {
	item := testItem(uuid.New())
	ends := time.Now().Add(time.Hour)
	rule := percentRule("15")
	rule.EndsAt = &ends

	got := Resolve(item, []Rule{rule}, 0, time.Now())
	if got.Message != "Limited time offer: 15% off" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.ValidUntil == nil || !got.ValidUntil.Equal(ends) {
		t.Fatalf("ValidUntil not carried through")
	}
}

func TestResolveNegativeQuantityTreatedAsZero(t *testing.T) {
	item := testItem(uuid.New())
	rule := percentRule("30")
	rule.MinQuantity = 2

	got := Resolve(item, []Rule{rule}, -3, time.Now())
	if got == nil || got.Applied() {
		t.Fatalf("expected informational outcome, got %+v", got)
	}
	if got.UnitsToUnlock != 2 {
		t.Fatalf("negative quantities clamp to zero, want 2 units, got %d", got.UnitsToUnlock)
	}
}

// Raising the cart quantity can only improve the buyer's position: an applied
// outcome never regresses to informational and the percent never drops.
func TestResolveQuantityMonotonicity(t *testing.T) {
	item := testItem(uuid.New())
	rules := []Rule{percentRule("10")}
	five := percentRule("15")
	five.MinQuantity = 5
	ten := percentRule("25")
	ten.MinQuantity = 10
	rules = append(rules, five, ten)

	now := time.Now()
	prev := decimal.Zero
	applied := false
	for qty := 0; qty <= 12; qty++ {
		got := Resolve(item, rules, qty, now)
		if got == nil {
			t.Fatalf("qty %d: expected an outcome", qty)
		}
		if applied && !got.Applied() {
			t.Fatalf("qty %d: applied outcome regressed to informational", qty)
		}
		if got.Applied() {
			applied = true
			if got.Percent.LessThan(prev) {
				t.Fatalf("qty %d: percent dropped from %s to %s", qty, prev, got.Percent)
			}
			prev = got.Percent
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	item := testItem(uuid.New())
	rules := []Rule{percentRule("10"), percentRule("10"), percentRule("20")}
	now := time.Now()

	first := Resolve(item, rules, 2, now)
	second := Resolve(item, rules, 2, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different outcomes:\n%+v\n%+v", first, second)
	}
}
