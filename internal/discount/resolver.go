package discount

import (
	"fmt"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
	"github.com/angelmondragon/bitefinderz-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Outcome annotates a catalog item with the single winning discount.
//
// DiscountedPrice is only set for applied outcomes; informational outcomes
// instead carry PotentialPrice, a preview of what the price would become once
// the quantity gate is met. Neither value is rounded here; formatting happens
// at presentation time.
type Outcome struct {
	Kind            enums.DiscountKind
	RuleID          uuid.UUID
	RuleName        string
	Percent         decimal.Decimal
	DiscountedPrice *decimal.Decimal
	PotentialPrice  *decimal.Decimal
	Message         string
	Tiered          bool
	ItemScoped      bool
	MinQuantity     int
	UnitsToUnlock   int
	ValidUntil      *time.Time
}

// Applied reports whether the outcome changes the displayed price.
func (o *Outcome) Applied() bool {
	return o != nil && o.Kind.IsApplied()
}

// Resolve picks the single best discount for the item given the active rule
// set and the item's current cart quantity. It returns nil when the item is
// unavailable or nothing is in scope, an applied outcome when a rule's
// conditions are met, and an informational outcome when only unmet tiered
// rules remain.
//
// Resolve is a pure function: identical inputs always produce identical
// outcomes, and it never fails — malformed rules simply drop out.
func Resolve(item catalog.Item, rules []Rule, cartQty int, now time.Time) *Outcome {
	if !item.Available {
		return nil
	}
	if cartQty < 0 {
		cartQty = 0
	}

	candidates := make([]Rule, 0, len(rules))
	for _, rule := range FilterActive(rules, now) {
		// Coupon-gated and customer-specific rules only apply through their
		// own redemption paths, even if a caller passes them in.
		if rule.AutoResolvable() {
			candidates = append(candidates, rule)
		}
	}

	itemScoped, categoryOrGlobal := SplitScope(candidates, item)
	// Any item-scoped rule shadows every category/global rule for this item.
	scoped := categoryOrGlobal
	if len(itemScoped) > 0 {
		scoped = itemScoped
	}

	regular, tiered := SplitTiers(scoped)
	bestRegular := Best(regular)
	bestEligibleTier := Best(EligibleTiers(tiered, cartQty))

	switch {
	case bestRegular != nil && bestEligibleTier != nil:
		// The tiered rule wins exact ties: the buyer committed to the
		// quantity gate, so equal value goes to the bigger commitment.
		if bestRegular.Percent.GreaterThan(bestEligibleTier.Percent) {
			return applied(item, *bestRegular)
		}
		return applied(item, *bestEligibleTier)
	case bestRegular != nil:
		return applied(item, *bestRegular)
	case bestEligibleTier != nil:
		return applied(item, *bestEligibleTier)
	}

	if bestUnmet := Best(tiered); bestUnmet != nil {
		return informational(item, *bestUnmet, cartQty)
	}
	return nil
}

func applied(item catalog.Item, rule Rule) *Outcome {
	price := discountedPrice(item.Price, rule.Percent)
	return &Outcome{
		Kind:            enums.DiscountKindApplied,
		RuleID:          rule.ID,
		RuleName:        rule.Name,
		Percent:         rule.Percent,
		DiscountedPrice: &price,
		Message:         appliedMessage(rule),
		Tiered:          rule.Tiered(),
		ItemScoped:      rule.ItemScoped(),
		MinQuantity:     rule.MinQuantity,
		ValidUntil:      rule.EndsAt,
	}
}

func informational(item catalog.Item, rule Rule, cartQty int) *Outcome {
	preview := discountedPrice(item.Price, rule.Percent)
	return &Outcome{
		Kind:           enums.DiscountKindInformational,
		RuleID:         rule.ID,
		RuleName:       rule.Name,
		Percent:        rule.Percent,
		PotentialPrice: &preview,
		Message:        informationalMessage(rule, cartQty),
		Tiered:         true,
		ItemScoped:     rule.ItemScoped(),
		MinQuantity:    rule.MinQuantity,
		UnitsToUnlock:  rule.MinQuantity - cartQty,
		ValidUntil:     rule.EndsAt,
	}
}

// discountedPrice computes price * (1 - percent/100) at full precision.
func discountedPrice(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(oneHundred.Sub(percent)).Div(oneHundred)
}

func appliedMessage(rule Rule) string {
	percent := formatPercent(rule.Percent)
	switch {
	case rule.Tiered() && rule.ItemScoped():
		return fmt.Sprintf("Special item offer: Buy %d+ for %s off", rule.MinQuantity, percent)
	case rule.Tiered():
		return fmt.Sprintf("Buy %d+ for %s off", rule.MinQuantity, percent)
	case rule.ItemScoped():
		return fmt.Sprintf("Special item offer: %s off", percent)
	case rule.EndsAt != nil:
		return fmt.Sprintf("Limited time offer: %s off", percent)
	default:
		return fmt.Sprintf("%s off", percent)
	}
}

func informationalMessage(rule Rule, cartQty int) string {
	percent := formatPercent(rule.Percent)
	missing := rule.MinQuantity - cartQty
	if rule.ItemScoped() {
		return fmt.Sprintf("Special item offer: add %d more to unlock %s off", missing, percent)
	}
	return fmt.Sprintf("Add %d more to unlock %s off", missing, percent)
}

func formatPercent(percent decimal.Decimal) string {
	return percent.String() + "%"
}
