package discount

// SplitTiers partitions rules into unconditional ("regular") rules and
// quantity-gated ("tiered") rules.
func SplitTiers(rules []Rule) (regular, tiered []Rule) {
	for _, rule := range rules {
		if rule.Tiered() {
			tiered = append(tiered, rule)
		} else {
			regular = append(regular, rule)
		}
	}
	return regular, tiered
}

// EligibleTiers keeps tiered rules whose minimum quantity is met by the
// current cart quantity.
func EligibleTiers(tiered []Rule, cartQty int) []Rule {
	out := make([]Rule, 0, len(tiered))
	for _, rule := range tiered {
		if cartQty >= rule.MinQuantity {
			out = append(out, rule)
		}
	}
	return out
}

// Best returns the rule with the highest percent-off, or nil when no rule
// qualifies. Rules with a percent outside (0, 100] are skipped entirely.
// Exact percent ties are broken by the lowest rule ID string so the result
// does not depend on slice order.
func Best(rules []Rule) *Rule {
	var best *Rule
	for i := range rules {
		rule := &rules[i]
		if !rule.ValidPercent() {
			continue
		}
		if best == nil {
			best = rule
			continue
		}
		switch {
		case rule.Percent.GreaterThan(best.Percent):
			best = rule
		case rule.Percent.Equal(best.Percent) && rule.ID.String() < best.ID.String():
			best = rule
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}
