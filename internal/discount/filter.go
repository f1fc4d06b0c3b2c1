package discount

import (
	"time"

	"github.com/angelmondragon/bitefinderz-backend/internal/catalog"
)

// FilterActive keeps rules that are switched on and inside their validity
// window at the given instant.
func FilterActive(rules []Rule, now time.Time) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.ActiveAt(now) {
			out = append(out, rule)
		}
	}
	return out
}

// SplitScope partitions rules into the set explicitly targeting the item and
// the rest narrowed to rules that are global or match the item's category.
// The two slices are disjoint: an item-scoped rule never lands in the second
// slice even when its category happens to match.
func SplitScope(rules []Rule, item catalog.Item) (itemScoped, categoryOrGlobal []Rule) {
	for _, rule := range rules {
		if rule.ItemScoped() {
			if rule.TargetsItem(item.ID) {
				itemScoped = append(itemScoped, rule)
			}
			continue
		}
		if rule.CategoryID == nil || *rule.CategoryID == item.CategoryID {
			categoryOrGlobal = append(categoryOrGlobal, rule)
		}
	}
	return itemScoped, categoryOrGlobal
}
