package enums

// UsageEventType names events on the discount usage topic.
type UsageEventType string

const (
	EventDiscountApplied UsageEventType = "discount.applied"
)
