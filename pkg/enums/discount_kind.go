package enums

// DiscountKind distinguishes outcomes that change the displayed price from
// ones that only advertise a potential saving.
type DiscountKind string

const (
	DiscountKindApplied       DiscountKind = "applied"
	DiscountKindInformational DiscountKind = "informational"
)

// IsApplied reports whether the outcome affects the displayed price.
func (k DiscountKind) IsApplied() bool {
	return k == DiscountKindApplied
}
