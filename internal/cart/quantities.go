package cart

import "github.com/google/uuid"

// Quantities is a snapshot of per-item cart quantities. Items absent from the
// map have quantity zero.
type Quantities map[uuid.UUID]int

// Get returns the quantity for an item, zero when absent.
func (q Quantities) Get(itemID uuid.UUID) int {
	if q == nil {
		return 0
	}
	return q[itemID]
}

// Equal reports structural equality. Zero-valued entries count the same as
// absent ones, so {a:0} and {} are equal.
func (q Quantities) Equal(other Quantities) bool {
	for id, qty := range q {
		if qty != other.Get(id) {
			return false
		}
	}
	for id, qty := range other {
		if qty != q.Get(id) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the snapshot.
func (q Quantities) Clone() Quantities {
	if q == nil {
		return Quantities{}
	}
	out := make(Quantities, len(q))
	for id, qty := range q {
		out[id] = qty
	}
	return out
}
