package reputation

import "oraclenet.dev/node/primitives"

// ActiveSet is the bounded-size ring of identities that acted honestly
// within the last activity_period epochs. Pushing past
// capacity ages the oldest member out.
type ActiveSet struct {
	capacity int
	order    []primitives.PublicKeyHash
	members  map[primitives.PublicKeyHash]bool
}

func NewActiveSet(capacity int) *ActiveSet {
	return &ActiveSet{
		capacity: capacity,
		members:  make(map[primitives.PublicKeyHash]bool),
	}
}

// Push records pkh as having acted honestly this epoch, aging out the
// oldest member if the set is at capacity. Re-pushing an existing member
// only refreshes its recency, it does not grow the ring.
func (a *ActiveSet) Push(pkh primitives.PublicKeyHash) {
	if a.members[pkh] {
		a.touch(pkh)
		return
	}
	if a.capacity > 0 && len(a.order) >= a.capacity {
		oldest := a.order[0]
		a.order = a.order[1:]
		delete(a.members, oldest)
	}
	a.order = append(a.order, pkh)
	a.members[pkh] = true
}

func (a *ActiveSet) touch(pkh primitives.PublicKeyHash) {
	for i, o := range a.order {
		if o == pkh {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	a.order = append(a.order, pkh)
}

func (a *ActiveSet) Contains(pkh primitives.PublicKeyHash) bool {
	return a.members[pkh]
}

func (a *ActiveSet) Len() int { return len(a.order) }

func (a *ActiveSet) Members() []primitives.PublicKeyHash {
	out := make([]primitives.PublicKeyHash, len(a.order))
	copy(out, a.order)
	return out
}
