// Package membership folds append-only add/remove operation logs into the
// current membership of a set.
package membership

import (
	"bytes"
	"cmp"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// Operation is the op code carried by the *Op events.
type Operation uint8

const (
	OpAdd    Operation = 1
	OpRemove Operation = 2
)

// Event is one decoded operation on the set. Value carries event specific
// payload such as a lock time or a mapped substrate account.
type Event[V any] struct {
	Address     common.Address
	Operator    common.Address
	Operation   Operation
	Value       V
	BlockNumber uint64
	LogIndex    uint
}

// Member is an address whose last observed operation was an add.
type Member[V any] struct {
	Address  common.Address
	Operator common.Address
	Value    V
}

// State maps an address to the last add operation seen for it.
type State[V any] map[common.Address]Member[V]

// Apply returns the state after ev. state itself is not modified. Unknown op
// codes return state as is.
func Apply[V any](state State[V], ev Event[V]) State[V] {
	if ev.Operation != OpAdd && ev.Operation != OpRemove {
		return state
	}

	next := maps.Clone(state)
	if next == nil {
		next = State[V]{}
	}
	apply(next, ev)

	return next
}

// apply folds ev into state in place.
func apply[V any](state State[V], ev Event[V]) {
	switch ev.Operation {
	case OpAdd:
		state[ev.Address] = Member[V]{Address: ev.Address, Operator: ev.Operator, Value: ev.Value}
	case OpRemove:
		delete(state, ev.Address)
	}
}

// Reconstruct replays events in chain order from an empty state and returns
// the members sorted by address. Events are ordered by block number and log
// index before folding, so the caller's ordering does not matter.
func Reconstruct[V any](events []Event[V]) []Member[V] {
	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b Event[V]) int {
		if c := cmp.Compare(a.BlockNumber, b.BlockNumber); c != 0 {
			return c
		}

		return cmp.Compare(a.LogIndex, b.LogIndex)
	})

	state := State[V]{}
	for _, ev := range ordered {
		apply(state, ev)
	}

	return Members(state)
}

// Members returns the members of state sorted by address.
func Members[V any](state State[V]) []Member[V] {
	out := make([]Member[V], 0, len(state))
	for _, m := range state {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Member[V]) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})

	return out
}
