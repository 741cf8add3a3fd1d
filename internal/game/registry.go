package game

import (
	"github.com/google/btree"

	"github.com/brindlefield/territorial/internal/actor"
)

// registryDegree is the btree branching factor; unremarkable for a registry
// sized in the hundreds to low thousands of actors.
const registryDegree = 32

// registry is the actor store: a btree of ids gives deterministic ascending
// iteration order for a given seed (map iteration order is randomized and
// would make per-tick RNG draws irreproducible), backed by a plain map for
// O(1) lookup by id.
type registry struct {
	order *btree.BTreeG[actor.ID]
	byID  map[actor.ID]*actor.Actor
}

func newRegistry() *registry {
	return &registry{
		order: btree.NewOrderedG[actor.ID](registryDegree),
		byID:  make(map[actor.ID]*actor.Actor),
	}
}

func (r *registry) add(a *actor.Actor) {
	r.order.ReplaceOrInsert(a.ID)
	r.byID[a.ID] = a
}

func (r *registry) remove(id actor.ID) {
	r.order.Delete(id)
	delete(r.byID, id)
}

func (r *registry) get(id actor.ID) (*actor.Actor, bool) {
	a, ok := r.byID[id]
	return a, ok
}

func (r *registry) len() int { return r.order.Len() }

// ascend visits every actor in ascending id order. fn returning false stops
// the walk early.
func (r *registry) ascend(fn func(*actor.Actor) bool) {
	r.order.Ascend(func(id actor.ID) bool {
		return fn(r.byID[id])
	})
}

// snapshot returns every actor in ascending id order. The result is owned by
// the caller; mutating it does not affect the registry.
func (r *registry) snapshot() []*actor.Actor {
	out := make([]*actor.Actor, 0, r.len())
	r.ascend(func(a *actor.Actor) bool {
		out = append(out, a)
		return true
	})
	return out
}
