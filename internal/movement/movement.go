// Package movement implements the AttackMovement frontier-expansion kernel:
// a live border of pixels advancing from a source actor into a target
// actor's territory, with economic cost accounting on every step.
package movement

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/brindlefield/territorial/internal/actor"
	"github.com/brindlefield/territorial/internal/grid"
	"github.com/brindlefield/territorial/internal/worldmap"
)

// offsets is the 5-cell neighborhood used to expand the frontier one step:
// the border pixel itself plus its four 4-neighbors.
var offsets = [5][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Movement is a live frontier advancing from Source into Target's territory.
// Target may be 0 (unowned land) or a dead actor's id rewritten by a kill.
type Movement struct {
	Source, Target int32
	Investment     int
	Border         *roaring.Bitmap
	Started        bool
}

// New constructs a not-yet-started movement. Call Start before the first Step.
func New(source, target int32, investment int) *Movement {
	return &Movement{Source: source, Target: target, Investment: investment, Border: roaring.New()}
}

// FromLanding constructs an already-started movement whose border is a
// single cell, used when a boat lands on foreign territory.
func FromLanding(source, target int32, investment int, g *grid.Grid, y, x int) *Movement {
	m := New(source, target, investment)
	m.Border.Add(g.Linear(y, x))
	m.Started = true
	return m
}

// Start computes the initial border: cells labeled Target that are
// 4-adjacent to a cell labeled Source.
func (m *Movement) Start(g *grid.Grid) {
	coords := g.AdjacentToMask(
		func(l int32) bool { return l == m.Source },
		func(l int32) bool { return l == m.Target },
	)
	m.Border = roaring.New()
	for _, c := range coords {
		m.Border.Add(g.Linear(c.Y, c.X))
	}
	m.Started = true
}

// Step advances the frontier by one expansion: it computes the next ring of
// target-labeled pixels adjacent to the current border, captures them for
// Source, debits the cost from Investment (and Target's resources, if it
// still exists), and reports whether the movement is now spent and should be
// removed from the active list.
func (m *Movement) Step(g *grid.Grid, c *grid.ColorGrid, source *actor.Actor, target *actor.Actor, wm *worldmap.Map) (done bool) {
	next := m.nextPixels(g)
	if next.IsEmpty() {
		source.Resources += m.Investment
		return true
	}

	n := int(next.GetCardinality())
	var traversabilitySum float64
	it := next.Iterator()
	for it.HasNext() {
		y, x := g.FromLinear(it.Next())
		g.Set(y, x, m.Source)
		c.Set(y, x, source.Color)
		traversabilitySum += wm.TraversabilityAt(y, x)
	}
	meanTraversability := traversabilitySum / float64(n)

	sourceCost, targetCost := costAccounting(n, meanTraversability, m.Investment, target)

	m.Investment -= sourceCost
	if target != nil {
		target.Resources -= targetCost
	}
	m.Border = next

	return m.Investment <= 0
}

// nextPixels forms the 5-offset expansion of the current border, clipped to
// grid bounds and filtered to cells still labeled Target. Using a bitmap
// gives the dedup pass for free.
func (m *Movement) nextPixels(g *grid.Grid) *roaring.Bitmap {
	next := roaring.New()
	it := m.Border.Iterator()
	for it.HasNext() {
		y, x := g.FromLinear(it.Next())
		for _, off := range offsets {
			ny, nx := y+off[0], x+off[1]
			if !g.InBounds(ny, nx) {
				continue
			}
			if g.At(ny, nx) == m.Target {
				next.Add(g.Linear(ny, nx))
			}
		}
	}
	return next
}

// costAccounting implements §4.3's cost formulas. target may be nil, meaning
// the captured pixels are unowned land (or belonged to a now-dead actor).
func costAccounting(n int, meanTraversability float64, investment int, target *actor.Actor) (sourceCost, targetCost int) {
	if target == nil {
		cost := int(float64(n) * (1 + (1 - meanTraversability)))
		sourceCost, targetCost = cost, cost
	} else {
		base := float64(n) * (float64(target.Resources) / float64(target.Area)) * (1 + (1 - meanTraversability))
		resourceRatio := float64(target.Resources) / float64(target.MaxResources()+1)
		multiplier := 1 + resourceRatio

		sourceCost = int(2 * base * multiplier)
		targetCost = int(base * multiplier)

		sourceCost = min(sourceCost, investment)
		targetCost = min(targetCost, target.Resources)
	}

	if sourceCost < 2*targetCost {
		targetCost = sourceCost / 2
	} else if sourceCost > 2*targetCost {
		sourceCost = 2 * targetCost
	}

	if sourceCost < n {
		sourceCost = n
	}

	return sourceCost, targetCost
}

// HandleCollision applies the reference collision policy when a newly
// proposed movement m is introduced against the active list. It returns the
// updated active list.
func HandleCollision(active []*Movement, m *Movement) []*Movement {
	for i, existing := range active {
		if existing.Source == m.Source && existing.Target == m.Target {
			existing.Investment += m.Investment
			return active
		}
		if existing.Source == m.Target && existing.Target == m.Source {
			cancel := min(existing.Investment, m.Investment)
			m.Investment -= cancel
			existing.Investment -= cancel

			out := active
			if existing.Investment <= 0 {
				out = make([]*Movement, 0, len(active))
				out = append(out, active[:i]...)
				out = append(out, active[i+1:]...)
			}
			if m.Investment > 0 {
				out = append(out, m)
			}
			return out
		}
	}
	return append(active, m)
}

// RewriteTarget is called when an actor dies: any movement aimed at it
// degrades to a neutral capture against unowned land.
func RewriteTarget(active []*Movement, deadID int32) {
	for _, m := range active {
		if m.Target == deadID {
			m.Target = grid.Unowned
		}
	}
}
