// Package game implements the tick kernel: it owns the grid, the color
// grid, the actor registry, the neighbor set, and the movement/boat lists,
// and exposes the periodic methods the scheduler drives.
package game

import (
	"log/slog"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/brindlefield/territorial/internal/actor"
	"github.com/brindlefield/territorial/internal/boat"
	"github.com/brindlefield/territorial/internal/grid"
	"github.com/brindlefield/territorial/internal/movement"
	"github.com/brindlefield/territorial/internal/worldmap"
	"github.com/brindlefield/territorial/internal/worldmap/citygaz"
)

// Game owns every piece of mutable simulation state. It is not safe for
// concurrent use; callers (the scheduler's executor goroutine) must
// serialize all access.
type Game struct {
	Grid  *grid.Grid
	Color *grid.ColorGrid
	Map   *worldmap.Map

	Movements []*movement.Movement
	Boats     []*boat.Boat
	Neighbors mapset.Set[grid.LabelPair]

	MaxArea int

	registry *registry
	rng      *rand.Rand
	nextID   actor.ID
	gaz      *citygaz.Gazetteer
}

// New builds a Game over m, spawning numActors actors on uniformly random
// accessible cells.
func New(m *worldmap.Map, numActors int, seed int64, gaz *citygaz.Gazetteer) *Game {
	g := &Game{
		Grid:      grid.New(m.Width, m.Height),
		Color:     grid.NewColorGrid(m.Width, m.Height),
		Map:       m,
		Neighbors: mapset.NewThreadUnsafeSet[grid.LabelPair](),
		MaxArea:   1,
		registry:  newRegistry(),
		rng:       rand.New(rand.NewSource(seed)),
		gaz:       gaz,
	}

	for i := range m.WaterMask {
		y, x := i/m.Width, i%m.Width
		switch {
		case m.WaterMask[i]:
			g.Grid.Set(y, x, grid.Water)
		case m.MountainMask[i]:
			g.Grid.Set(y, x, grid.Mountain)
		}
	}

	for i := 0; i < numActors; i++ {
		g.spawnActor()
	}

	return g
}

func (g *Game) spawnActor() {
	g.nextID++
	id := g.nextID

	y, x := actor.SpawnAccessibleCell(g.Map, g.rng)
	color := actor.RandomColor(g.rng)
	name := g.resolveName(y, x)

	a := actor.New(id, color, name, y, x)
	actor.Spawn(a, g.Grid, g.Color)
	g.registry.add(a)
}

func (g *Game) resolveName(y, x int) string {
	if g.gaz == nil {
		return "Unnamed"
	}
	lat, lon := g.Map.Lat[y*g.Map.Width+x], g.Map.Lon[y*g.Map.Width+x]
	city, ok := g.gaz.Nearest(lat, lon)
	if !ok {
		return "Unnamed"
	}
	return city.Name
}

// Actor returns the actor with the given id, or false if it does not exist.
func (g *Game) Actor(id actor.ID) (*actor.Actor, bool) { return g.registry.get(id) }

// Actors returns every live actor in deterministic ascending-id order.
func (g *Game) Actors() []*actor.Actor { return g.registry.snapshot() }

// UpdateResources applies one resource tick to every actor.
func (g *Game) UpdateResources() {
	g.registry.ascend(func(a *actor.Actor) bool {
		a.UpdateResources()
		return true
	})
}

// UpdateAttackMovements advances every active movement by one expansion
// step, starting it first if this is its first tick.
func (g *Game) UpdateAttackMovements() {
	var survivors []*movement.Movement
	for _, m := range g.Movements {
		if !m.Started {
			m.Start(g.Grid)
		}
		source, ok := g.registry.get(actor.ID(m.Source))
		if !ok {
			slog.Error("attack movement source not found", "source", m.Source, "target", m.Target)
			continue
		}
		target, _ := g.registry.get(actor.ID(m.Target))
		if m.Step(g.Grid, g.Color, source, target, g.Map) {
			continue
		}
		survivors = append(survivors, m)
	}
	g.Movements = survivors
}

// UpdateBoats advances every in-flight boat by one tick, resolving landfall.
func (g *Game) UpdateBoats() {
	var survivors []*boat.Boat
	for _, b := range g.Boats {
		outcome, y, x, label := b.Step(g.Grid)
		switch outcome {
		case boat.Sailing:
			survivors = append(survivors, b)
		case boat.LostOverboard:
			// investment is lost with the boat
		case boat.Returned:
			if src, ok := g.registry.get(actor.ID(b.Source)); ok {
				src.Resources += b.Investment
			}
		case boat.Landed:
			m := boat.Land(b, y, x, label, g.Grid)
			g.Movements = movement.HandleCollision(g.Movements, m)
		}
	}
	g.Boats = survivors
}

// GetNewAttackMovements gives every actor a chance to propose an attack or
// boat against a known neighbor.
func (g *Game) GetNewAttackMovements() {
	g.registry.ascend(func(a *actor.Actor) bool {
		neighbors := g.neighborsOf(a.ID)
		target, investment, ok := a.ProposeTarget(neighbors, g.rng)
		if !ok {
			return true
		}
		if target == grid.Water {
			b, spawned := boat.FromActor(a, investment, g.Grid, g.rng)
			if spawned {
				g.Boats = append(g.Boats, b)
			}
			return true
		}
		a.Resources -= investment
		m := movement.New(int32(a.ID), target, investment)
		g.Movements = movement.HandleCollision(g.Movements, m)
		return true
	})
}

// neighborsOf returns the distinct labels observed adjacent to id's
// territory, excluding id itself.
func (g *Game) neighborsOf(id actor.ID) []int32 {
	var out []int32
	g.Neighbors.Each(func(p grid.LabelPair) bool {
		switch {
		case p.A == int32(id) && p.B != int32(id):
			out = append(out, p.B)
		case p.B == int32(id) && p.A != int32(id):
			out = append(out, p.A)
		}
		return false
	})
	return out
}

// centerOfMassDownsampleStride matches the reference's reduction_factor=5.
const centerOfMassDownsampleStride = 5

// UpdateCentersOfMass recomputes every actor's center of mass over a
// downsampled grid, for speed, scaling the result back up.
func (g *Game) UpdateCentersOfMass() {
	down := g.Grid.Downsample(centerOfMassDownsampleStride)
	g.registry.ascend(func(a *actor.Actor) bool {
		actor.UpdateCenterOfMass(a, down, centerOfMassDownsampleStride)
		return true
	})
}

// killAreaFloor is the absolute minimum area before an actor is eliminated
// regardless of max_area (§4.5).
const killAreaFloor = 10

// UpdateSquareAreas recomputes every actor's area from the grid histogram,
// tracks the largest area seen so far, and eliminates actors that have
// collapsed below the kill threshold or vanished from the grid entirely.
func (g *Game) UpdateSquareAreas() {
	hist := g.Grid.Histogram()

	for _, a := range g.registry.snapshot() {
		area, present := hist[int32(a.ID)]
		if !present {
			g.KillActor(a.ID)
			continue
		}
		if area > g.MaxArea {
			g.MaxArea = area
		}
		threshold := killAreaFloor
		if g.MaxArea/100 > threshold {
			threshold = g.MaxArea / 100
		}
		if area < threshold {
			g.KillActor(a.ID)
			continue
		}
		a.Area = area
		a.AverageLandValue = g.averageLandValue(int32(a.ID))
	}
}

func (g *Game) averageLandValue(id int32) float64 {
	var sum float64
	n := 0
	for y := 0; y < g.Grid.Height; y++ {
		for x := 0; x < g.Grid.Width; x++ {
			if g.Grid.At(y, x) == id {
				sum += g.Map.LivabilityAt(y, x)
				n++
			}
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

// KillActor removes an actor from play: its territory reverts to unowned,
// its color is cleared, it leaves the registry, and any movement targeting
// it degrades to a neutral capture against unowned land.
func (g *Game) KillActor(id actor.ID) {
	label := int32(id)
	for y := 0; y < g.Grid.Height; y++ {
		for x := 0; x < g.Grid.Width; x++ {
			if g.Grid.At(y, x) == label {
				g.Color.Set(y, x, [4]byte{})
			}
		}
	}
	g.Grid.ReplaceAll(label, grid.Unowned)
	g.registry.remove(id)
	movement.RewriteTarget(g.Movements, label)
}

// neighborDownsampleStride matches the reference's reduction_factor=2.
const neighborDownsampleStride = 2

// UpdateNeighbors recomputes the adjacency set: the unordered label pairs
// observed across the downsampled grid's up and right unit shifts, excluding
// any pair touching a mountain cell.
func (g *Game) UpdateNeighbors() {
	down := g.Grid.Downsample(neighborDownsampleStride)
	next := mapset.NewThreadUnsafeSet[grid.LabelPair]()

	for _, dy := range [2][2]int{{-1, 0}, {0, 1}} {
		for _, p := range down.ShiftPairs(dy[0], dy[1]) {
			if p.A == p.B {
				continue
			}
			if p.A == grid.Mountain || p.B == grid.Mountain {
				continue
			}
			next.Add(p.Sorted())
		}
	}

	g.Neighbors = next
}
