package game

import (
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/brindlefield/territorial/internal/actor"
	"github.com/brindlefield/territorial/internal/grid"
	"github.com/brindlefield/territorial/internal/movement"
	"github.com/brindlefield/territorial/internal/worldmap"
)

// S1: init a 10x10 world with seed 42 and 2 actors; after one
// update_square_areas each actor's area equals the popcount of its id.
func TestUpdateSquareAreasMatchesPopcount(t *testing.T) {
	m := worldmap.Generate(worldmap.DefaultGenConfig(10, 10, 42))
	g := New(m, 2, 42, nil)

	g.UpdateSquareAreas()

	for _, a := range g.Actors() {
		want := g.Grid.Count(int32(a.ID))
		if a.Area != want && want >= killAreaFloor {
			t.Fatalf("actor %d area = %d, want popcount %d", a.ID, a.Area, want)
		}
	}
}

func newBareGame(width, height int) *Game {
	return &Game{
		Grid:      grid.New(width, height),
		Color:     grid.NewColorGrid(width, height),
		Map:       worldmap.Generate(worldmap.DefaultGenConfig(width, height, 1)),
		Neighbors: mapset.NewThreadUnsafeSet[grid.LabelPair](),
		MaxArea:   1,
		registry:  newRegistry(),
		rng:       rand.New(rand.NewSource(1)),
	}
}

// S2: two adjacent actors A (resources=1000), B (resources=100, area=1); one
// update_attack_movements after A launches with investment=500 captures at
// least 1 B pixel and deducts from both.
func TestUpdateAttackMovementsCapturesAndDeducts(t *testing.T) {
	g := newBareGame(5, 5)

	a := actor.New(1, [4]byte{1, 0, 0, 175}, "A", 2, 1)
	a.Resources = 1000 - 500
	g.registry.add(a)
	g.Grid.Set(2, 1, int32(a.ID))

	b := actor.New(2, [4]byte{0, 1, 0, 175}, "B", 2, 3)
	b.Resources = 100
	b.Area = 1
	g.registry.add(b)
	g.Grid.Set(2, 2, int32(b.ID))
	g.Grid.Set(2, 3, int32(b.ID))

	g.Movements = append(g.Movements, movement.New(int32(a.ID), int32(b.ID), 500))

	g.UpdateAttackMovements()

	if g.Grid.At(2, 2) != int32(a.ID) {
		t.Fatalf("expected A to capture B's adjacent pixel, grid(2,2) = %d", g.Grid.At(2, 2))
	}
	if b.Resources >= 100 {
		t.Fatalf("B's resources not deducted: %d", b.Resources)
	}
}

// S3: opposing movements (A->B inv=300) and (B->A inv=200); after collision
// handling one movement remains, direction A->B, investment=100.
func TestHandleCollisionOppositeDirection(t *testing.T) {
	active := []*movement.Movement{movement.New(1, 2, 300)}
	m := movement.New(2, 1, 200)
	active = movement.HandleCollision(active, m)

	if len(active) != 1 {
		t.Fatalf("expected exactly one surviving movement, got %d", len(active))
	}
	if active[0].Source != 1 || active[0].Target != 2 || active[0].Investment != 100 {
		t.Fatalf("surviving movement = %+v, want source=1 target=2 investment=100", active[0])
	}
}

// S5: actor with area=5 when max_area=1000 is removed on the next
// update_square_areas; its cells become 0; any movement targeting it is
// rewritten to target=0.
func TestUpdateSquareAreasKillsUndersizedActor(t *testing.T) {
	g := newBareGame(5, 5)
	g.MaxArea = 1000

	victim := actor.New(9, [4]byte{9, 9, 9, 175}, "Victim", 2, 2)
	g.registry.add(victim)
	for _, c := range []grid.Coord{{Y: 2, X: 2}, {Y: 2, X: 3}, {Y: 3, X: 2}, {Y: 3, X: 3}, {Y: 4, X: 4}} {
		g.Grid.Set(c.Y, c.X, int32(victim.ID))
	}

	attacker := actor.New(1, [4]byte{1, 1, 1, 175}, "Attacker", 0, 0)
	g.registry.add(attacker)
	g.Movements = append(g.Movements, movement.New(int32(attacker.ID), int32(victim.ID), 50))

	g.UpdateSquareAreas()

	if _, ok := g.Actor(victim.ID); ok {
		t.Fatal("undersized actor was not killed")
	}
	if g.Grid.Count(int32(victim.ID)) != 0 {
		t.Fatal("killed actor's cells were not cleared")
	}
	if g.Movements[0].Target != grid.Unowned {
		t.Fatalf("movement targeting killed actor not rewritten: target = %d", g.Movements[0].Target)
	}
}

func TestUpdateNeighborsExcludesMountainAndSelfPairs(t *testing.T) {
	g := newBareGame(4, 4)
	rows := [][]int32{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{1, 1, grid.Mountain, grid.Mountain},
		{1, 1, grid.Mountain, grid.Mountain},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Grid.Set(y, x, rows[y][x])
		}
	}

	g.UpdateNeighbors()

	if g.Neighbors.Cardinality() != 1 {
		t.Fatalf("expected exactly one neighbor pair, got %d: %v", g.Neighbors.Cardinality(), g.Neighbors.ToSlice())
	}
	if !g.Neighbors.Contains(grid.LabelPair{A: 1, B: 2}) {
		t.Fatalf("expected pair {1,2}, got %v", g.Neighbors.ToSlice())
	}
}

func TestNeighborsOfReturnsOtherLabel(t *testing.T) {
	g := newBareGame(4, 4)
	g.Neighbors.Add(grid.LabelPair{A: 1, B: 2})
	g.Neighbors.Add(grid.LabelPair{A: 1, B: grid.Water})

	got := g.neighborsOf(1)
	set := map[int32]bool{}
	for _, v := range got {
		set[v] = true
	}
	if !set[2] || !set[grid.Water] || len(set) != 2 {
		t.Fatalf("neighborsOf(1) = %v, want {2, -1}", got)
	}
}

func TestKillActorRewritesMovementsAndClearsGrid(t *testing.T) {
	g := newBareGame(3, 3)
	victim := actor.New(5, [4]byte{5, 5, 5, 175}, "V", 1, 1)
	g.registry.add(victim)
	g.Grid.Set(1, 1, int32(victim.ID))
	g.Color.Set(1, 1, victim.Color)
	g.Movements = append(g.Movements, movement.New(1, int32(victim.ID), 10))

	g.KillActor(victim.ID)

	if g.Grid.At(1, 1) != grid.Unowned {
		t.Fatalf("killed actor's cell not reverted to Unowned: got %d", g.Grid.At(1, 1))
	}
	if g.Color.At(1, 1) != ([4]byte{}) {
		t.Fatal("killed actor's color not cleared")
	}
	if g.Movements[0].Target != grid.Unowned {
		t.Fatalf("movement targeting killed actor not rewritten: got %d", g.Movements[0].Target)
	}
	if _, ok := g.Actor(victim.ID); ok {
		t.Fatal("killed actor still present in registry")
	}
}
