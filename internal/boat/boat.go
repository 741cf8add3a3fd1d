// Package boat implements free-moving projectiles that carry investment
// from a source actor across water to wherever they first make landfall.
package boat

import (
	"math"
	"math/rand"

	"github.com/brindlefield/territorial/internal/actor"
	"github.com/brindlefield/territorial/internal/grid"
	"github.com/brindlefield/territorial/internal/movement"
)

// Speed is the fixed magnitude of every boat's velocity vector.
const Speed = 2.0

// Boat is a single in-flight vessel.
type Boat struct {
	Source     int32
	Investment int
	PosY, PosX float64
	SpeedY, SpeedX float64
	Color      [4]byte
}

// FromActor spawns a boat from a's coastline: water cells 4-adjacent to a's
// territory. On success the investment is debited from a immediately; when
// spawning fails (nil, false), because a has no coastline or the chosen
// coastline cell coincides with a's center of mass, a's resources are left
// unchanged.
func FromActor(a *actor.Actor, investment int, g *grid.Grid, rng *rand.Rand) (*Boat, bool) {
	coastline := FindCoastline(int32(a.ID), g)
	if len(coastline) == 0 {
		return nil, false
	}
	a.Resources -= investment

	target := coastline[rng.Intn(len(coastline))]

	dy := float64(target.Y) - a.CenterOfMassY
	dx := float64(target.X) - a.CenterOfMassX
	magnitude := math.Sqrt(dy*dy + dx*dx)
	if magnitude == 0 {
		a.Resources += investment
		return nil, false
	}

	return &Boat{
		Source:     int32(a.ID),
		Investment: investment,
		PosY:       float64(target.Y),
		PosX:       float64(target.X),
		SpeedY:     dy / magnitude * Speed,
		SpeedX:     dx / magnitude * Speed,
		Color:      a.Color,
	}, true
}

// FindCoastline returns every water cell 4-adjacent to a cell labeled id,
// the same convolution AttackMovement.Start uses against a land target.
func FindCoastline(id int32, g *grid.Grid) []grid.Coord {
	return g.AdjacentToMask(
		func(l int32) bool { return l == id },
		func(l int32) bool { return l == grid.Water },
	)
}

// Outcome describes what happened to a boat after one Step.
type Outcome int

const (
	Sailing Outcome = iota
	LostOverboard
	Returned
	Landed
)

// Step advances the boat's position by one tick and reports the outcome.
// When Landed, landingY/landingX/landingLabel identify the cell the caller
// should use to synthesize an AttackMovement via movement.FromLanding.
func (b *Boat) Step(g *grid.Grid) (outcome Outcome, landingY, landingX int, landingLabel int32) {
	b.PosY += b.SpeedY
	b.PosX += b.SpeedX

	if math.IsNaN(b.PosY) || math.IsNaN(b.PosX) || math.IsInf(b.PosY, 0) || math.IsInf(b.PosX, 0) {
		return LostOverboard, 0, 0, 0
	}

	w := float64(g.Width)
	b.PosX = math.Mod(b.PosX, w)
	if b.PosX < 0 {
		b.PosX += w
	}
	if b.PosX >= w {
		b.PosX = 0
	}
	x := int(b.PosX)

	y := int(b.PosY)
	if y < 0 || y >= g.Height {
		return LostOverboard, 0, 0, 0
	}

	label := g.At(y, x)
	if label == grid.Water {
		return Sailing, 0, 0, 0
	}
	if label == b.Source {
		return Returned, 0, 0, 0
	}
	return Landed, y, x, label
}

// Land synthesizes the AttackMovement a landing produces, already started
// with a single-cell border at the landing site.
func Land(b *Boat, landingY, landingX int, landingLabel int32, g *grid.Grid) *movement.Movement {
	return movement.FromLanding(b.Source, landingLabel, b.Investment, g, landingY, landingX)
}
