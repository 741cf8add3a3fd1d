// Package actor implements the territorial Actor (Square in the reference
// project): identity, resources, area, center-of-mass, and the per-tick
// economic rules that drive attack and boat proposals.
package actor

import (
	"math/rand"

	"github.com/brindlefield/territorial/internal/grid"
	"github.com/brindlefield/territorial/internal/worldmap"
)

// ID identifies an Actor. Grid labels reuse this same value: a cell labeled
// k is owned by the Actor with ID k.
type ID int32

const (
	// BaseInterestRate is the resource-growth rate at zero resource saturation.
	BaseInterestRate = 0.01
	// MaxResourcesMultiplier scales (area * avg land value) into a resource cap.
	MaxResourcesMultiplier = 100
	// BonusInterval is how often (in resource ticks) an area-sized bonus is added.
	BonusInterval = 50
	// SpawnStampRadius is the half-width of the spawn stamp: a 9x9 block.
	SpawnStampRadius = 4
	// AttackProbability is the per-tick chance an actor with targets proposes an attack.
	AttackProbability = 0.3
)

// Actor is one territorial entity.
type Actor struct {
	ID    ID
	Color [4]byte
	Name  string

	StartY, StartX int

	Resources        int
	Area             int
	AverageLandValue float64
	CenterOfMassY    float64
	CenterOfMassX    float64
	UpdateCounter    int
}

// New constructs an Actor at its spawn cell, with the starting resource pool
// used throughout the reference project.
func New(id ID, color [4]byte, name string, startY, startX int) *Actor {
	return &Actor{
		ID:               id,
		Color:            color,
		Name:             name,
		StartY:           startY,
		StartX:           startX,
		Resources:        1000,
		Area:             1,
		AverageLandValue: 1.0,
	}
}

// MaxResources is the resource cap derived from area and land value.
func (a *Actor) MaxResources() int {
	area := int(float64(a.Area) * a.AverageLandValue)
	limit := area * MaxResourcesMultiplier
	if limit < 2000 {
		limit = 2000
	}
	return limit
}

// InterestRate is the resource growth rate, tapering to zero as resources
// approach MaxResources.
func (a *Actor) InterestRate() float64 {
	maxRes := a.MaxResources()
	if maxRes == 0 {
		return 0
	}
	ratio := float64(a.Resources) / float64(maxRes)
	factor := 1 - ratio*ratio
	if factor < 0 {
		factor = 0
	}
	return BaseInterestRate * factor
}

// UpdateResources applies one resource tick: compounding growth plus a
// periodic area-sized bonus every BonusInterval ticks.
func (a *Actor) UpdateResources() {
	maxRes := a.MaxResources()
	a.Resources = min(int(float64(a.Resources)*(1+a.InterestRate()))+1, maxRes)
	a.UpdateCounter++
	if a.UpdateCounter%BonusInterval == 0 {
		bonus := int(float64(a.Area) * a.AverageLandValue / 2)
		a.Resources = min(a.Resources+bonus, maxRes)
	}
}

// ProposeTarget decides whether this actor launches an attack or boat this
// tick: with AttackProbability, uniformly choose a target from the known
// neighbor set and a random fraction of current resources to commit. The
// caller is responsible for debiting investment from Resources once it knows
// whether the proposal becomes a land attack or a boat. Returns ok=false when
// no proposal is made this tick.
func (a *Actor) ProposeTarget(targets []int32, rng *rand.Rand) (target int32, investment int, ok bool) {
	if len(targets) == 0 {
		return 0, 0, false
	}
	if rng.Float64() >= AttackProbability {
		return 0, 0, false
	}
	target = targets[rng.Intn(len(targets))]
	investment = int(uniform(rng, 0.01, 0.3) * float64(a.Resources))
	return target, investment, true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Spawn stamps a 9x9 block of the actor's id onto g (clipped to bounds and
// skipping water and mountain cells), then recomputes the actor's center of
// mass.
func Spawn(a *Actor, g *grid.Grid, c *grid.ColorGrid) {
	for y := a.StartY - SpawnStampRadius; y <= a.StartY+SpawnStampRadius; y++ {
		for x := a.StartX - SpawnStampRadius; x <= a.StartX+SpawnStampRadius; x++ {
			if !g.InBounds(y, x) || g.At(y, x) == grid.Water || g.At(y, x) == grid.Mountain {
				continue
			}
			g.Set(y, x, int32(a.ID))
			c.Set(y, x, a.Color)
		}
	}
	UpdateCenterOfMass(a, g, 1)
}

// UpdateCenterOfMass recomputes the actor's mean (y, x) over g, scaled by
// reductionFactor to undo any stride-N downsampling the caller applied.
func UpdateCenterOfMass(a *Actor, g *grid.Grid, reductionFactor int) {
	var sumY, sumX float64
	n := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(y, x) == int32(a.ID) {
				sumY += float64(y)
				sumX += float64(x)
				n++
			}
		}
	}
	if n == 0 {
		return
	}
	a.CenterOfMassY = sumY / float64(n) * float64(reductionFactor)
	a.CenterOfMassX = sumX / float64(n) * float64(reductionFactor)
}

// SpawnAccessibleCell samples a uniformly random accessible cell from m's
// accessibility mask, for use as an actor's starting position.
func SpawnAccessibleCell(m *worldmap.Map, rng *rand.Rand) (y, x int) {
	var candidates []int
	for i, ok := range m.AccessibilityMask {
		if ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, 0
	}
	i := candidates[rng.Intn(len(candidates))]
	return i / m.Width, i % m.Width
}

// RandomColor generates a random RGBA color with a fixed alpha, matching the
// reference's np.random.randint(0, 256, (1, 4)) with alpha forced to 175.
func RandomColor(rng *rand.Rand) [4]byte {
	return [4]byte{
		byte(rng.Intn(256)),
		byte(rng.Intn(256)),
		byte(rng.Intn(256)),
		175,
	}
}
