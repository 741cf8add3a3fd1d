package grid

import "testing"

func TestSetAt(t *testing.T) {
	g := New(4, 4)
	g.Set(1, 2, 7)
	if got := g.At(1, 2); got != 7 {
		t.Fatalf("At(1,2) = %d, want 7", got)
	}
	if got := g.At(0, 0); got != Unowned {
		t.Fatalf("At(0,0) = %d, want Unowned", got)
	}
}

func TestHistogramAndCount(t *testing.T) {
	g := New(2, 2)
	g.Set(0, 0, 1)
	g.Set(0, 1, 1)
	g.Set(1, 0, 2)

	hist := g.Histogram()
	if hist[1] != 2 || hist[2] != 1 || hist[Unowned] != 1 {
		t.Fatalf("unexpected histogram: %v", hist)
	}
	if g.Count(1) != 2 {
		t.Fatalf("Count(1) = %d, want 2", g.Count(1))
	}
}

func TestReplaceAll(t *testing.T) {
	g := New(2, 2)
	g.Set(0, 0, 5)
	g.Set(1, 1, 5)
	g.ReplaceAll(5, Unowned)
	if g.Count(5) != 0 || g.Count(Unowned) != 4 {
		t.Fatalf("ReplaceAll did not clear label 5")
	}
}

// S6 from spec.md §8: neighbor discovery on [[1,1,2,2],[1,1,2,2]] returns {1,2} only.
func TestShiftPairsScenarioS6(t *testing.T) {
	g := New(4, 2)
	rows := [][]int32{{1, 1, 2, 2}, {1, 1, 2, 2}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			g.Set(y, x, rows[y][x])
		}
	}

	seen := map[LabelPair]bool{}
	for _, p := range g.ShiftPairs(0, 1) {
		if p.A != p.B {
			seen[p.Sorted()] = true
		}
	}
	for _, p := range g.ShiftPairs(1, 0) {
		if p.A != p.B {
			seen[p.Sorted()] = true
		}
	}

	if len(seen) != 1 {
		t.Fatalf("expected exactly one distinct pair, got %v", seen)
	}
	if !seen[LabelPair{A: 1, B: 2}] {
		t.Fatalf("expected pair {1,2}, got %v", seen)
	}
}

func TestAdjacentToMask(t *testing.T) {
	g := New(3, 3)
	g.Set(1, 1, 1)
	g.Set(1, 2, -1)
	g.Set(0, 0, -1) // not adjacent to the owner cell

	coords := g.AdjacentToMask(
		func(l int32) bool { return l == 1 },
		func(l int32) bool { return l == Water },
	)
	if len(coords) != 1 || coords[0] != (Coord{Y: 1, X: 2}) {
		t.Fatalf("AdjacentToMask = %v, want [{1 2}]", coords)
	}
}

func TestDownsampleStride(t *testing.T) {
	g := New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Set(y, x, int32(y*4+x))
		}
	}
	d := g.Downsample(2)
	if d.Width != 2 || d.Height != 2 {
		t.Fatalf("downsampled dims = %dx%d, want 2x2", d.Width, d.Height)
	}
	if d.At(0, 0) != 0 || d.At(1, 1) != 10 {
		t.Fatalf("downsampled values wrong: %d %d", d.At(0, 0), d.At(1, 1))
	}
}

func TestLinearRoundTrip(t *testing.T) {
	g := New(5, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			gotY, gotX := g.FromLinear(g.Linear(y, x))
			if gotY != y || gotX != x {
				t.Fatalf("Linear round trip failed for (%d,%d): got (%d,%d)", y, x, gotY, gotX)
			}
		}
	}
}
