// Package grid provides the shared pixel-occupancy grid: signed actor-id
// labels, an RGBA mirror for rendering, and the small convolution helpers the
// frontier and neighbor-discovery algorithms are built on.
package grid

// Label values for unowned/impassable cells. Positive labels are actor ids.
const (
	Unowned  int32 = 0
	Water    int32 = -1
	Mountain int32 = -2
)

// Grid is a row-major H×W array of signed actor-id labels.
type Grid struct {
	Width, Height int
	cells         []int32
}

// New allocates a Width×Height grid with every cell set to Unowned.
func New(width, height int) *Grid {
	return &Grid{Width: width, Height: height, cells: make([]int32, width*height)}
}

func (g *Grid) idx(y, x int) int { return y*g.Width + x }

// InBounds reports whether (y, x) is a valid cell coordinate.
func (g *Grid) InBounds(y, x int) bool {
	return y >= 0 && y < g.Height && x >= 0 && x < g.Width
}

// At returns the label at (y, x). Callers must check InBounds first.
func (g *Grid) At(y, x int) int32 {
	return g.cells[g.idx(y, x)]
}

// Set assigns the label at (y, x).
func (g *Grid) Set(y, x int, label int32) {
	g.cells[g.idx(y, x)] = label
}

// Linear returns the linearized index y*Width+x, used by movement's bitmap
// frontier representation.
func (g *Grid) Linear(y, x int) uint32 {
	return uint32(g.idx(y, x))
}

// FromLinear recovers (y, x) from a linearized index produced by Linear.
func (g *Grid) FromLinear(i uint32) (y, x int) {
	return int(i) / g.Width, int(i) % g.Width
}

// Count returns the number of cells currently labeled id.
func (g *Grid) Count(id int32) int {
	n := 0
	for _, c := range g.cells {
		if c == id {
			n++
		}
	}
	return n
}

// Histogram returns a label→count map over the whole grid, used by
// area accounting (update_square_areas).
func (g *Grid) Histogram() map[int32]int {
	counts := make(map[int32]int)
	for _, c := range g.cells {
		counts[c]++
	}
	return counts
}

// ReplaceAll relabels every cell matching from to to, used when an actor is
// eliminated and its territory reverts to unowned.
func (g *Grid) ReplaceAll(from, to int32) {
	for i, c := range g.cells {
		if c == from {
			g.cells[i] = to
		}
	}
}

// ColorGrid mirrors Grid with an RGBA byte quadruple per cell for rendering.
type ColorGrid struct {
	Width, Height int
	pixels        []byte // row-major RGBA
}

// NewColorGrid allocates a Width×Height RGBA grid, all-zero (transparent black).
func NewColorGrid(width, height int) *ColorGrid {
	return &ColorGrid{Width: width, Height: height, pixels: make([]byte, width*height*4)}
}

func (c *ColorGrid) off(y, x int) int { return (y*c.Width + x) * 4 }

// Set assigns the RGBA color at (y, x).
func (c *ColorGrid) Set(y, x int, rgba [4]byte) {
	o := c.off(y, x)
	copy(c.pixels[o:o+4], rgba[:])
}

// At returns the RGBA color at (y, x).
func (c *ColorGrid) At(y, x int) [4]byte {
	o := c.off(y, x)
	return [4]byte{c.pixels[o], c.pixels[o+1], c.pixels[o+2], c.pixels[o+3]}
}

// Bytes returns the raw row-major RGBA byte slice, ready for wire encoding.
// The returned slice aliases internal storage and must not be mutated.
func (c *ColorGrid) Bytes() []byte {
	return c.pixels
}

// fourNeighborOffsets are the nonzero taps of the convolution kernel used by
// frontier and coastline discovery: [[0,1,0],[1,0,1],[0,1,0]].
var fourNeighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// AdjacentToMask returns, in row-major order, every cell where test(label) is
// true that is 4-adjacent to at least one cell where own(label) is true. This
// is the Go equivalent of convolving an `own` boolean mask with the 4-neighbor
// kernel and thresholding the result against `test`.
func (g *Grid) AdjacentToMask(own, test func(int32) bool) []Coord {
	var result []Coord
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !test(g.At(y, x)) {
				continue
			}
			for _, off := range fourNeighborOffsets {
				ny, nx := y+off[0], x+off[1]
				if g.InBounds(ny, nx) && own(g.At(ny, nx)) {
					result = append(result, Coord{Y: y, X: x})
					break
				}
			}
		}
	}
	return result
}

// Coord is a (row, column) pixel coordinate.
type Coord struct {
	Y, X int
}

// LabelPair is an unordered pair of grid labels observed as 4-adjacent.
type LabelPair struct {
	A, B int32
}

// Sorted returns the pair with the smaller label first, so that (a,b) and
// (b,a) compare equal.
func (p LabelPair) Sorted() LabelPair {
	if p.A > p.B {
		return LabelPair{A: p.B, B: p.A}
	}
	return p
}

// ShiftPairs convolves the grid with a single unit-shift kernel (dy, dx) and
// returns every (cell, shifted-cell) label pair where the shifted cell is
// in-bounds. This is the Go equivalent of convolving with the "up" kernel
// [[0,1,0],[0,0,0],[0,0,0]] or the "right" kernel [[0,0,0],[0,0,1],[0,0,0]]
// used by update_neighbors, before filtering and deduplication.
func (g *Grid) ShiftPairs(dy, dx int) []LabelPair {
	pairs := make([]LabelPair, 0, len(g.cells))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			ny, nx := y+dy, x+dx
			if !g.InBounds(ny, nx) {
				continue
			}
			pairs = append(pairs, LabelPair{A: g.At(y, x), B: g.At(ny, nx)})
		}
	}
	return pairs
}

// Downsample returns a new ceil(Width/stride) × ceil(Height/stride) grid taking every
// stride-th row and column, matching the reference's `grid[::stride, ::stride]`
// numpy slicing used by update_centers_of_mass and update_neighbors.
func (g *Grid) Downsample(stride int) *Grid {
	dw := (g.Width + stride - 1) / stride
	dh := (g.Height + stride - 1) / stride
	out := New(dw, dh)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			out.Set(y, x, g.At(y*stride, x*stride))
		}
	}
	return out
}
