// Package worldmap builds the procedurally generated terrain a Game is
// played on: elevation, rainfall and temperature rasters, a biome
// classification, and the derived masks the game kernel and movement
// costing read from every tick.
package worldmap

// Map is a Width×Height terrain raster. All per-cell slices are row-major
// (index = y*Width+x), mirroring internal/grid's layout so the two can be
// walked in lockstep.
type Map struct {
	Width, Height int
	Seed          int64

	Elevation   []float64 // meters, may be negative (ocean floor)
	Rainfall    []float64 // normalized 0..1
	Temperature []float64 // degrees Celsius
	Lat         []float64 // degrees, +90 (north) .. -90 (south)
	Lon         []float64 // degrees, -180 .. +180

	Biome []Biome
	Color [][3]byte // per-cell RGB, elevation-shaded

	Traversability []float64 // 0..1, lower is harder to cross
	Livability      []float64 // 0..1, feeds actor max_resources scaling

	WaterMask        []bool // elevation <= 0
	MountainMask     []bool // elevation >= 3000
	AccessibilityMask []bool // 0 < elevation < 2000, reachable by ground movement
}

func newMap(width, height int, seed int64) *Map {
	n := width * height
	return &Map{
		Width: width, Height: height, Seed: seed,
		Elevation:         make([]float64, n),
		Rainfall:          make([]float64, n),
		Temperature:       make([]float64, n),
		Lat:               make([]float64, n),
		Lon:               make([]float64, n),
		Biome:             make([]Biome, n),
		Color:             make([][3]byte, n),
		Traversability:    make([]float64, n),
		Livability:        make([]float64, n),
		WaterMask:         make([]bool, n),
		MountainMask:      make([]bool, n),
		AccessibilityMask: make([]bool, n),
	}
}

func (m *Map) idx(y, x int) int { return y*m.Width + x }

// At returns the cell's elevation, rainfall, temperature, and biome.
func (m *Map) At(y, x int) (elev, rain, temp float64, biome Biome) {
	i := m.idx(y, x)
	return m.Elevation[i], m.Rainfall[i], m.Temperature[i], m.Biome[i]
}

// IsWater reports whether (y, x) is ocean (elevation <= 0).
func (m *Map) IsWater(y, x int) bool { return m.WaterMask[m.idx(y, x)] }

// IsMountain reports whether (y, x) is a mountain cell (elevation >= 3000).
func (m *Map) IsMountain(y, x int) bool { return m.MountainMask[m.idx(y, x)] }

// IsAccessible reports whether (y, x) is reachable ground (0 < elevation < 2000).
func (m *Map) IsAccessible(y, x int) bool { return m.AccessibilityMask[m.idx(y, x)] }

// TraversabilityAt returns the movement-cost scalar at (y, x).
func (m *Map) TraversabilityAt(y, x int) float64 { return m.Traversability[m.idx(y, x)] }

// LivabilityAt returns the resource-carrying-capacity scalar at (y, x).
func (m *Map) LivabilityAt(y, x int) float64 { return m.Livability[m.idx(y, x)] }

// RGBA expands Color's per-cell RGB triples into a row-major RGBA byte
// buffer, fully opaque, for the one-time terrain map message (§6): the
// static base layer a subscriber needs before ownership grid_update frames
// make sense on top of it.
func (m *Map) RGBA() []byte {
	out := make([]byte, len(m.Color)*4)
	for i, rgb := range m.Color {
		out[i*4+0] = rgb[0]
		out[i*4+1] = rgb[1]
		out[i*4+2] = rgb[2]
		out[i*4+3] = 255
	}
	return out
}
