package worldmap

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters. Zero value is not usable;
// use DefaultGenConfig as a starting point.
type GenConfig struct {
	Width, Height int
	Seed          int64 // 0 means "pick one", left to the caller

	// SeaLevelFrac is the fraction of raw (0..1) elevation noise mapped to
	// non-positive elevation; raising it grows the ocean.
	SeaLevelFrac float64
	// ElevationScale converts raw elevation noise (after SeaLevelFrac shift)
	// to meters.
	ElevationScale float64
	// TempPerturbation is the +/- degree range the temperature noise layer
	// can add on top of the latitude/elevation formula.
	TempPerturbation float64
}

// DefaultGenConfig mirrors the reference project's predecessor noise-based
// generator (see original_source/services/map.py) scaled to meters.
func DefaultGenConfig(width, height int, seed int64) GenConfig {
	return GenConfig{
		Width: width, Height: height, Seed: seed,
		SeaLevelFrac:     0.40,
		ElevationScale:   9000,
		TempPerturbation: 5,
	}
}

const (
	maxTempFormula = 40.0
	minTempFormula = -15.0
	lapseRate      = 0.006
)

// Generate synthesizes a complete Map: elevation, rainfall, temperature,
// lat/lon, biome classification, color, and the three derived masks.
func Generate(cfg GenConfig) *Map {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	elevation := make([]float64, cfg.Width*cfg.Height)
	rainfall := make([]float64, cfg.Width*cfg.Height)
	lat := make([]float64, cfg.Width*cfg.Height)
	lon := make([]float64, cfg.Width*cfg.Height)

	for y := 0; y < cfg.Height; y++ {
		rowLat := 90 - 180*(float64(y)/float64(cfg.Height))
		for x := 0; x < cfg.Width; x++ {
			i := y*cfg.Width + x
			elevRaw := octaveNoise(elevNoise, float64(x), float64(y), 5, 0.03, 0.5)
			elevation[i] = (elevRaw - cfg.SeaLevelFrac) * cfg.ElevationScale
			rainfall[i] = octaveNoise(rainNoise, float64(x), float64(y), 4, 0.04, 0.5)
			lat[i] = rowLat
			lon[i] = -180 + 360*(float64(x)/float64(cfg.Width))
		}
	}

	return buildMap(cfg, elevation, rainfall, lat, lon)
}

// buildMap derives temperature, biome, color, and the three masks from
// already-resolved elevation/rainfall/lat/lon rasters, shared by both the
// synthetic generator (Generate) and the loaded-raster path
// (GenerateFromRasters): the two differ only in where elevation/rainfall/
// lat/lon come from, never in how a Map is derived from them.
func buildMap(cfg GenConfig, elevation, rainfall, lat, lon []float64) *Map {
	tempNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	m := newMap(cfg.Width, cfg.Height, cfg.Seed)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			i := y*cfg.Width + x

			elev := elevation[i]
			rain := rainfall[i]
			tempNoiseVal := octaveNoise(tempNoise, float64(x), float64(y), 3, 0.05, 0.5)

			temp := maxTempFormula - (maxTempFormula-minTempFormula)*math.Abs(lat[i]/90) - math.Max(0, elev)*lapseRate
			temp += (tempNoiseVal - 0.5) * 2 * cfg.TempPerturbation

			biome := classify(temp, rain, elev)

			m.Elevation[i] = elev
			m.Rainfall[i] = rain
			m.Temperature[i] = temp
			m.Lat[i] = lat[i]
			m.Lon[i] = lon[i]
			m.Biome[i] = biome
			m.Color[i] = colorFor(biome, elev)
			m.Traversability[i] = traversabilityFor(biome)
			m.Livability[i] = livabilityFor(biome)
			m.WaterMask[i] = elev <= 0
			m.MountainMask[i] = elev >= 3000
			m.AccessibilityMask[i] = elev > 0 && elev < 2000
		}
	}

	return m
}

// octaveNoise layers octaves octaves of noise at increasing frequency and
// decreasing amplitude (persistence), normalizing the result back to 0..1.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
