package worldmap

// Biome classifies a cell from its (temperature, rainfall, elevation) triple.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeIce
	BiomeTundra
	BiomeColdDesert
	BiomeTaiga
	BiomeTemperateGrassland
	BiomeTemperateForest
	BiomeTemperateRainforest
	BiomeTropicalSavanna
	BiomeTropicalForest
	BiomeTropicalRainforest
	BiomeHotDesert
	BiomeMountain
)

func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "Ocean"
	case BiomeIce:
		return "Ice"
	case BiomeTundra:
		return "Tundra"
	case BiomeColdDesert:
		return "ColdDesert"
	case BiomeTaiga:
		return "Taiga"
	case BiomeTemperateGrassland:
		return "TemperateGrassland"
	case BiomeTemperateForest:
		return "TemperateForest"
	case BiomeTemperateRainforest:
		return "TemperateRainforest"
	case BiomeTropicalSavanna:
		return "TropicalSavanna"
	case BiomeTropicalForest:
		return "TropicalForest"
	case BiomeTropicalRainforest:
		return "TropicalRainforest"
	case BiomeHotDesert:
		return "HotDesert"
	case BiomeMountain:
		return "Mountain"
	default:
		return "Unknown"
	}
}

// interval is a half-open [Min, Max) range; Max == +Inf sentinel uses a large
// constant since the thresholds here are all finite in practice.
type interval struct {
	Min, Max float64
}

func (iv interval) contains(v float64) bool {
	return v >= iv.Min && v < iv.Max
}

type biomeRule struct {
	biome          Biome
	temp, rain     interval
	elev           interval
	color          [3]byte
	traversability float64
	livability     float64
}

const (
	minTemp = -100.0
	maxTemp = 100.0
	minElev = -100000.0
	maxElev = 100000.0
)

// biomeTable is checked in declared order (§4.1): the first rule whose three
// intervals all contain the cell's (T, rainfall, elev) wins. OCEAN is handled
// separately (elev <= 0) before this table is consulted at all.
var biomeTable = []biomeRule{
	{BiomeIce, interval{minTemp, -10}, interval{0, 1.01}, interval{minElev, 3000}, [3]byte{230, 240, 245}, 0.30, 0.05},
	{BiomeTundra, interval{-10, 2}, interval{0, 0.35}, interval{minElev, 3000}, [3]byte{176, 184, 148}, 0.50, 0.30},
	{BiomeColdDesert, interval{2, 20}, interval{0, 0.2}, interval{minElev, 3000}, [3]byte{180, 170, 140}, 0.40, 0.20},
	{BiomeTaiga, interval{-10, 5}, interval{0.35, 1.01}, interval{minElev, 3000}, [3]byte{60, 92, 70}, 0.60, 0.50},
	{BiomeTemperateGrassland, interval{5, 22}, interval{0.2, 0.45}, interval{minElev, 3000}, [3]byte{160, 185, 90}, 0.90, 1.00},
	{BiomeTemperateForest, interval{5, 25}, interval{0.45, 0.7}, interval{minElev, 3000}, [3]byte{45, 110, 55}, 0.70, 0.90},
	{BiomeTemperateRainforest, interval{5, 25}, interval{0.7, 1.01}, interval{minElev, 3000}, [3]byte{25, 90, 60}, 0.50, 0.85},
	{BiomeTropicalSavanna, interval{22, maxTemp}, interval{0.2, 0.5}, interval{minElev, 3000}, [3]byte{200, 175, 80}, 0.80, 0.70},
	{BiomeTropicalForest, interval{25, maxTemp}, interval{0.5, 0.75}, interval{minElev, 3000}, [3]byte{30, 130, 60}, 0.60, 0.80},
	{BiomeTropicalRainforest, interval{25, maxTemp}, interval{0.75, 1.01}, interval{minElev, 3000}, [3]byte{10, 95, 45}, 0.40, 0.60},
	{BiomeHotDesert, interval{20, maxTemp}, interval{0, 0.2}, interval{minElev, 3000}, [3]byte{225, 195, 120}, 0.50, 0.15},
	{BiomeMountain, interval{minTemp, maxTemp}, interval{0, 1.01}, interval{3000, maxElev}, [3]byte{120, 115, 110}, 0.10, 0.10},
}

var oceanRule = biomeRule{BiomeOcean, interval{minTemp, maxTemp}, interval{0, 1.01}, interval{minElev, maxElev}, [3]byte{20, 60, 120}, 0.0, 0.0}

// classify returns the biome for a (temp °C, rainfall 0..1, elev meters) triple.
func classify(temp, rain, elev float64) Biome {
	if elev <= 0 {
		return BiomeOcean
	}
	for _, rule := range biomeTable {
		if rule.temp.contains(temp) && rule.rain.contains(rain) && rule.elev.contains(elev) {
			return rule.biome
		}
	}
	// Fallback cascade, exactly as specified: mountain, then cold bands, then
	// desert as the catch-all warm/dry case.
	switch {
	case elev >= 3000:
		return BiomeMountain
	case temp < -10:
		return BiomeIce
	case temp < 20:
		return BiomeColdDesert
	default:
		return BiomeHotDesert
	}
}

func ruleFor(b Biome) biomeRule {
	if b == BiomeOcean {
		return oceanRule
	}
	for _, rule := range biomeTable {
		if rule.biome == b {
			return rule
		}
	}
	return oceanRule
}

// traversabilityFor and livabilityFor look up the per-biome scalar fields
// that drive movement cost accounting and max_resources scaling (§4.1, §4.3).
func traversabilityFor(b Biome) float64 { return ruleFor(b).traversability }
func livabilityFor(b Biome) float64     { return ruleFor(b).livability }

// colorFor returns the biome's base RGB, then blends toward white by
// min(1, elev/5000) on elevated land, per §4.1's elevation shading rule.
func colorFor(b Biome, elev float64) [3]byte {
	base := ruleFor(b).color
	if elev <= 0 {
		return base
	}
	factor := elev / 5000
	if factor > 1 {
		factor = 1
	}
	var out [3]byte
	for i := range base {
		out[i] = byte(float64(base[i]) + (255-float64(base[i]))*factor)
	}
	return out
}
