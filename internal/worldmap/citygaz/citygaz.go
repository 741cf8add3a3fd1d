// Package citygaz resolves (lat, lon) coordinates to the nearest named city,
// grounded on the reference project's world_cities.csv + cKDTree lookup
// (models.py Square.find_closest_city).
package citygaz

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

//go:embed cities.csv
var embeddedCSV []byte

// minPopulation is spec.md's "nearest populated city" threshold for
// Actor.name resolution: a city at or below this population is not a
// candidate, regardless of what an embedded or operator-supplied CSV lists.
const minPopulation = 100000

// City is a single gazetteer entry.
type City struct {
	Name       string
	Lat, Lon   float64
	Population int64
}

// Gazetteer answers nearest-city queries over a fixed set of cities.
type Gazetteer struct {
	cities []City
}

// Load builds a Gazetteer from the embedded city list. If overridePath is
// non-empty, it is parsed instead (same city,lat,lng,population columns),
// letting a deployment supply a denser or more current dataset.
func Load(overridePath string) (*Gazetteer, error) {
	data := embeddedCSV
	if overridePath != "" {
		b, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("citygaz: reading override %s: %w", overridePath, err)
		}
		data = b
	}
	cities, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("citygaz: parsing city table: %w", err)
	}
	return &Gazetteer{cities: cities}, nil
}

func parseCSV(data []byte) ([]City, error) {
	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("empty city table")
	}
	cities := make([]City, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		lat, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lat %q: %w", row[1], err)
		}
		lon, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lng %q: %w", row[2], err)
		}
		pop, _ := strconv.ParseInt(row[3], 10, 64)
		if pop <= minPopulation {
			continue
		}
		cities = append(cities, City{Name: row[0], Lat: lat, Lon: lon, Population: pop})
	}
	return cities, nil
}

// Nearest returns the city whose coordinates are closest to (lat, lon) by
// great-circle distance. A linear scan is sufficient here: the gazetteer is
// a few hundred rows at most (cities above the population floor), not the
// kind of dataset that earns a spatial index.
func (g *Gazetteer) Nearest(lat, lon float64) (City, bool) {
	if len(g.cities) == 0 {
		return City{}, false
	}
	best := g.cities[0]
	bestDist := haversine(lat, lon, best.Lat, best.Lon)
	for _, c := range g.cities[1:] {
		d := haversine(lat, lon, c.Lat, c.Lon)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, true
}

const earthRadiusKm = 6371.0

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
