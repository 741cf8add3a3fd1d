// Package wire encodes Game state into the JSON text frames broadcast to
// subscribers: map, grid_update, square_info, and boat messages, matching the
// reference project's pydantic message models byte-for-byte in shape.
package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/brindlefield/territorial/internal/actor"
	"github.com/brindlefield/territorial/internal/boat"
	"github.com/brindlefield/territorial/internal/grid"
)

// EncodeGrid compresses a row-major RGBA byte slice with zlib and hex-encodes
// the result, the wire format every grid-carrying message uses (§6).
func EncodeGrid(rgba []byte) (string, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(rgba); err != nil {
		w.Close()
		return "", fmt.Errorf("wire: compress grid: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("wire: close zlib writer: %w", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// DecodeGrid reverses EncodeGrid, returning the original row-major RGBA
// bytes. Used by tests and by any subscriber implementation that needs to
// verify what it received.
func DecodeGrid(encoded string) ([]byte, error) {
	compressed, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("wire: decode hex: %w", err)
	}
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("wire: open zlib reader: %w", err)
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("wire: decompress grid: %w", err)
	}
	return out.Bytes(), nil
}

// MapMessage is sent once per subscriber at connect, carrying the static
// base terrain color grid.
type MapMessage struct {
	Type string `json:"type"`
	Grid string `json:"grid"`
}

// NewMapMessage builds a map message from a terrain color raster.
func NewMapMessage(colorGrid []byte) (MapMessage, error) {
	encoded, err := EncodeGrid(colorGrid)
	if err != nil {
		return MapMessage{}, err
	}
	return MapMessage{Type: "map", Grid: encoded}, nil
}

// GridUpdateMessage carries the live per-cell ownership color grid, sent on
// the grid_update interval.
type GridUpdateMessage struct {
	Type string `json:"type"`
	Grid string `json:"grid"`
}

// NewGridUpdateMessage builds a grid_update message from a ColorGrid.
func NewGridUpdateMessage(c *grid.ColorGrid) (GridUpdateMessage, error) {
	encoded, err := EncodeGrid(c.Bytes())
	if err != nil {
		return GridUpdateMessage{}, err
	}
	return GridUpdateMessage{Type: "grid_update", Grid: encoded}, nil
}

// SquareInfo is one actor's publicly broadcast summary.
type SquareInfo struct {
	ID                int32      `json:"id"`
	Name              string     `json:"name"`
	Resources         int        `json:"resources"`
	CenterOfMass      [2]float64 `json:"center_of_mass"`
	Area              int        `json:"area"`
	MaxResources      int        `json:"max_resources"`
	AverageLandValue  float64    `json:"average_land_value"`
	InterestRate      float64    `json:"interest_rate"`
}

// SquareInfoFromActor projects an actor.Actor into its wire representation.
func SquareInfoFromActor(a *actor.Actor) SquareInfo {
	return SquareInfo{
		ID:               int32(a.ID),
		Name:             a.Name,
		Resources:        a.Resources,
		CenterOfMass:     [2]float64{a.CenterOfMassY, a.CenterOfMassX},
		Area:             a.Area,
		MaxResources:     a.MaxResources(),
		AverageLandValue: a.AverageLandValue,
		InterestRate:     a.InterestRate(),
	}
}

// SquareInfoMessage is sent on the square_info interval.
type SquareInfoMessage struct {
	Type       string       `json:"type"`
	SquareInfo []SquareInfo `json:"square_info"`
}

// NewSquareInfoMessage builds a square_info message from the live actor list.
func NewSquareInfoMessage(actors []*actor.Actor) SquareInfoMessage {
	infos := make([]SquareInfo, len(actors))
	for i, a := range actors {
		infos[i] = SquareInfoFromActor(a)
	}
	return SquareInfoMessage{Type: "square_info", SquareInfo: infos}
}

// BoatInfo is one in-flight boat's publicly broadcast state.
type BoatInfo struct {
	Source     int32      `json:"source"`
	Investment int        `json:"investment"`
	Pos        [2]float64 `json:"pos"`
	Speed      [2]float64 `json:"speed"`
	Color      [4]byte    `json:"color"`
}

// BoatInfoFromBoat projects a boat.Boat into its wire representation.
func BoatInfoFromBoat(b *boat.Boat) BoatInfo {
	return BoatInfo{
		Source:     b.Source,
		Investment: b.Investment,
		Pos:        [2]float64{b.PosY, b.PosX},
		Speed:      [2]float64{b.SpeedY, b.SpeedX},
		Color:      b.Color,
	}
}

// BoatMessage is sent on the boats interval.
type BoatMessage struct {
	Type  string     `json:"type"`
	Boats []BoatInfo `json:"boats"`
}

// NewBoatMessage builds a boat message from the live boat list.
func NewBoatMessage(boats []*boat.Boat) BoatMessage {
	infos := make([]BoatInfo, len(boats))
	for i, b := range boats {
		infos[i] = BoatInfoFromBoat(b)
	}
	return BoatMessage{Type: "boat", Boats: infos}
}

// Marshal is a thin wrapper over json.Marshal, kept here so callers never
// need to import encoding/json just to serialize a wire message.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
