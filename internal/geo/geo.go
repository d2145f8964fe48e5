package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/trackforge/trackedit/internal/track"
)

// Track geometry is measured on the ground plane: R maps to X and B maps to Y.
// G is height and is ignored.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Extent returns the bounding envelope of the valid root objects. It is empty
// for a track without valid roots.
func Extent(t *track.Track) geom.Envelope {
	var env geom.Envelope
	for _, id := range t.Roots() {
		o := t.Object(id)
		if o == nil || !o.Valid() {
			continue
		}
		env = env.ExpandToIncludeXY(geom.XY{X: float64(o.Position.X), Y: float64(o.Position.Z)})
	}
	return env
}

// ExtentWKT returns Extent as WKT, or an empty string for an empty extent.
func ExtentWKT(t *track.Track) string {
	env := Extent(t)
	if env.IsEmpty() {
		return ""
	}
	return env.AsGeometry().AsText()
}

// RaceLine connects the gates in race order.
func RaceLine(t *track.Track) geom.LineString {
	gates := t.Gates()
	if len(gates) < 2 {
		return geom.LineString{}
	}

	flatCoords := make([]float64, 0, len(gates)*2)
	for _, id := range gates {
		o := t.Object(id)
		flatCoords = append(flatCoords, float64(o.Position.X), float64(o.Position.Z))
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	return geom.NewLineString(seq)
}

// RaceLineLength is the ground distance from the first gate to the last,
// through every gate in order.
func RaceLineLength(t *track.Track) float64 {
	return RaceLine(t).Length()
}

// ParseVector parses a comma separated list of exactly dims numbers, such as
// "10,0,-5".
func ParseVector(s string, dims int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != dims {
		return nil, ErrInvalidCoordinates
	}
	out := make([]float64, dims)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, ErrInvalidCoordinates
		}
		out[i] = v
	}
	return out, nil
}
