package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key identifies a point for cache lookups. Coordinates are rounded to
// 5 decimal places (~1m) so equal points from different geocodes collide.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.5f,%.5f", roundCoordinate(c.Lat), roundCoordinate(c.Lon))
}

func roundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}
