// Package geo provides geographic coordinate types and distance calculations.
package geo

import "math"

// Coordinates represents a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// IsValid returns true if the coordinates are finite and within valid ranges.
// Latitude must be between -90 and 90, longitude between -180 and 180.
func (c Coordinates) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IsZero returns true if both coordinates are zero (likely unset).
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// PlanarDistance calculates the Euclidean distance between two points,
// treating raw degree values as Cartesian coordinates. This matches the
// ranking behavior the service has always had and is a known limitation:
// it is NOT a great-circle distance, and the unit is degrees, not km.
// Swapping in a geodesic formula would change both the ranking and the
// magnitude of every nearby-airport result, so callers must not "fix"
// this silently.
func PlanarDistance(from, to Coordinates) float64 {
	return math.Hypot(to.Lat-from.Lat, to.Lon-from.Lon)
}
