// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"lifeline/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees (Haversine). Inputs are not range
// checked; out-of-range degrees produce a well-defined but meaningless
// number, never an error.
func DistanceKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to 2 decimal places for presentation.
// Internal comparisons always use the full-precision value.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
