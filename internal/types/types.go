// README: Common value types shared across modules.
package types

// ID is an opaque entity identifier.
type ID string

// Point is a WGS84 coordinate in decimal degrees.
// Valid range: Lat in [-90,90], Lng in [-180,180].
type Point struct {
	Lat float64
	Lng float64
}
