// README: Match result for nearest-hospital selection.
package matching

import "lifeline/internal/modules/hospital"

// Match is a capacity-eligible hospital paired with its great-circle
// distance from the dispatch origin. DistanceKm carries full precision;
// rounding happens at the presentation boundary.
type Match struct {
	Hospital   hospital.Hospital
	DistanceKm float64
}
