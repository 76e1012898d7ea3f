// README: Matching service selects the nearest capacity-eligible hospital.
package matching

import (
	"context"
	"errors"

	"lifeline/internal/geo"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/types"
)

// ErrNoEligibleHospital means no hospital currently satisfies the needs.
// This is a normal business outcome, distinct from a lookup failure.
var ErrNoEligibleHospital = errors.New("no hospital with required facilities")

// HospitalSource yields the capacity-eligible candidate set. The snapshot
// is point-in-time: capacity is not reserved by matching, so two
// concurrent dispatches may both select the last free unit. That race is
// inherited behavior; a find-and-reserve store primitive would close it.
type HospitalSource interface {
	EligibleByNeeds(ctx context.Context, needs hospital.NeedSet) ([]hospital.Hospital, error)
}

type Service struct {
	hospitals HospitalSource
}

func NewService(hospitals HospitalSource) *Service {
	return &Service{hospitals: hospitals}
}

// FindNearest returns the closest hospital able to satisfy the needs.
// Equal distances are broken by ascending hospital id so repeated runs
// over the same snapshot pick the same hospital. Read-only and safe for
// concurrent use.
func (s *Service) FindNearest(ctx context.Context, origin types.Point, needs hospital.NeedSet) (Match, error) {
	candidates, err := s.hospitals.EligibleByNeeds(ctx, needs)
	if err != nil {
		return Match{}, err
	}
	if len(candidates) == 0 {
		return Match{}, ErrNoEligibleHospital
	}

	best := Match{Hospital: candidates[0], DistanceKm: geo.DistanceKm(origin, candidates[0].Position)}
	for _, h := range candidates[1:] {
		d := geo.DistanceKm(origin, h.Position)
		if d < best.DistanceKm || (d == best.DistanceKm && h.ID < best.Hospital.ID) {
			best = Match{Hospital: h, DistanceKm: d}
		}
	}
	return best, nil
}
