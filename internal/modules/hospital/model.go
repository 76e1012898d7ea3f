// README: Hospital aggregate and resource-need definitions.
package hospital

import (
	"errors"

	"lifeline/internal/types"
)

var ErrNotFound = errors.New("hospital not found")

// NeedSet is the set of resources a patient requires. A bed is mandatory
// for every request; the Bed flag exists only to mirror the wire payload.
type NeedSet struct {
	Bed        bool `json:"bed"`
	ICU        bool `json:"icu"`
	Oxygen     bool `json:"oxygen"`
	Ventilator bool `json:"ventilator"`
}

// Normalized returns the NeedSet with the mandatory bed flag forced on.
func (n NeedSet) Normalized() NeedSet {
	n.Bed = true
	return n
}

type Hospital struct {
	ID                  types.ID    `json:"id"`
	Name                string      `json:"name"`
	Position            types.Point `json:"position"`
	AvailableBeds       int         `json:"available_beds"`
	AvailableICU        int         `json:"available_icu"`
	AvailableOxygen     int         `json:"available_oxygen"`
	AvailableVentilator int         `json:"available_ventilator"`
}

// Satisfies reports whether the hospital's current counters cover every
// required resource. Beds are always required.
func (h Hospital) Satisfies(n NeedSet) bool {
	if h.AvailableBeds <= 0 {
		return false
	}
	if n.ICU && h.AvailableICU <= 0 {
		return false
	}
	if n.Oxygen && h.AvailableOxygen <= 0 {
		return false
	}
	if n.Ventilator && h.AvailableVentilator <= 0 {
		return false
	}
	return true
}

// Capacity is the set of updatable resource counters.
type Capacity struct {
	Beds       int `json:"available_beds"`
	ICU        int `json:"available_icu"`
	Oxygen     int `json:"available_oxygen"`
	Ventilator int `json:"available_ventilator"`
}

func (c Capacity) Valid() bool {
	return c.Beds >= 0 && c.ICU >= 0 && c.Oxygen >= 0 && c.Ventilator >= 0
}
