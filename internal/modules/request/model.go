// README: Emergency request aggregate, status machine, and resolution policy.
package request

import (
	"time"

	"lifeline/internal/modules/hospital"
	"lifeline/internal/types"
)

type Status string

const (
	StatusNone     Status = "none"
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// AllowedTransitions represents the request state flow as code. Accepted
// and Rejected are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ResolutionPolicy decides what happens when a decision arrives for a
// request that is no longer pending. The legacy system let the last
// decision overwrite a terminal status; strict mode refuses it.
type ResolutionPolicy int

const (
	PolicyStrict ResolutionPolicy = iota
	PolicyOverwrite
)

type EmergencyRequest struct {
	ID            types.ID         `json:"id"`
	PatientType   string           `json:"patient_type"`
	EmergencyType string           `json:"emergency_type"`
	Needs         hospital.NeedSet `json:"needs"`
	HospitalID    types.ID         `json:"hospital_id"`
	HospitalName  string           `json:"hospital_name,omitempty"`
	Status        Status           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Event is an audit record of a status change.
type Event struct {
	ID         int64
	RequestID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	CreatedAt  time.Time
}

// StatusCounts is the dashboard aggregate. The rejected count is
// intentionally absent from the current feature set.
type StatusCounts struct {
	Pending  int
	Accepted int
}
