// README: Request ledger service implements create/resolve and status queries.
package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lifeline/internal/modules/hospital"
	"lifeline/internal/types"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrInvalidTransition = errors.New("request is no longer pending")
	ErrInvalidInput      = errors.New("invalid request fields")
)

// Storage is the store contract the ledger depends on. *Store satisfies
// it; tests use an in-memory implementation.
type Storage interface {
	Insert(ctx context.Context, r *EmergencyRequest) error
	Get(ctx context.Context, id types.ID) (*EmergencyRequest, error)
	UpdateStatus(ctx context.Context, id types.ID, to Status) (bool, error)
	UpdateStatusFrom(ctx context.Context, id types.ID, from, to Status) (bool, error)
	ListPending(ctx context.Context) ([]EmergencyRequest, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	AppendEvent(ctx context.Context, e *Event) error
}

type Service struct {
	store  Storage
	policy ResolutionPolicy
	log    zerolog.Logger
}

func NewService(store Storage, policy ResolutionPolicy, log zerolog.Logger) *Service {
	return &Service{store: store, policy: policy, log: log}
}

type CreateCommand struct {
	PatientType   string
	EmergencyType string
	Needs         hospital.NeedSet
	HospitalID    types.ID
}

type ResolveCommand struct {
	RequestID types.ID
	Decision  Status
	ActorType string
}

// Create persists a new request in state Pending against the matched
// hospital. The insert is a single statement; a failure leaves nothing
// behind.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.PatientType == "" || cmd.EmergencyType == "" || cmd.HospitalID == "" {
		return "", ErrInvalidInput
	}

	r := &EmergencyRequest{
		ID:            types.ID(uuid.NewString()),
		PatientType:   cmd.PatientType,
		EmergencyType: cmd.EmergencyType,
		Needs:         cmd.Needs.Normalized(),
		HospitalID:    cmd.HospitalID,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  "ambulance",
		CreatedAt:  r.CreatedAt,
	})
	s.log.Info().Str("request_id", string(r.ID)).Str("hospital_id", string(r.HospitalID)).Msg("request created")
	return r.ID, nil
}

// Resolve transitions a request to Accepted or Rejected. Under
// PolicyStrict a request that already left Pending fails with
// ErrInvalidTransition; under PolicyOverwrite the new decision replaces
// the old status, reproducing the legacy behavior.
func (s *Service) Resolve(ctx context.Context, cmd ResolveCommand) error {
	if cmd.Decision != StatusAccepted && cmd.Decision != StatusRejected {
		return ErrInvalidInput
	}

	cur, err := s.store.Get(ctx, cmd.RequestID)
	if err != nil {
		return err
	}

	if s.policy == PolicyStrict {
		if !CanTransition(cur.Status, cmd.Decision) {
			return ErrInvalidTransition
		}
		ok, err := s.store.UpdateStatusFrom(ctx, cmd.RequestID, StatusPending, cmd.Decision)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent decision won the guarded update.
			return ErrInvalidTransition
		}
	} else {
		ok, err := s.store.UpdateStatus(ctx, cmd.RequestID, cmd.Decision)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}

	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  cmd.RequestID,
		FromStatus: cur.Status,
		ToStatus:   cmd.Decision,
		ActorType:  cmd.ActorType,
		CreatedAt:  time.Now().UTC(),
	})
	s.log.Info().Str("request_id", string(cmd.RequestID)).Str("decision", string(cmd.Decision)).Msg("request resolved")
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*EmergencyRequest, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListPending(ctx context.Context) ([]EmergencyRequest, error) {
	return s.store.ListPending(ctx)
}

func (s *Service) CountByStatus(ctx context.Context) (StatusCounts, error) {
	return s.store.CountByStatus(ctx)
}
