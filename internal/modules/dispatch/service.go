// README: Dispatch service orchestrates matching and the request ledger.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"lifeline/internal/config"
	"lifeline/internal/geo"
	"lifeline/internal/metrics"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/matching"
	"lifeline/internal/modules/request"
	"lifeline/internal/types"
)

// Matcher finds the nearest capacity-eligible hospital.
type Matcher interface {
	FindNearest(ctx context.Context, origin types.Point, needs hospital.NeedSet) (matching.Match, error)
}

// Ledger is the request lifecycle contract.
type Ledger interface {
	Create(ctx context.Context, cmd request.CreateCommand) (types.ID, error)
	Resolve(ctx context.Context, cmd request.ResolveCommand) error
	Get(ctx context.Context, id types.ID) (*request.EmergencyRequest, error)
	ListPending(ctx context.Context) ([]request.EmergencyRequest, error)
	CountByStatus(ctx context.Context) (request.StatusCounts, error)
}

// HospitalLister supplies the roster for statistics.
type HospitalLister interface {
	List(ctx context.Context) ([]hospital.Hospital, error)
}

// Sink records dispatch outcomes. *metrics.PromSink satisfies it.
type Sink interface {
	RecordDispatch(outcome string)
	RecordMatchDistance(km float64)
	RecordResolution(decision string)
}

// NopSink discards all observations.
type NopSink struct{}

func (NopSink) RecordDispatch(string)       {}
func (NopSink) RecordMatchDistance(float64) {}
func (NopSink) RecordResolution(string)     {}

type Service struct {
	matcher   Matcher
	ledger    Ledger
	hospitals HospitalLister
	sink      Sink
	cfg       config.DispatchConfig
	log       zerolog.Logger
}

func NewService(matcher Matcher, ledger Ledger, hospitals HospitalLister, sink Sink, cfg config.DispatchConfig, log zerolog.Logger) *Service {
	if sink == nil {
		sink = NopSink{}
	}
	return &Service{matcher: matcher, ledger: ledger, hospitals: hospitals, sink: sink, cfg: cfg, log: log}
}

type Command struct {
	// Origin is the ambulance position; nil falls back to the configured default.
	Origin        *types.Point
	PatientType   string
	EmergencyType string
	Needs         hospital.NeedSet
}

type Result struct {
	Hospital   hospital.Hospital
	DistanceKm float64 // rounded to 2 decimals for presentation
	RequestID  types.ID
}

type Stats struct {
	TotalHospitals int
	PendingCount   int
	AcceptedCount  int
}

// Dispatch matches the nearest eligible hospital and records a pending
// request against it. Match and create are two separate store operations,
// not one transaction: if the create fails the caller retries the whole
// dispatch, and the retry may match a different hospital.
func (s *Service) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	origin := types.Point{Lat: s.cfg.DefaultLat, Lng: s.cfg.DefaultLng}
	if cmd.Origin != nil {
		origin = *cmd.Origin
	}

	m, err := s.matcher.FindNearest(ctx, origin, cmd.Needs)
	if err != nil {
		if errors.Is(err, matching.ErrNoEligibleHospital) {
			s.sink.RecordDispatch(metrics.OutcomeNoHospital)
			return Result{}, err
		}
		s.sink.RecordDispatch(metrics.OutcomeError)
		return Result{}, err
	}

	id, err := s.ledger.Create(ctx, request.CreateCommand{
		PatientType:   cmd.PatientType,
		EmergencyType: cmd.EmergencyType,
		Needs:         cmd.Needs,
		HospitalID:    m.Hospital.ID,
	})
	if err != nil {
		s.sink.RecordDispatch(metrics.OutcomeError)
		return Result{}, err
	}

	s.sink.RecordDispatch(metrics.OutcomeMatched)
	s.sink.RecordMatchDistance(m.DistanceKm)
	s.log.Info().
		Str("request_id", string(id)).
		Str("hospital_id", string(m.Hospital.ID)).
		Float64("distance_km", m.DistanceKm).
		Msg("dispatched")

	return Result{
		Hospital:   m.Hospital,
		DistanceKm: geo.RoundKm(m.DistanceKm),
		RequestID:  id,
	}, nil
}

func (s *Service) Resolve(ctx context.Context, requestID types.ID, decision request.Status, actor string) error {
	err := s.ledger.Resolve(ctx, request.ResolveCommand{
		RequestID: requestID,
		Decision:  decision,
		ActorType: actor,
	})
	if err == nil {
		s.sink.RecordResolution(string(decision))
	}
	return err
}

func (s *Service) Status(ctx context.Context, requestID types.ID) (*request.EmergencyRequest, error) {
	return s.ledger.Get(ctx, requestID)
}

func (s *Service) ListPending(ctx context.Context) ([]request.EmergencyRequest, error) {
	return s.ledger.ListPending(ctx)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	counts, err := s.ledger.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalHospitals: len(hospitals),
		PendingCount:   counts.Pending,
		AcceptedCount:  counts.Accepted,
	}, nil
}
