// README: Hospital service for roster listing and admin capacity updates.
package hospital

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"lifeline/internal/types"
)

// Storage is the store contract the service depends on. *Store satisfies
// it; tests use an in-memory implementation.
type Storage interface {
	EligibleByNeeds(ctx context.Context, needs NeedSet) ([]Hospital, error)
	Get(ctx context.Context, id types.ID) (*Hospital, error)
	List(ctx context.Context) ([]Hospital, error)
	UpdateCapacity(ctx context.Context, id types.ID, c Capacity) error
}

var ErrInvalidCapacity = errors.New("capacity counters must be non-negative")

type Service struct {
	store Storage
	cache *RosterCache
	log   zerolog.Logger
}

// NewService wires the store with an optional roster cache (nil disables caching).
func NewService(store Storage, cache *RosterCache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// List returns all hospitals with current capacity. Reads through the
// roster cache when present; any cache failure degrades to the store.
func (s *Service) List(ctx context.Context) ([]Hospital, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("roster cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	hospitals, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, hospitals); err != nil {
			s.log.Warn().Err(err).Msg("roster cache write failed")
		}
	}
	return hospitals, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	return s.store.Get(ctx, id)
}

// EligibleByNeeds bypasses the cache: matching must see a fresh capacity snapshot.
func (s *Service) EligibleByNeeds(ctx context.Context, needs NeedSet) ([]Hospital, error) {
	return s.store.EligibleByNeeds(ctx, needs.Normalized())
}

// UpdateCapacity replaces a hospital's counters and drops the cached roster.
func (s *Service) UpdateCapacity(ctx context.Context, id types.ID, c Capacity) error {
	if !c.Valid() {
		return ErrInvalidCapacity
	}
	if err := s.store.UpdateCapacity(ctx, id, c); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("roster cache invalidation failed")
		}
	}
	s.log.Info().Str("hospital_id", string(id)).
		Int("beds", c.Beds).Int("icu", c.ICU).
		Int("oxygen", c.Oxygen).Int("ventilator", c.Ventilator).
		Msg("capacity updated")
	return nil
}
