// README: Request store backed by PostgreSQL.
package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Insert writes the full request row in one statement, so the write is
// atomic from the caller's perspective.
func (s *Store) Insert(ctx context.Context, r *EmergencyRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO emergency_requests (
			id, patient_type, emergency_type,
			need_bed, need_icu, need_oxygen, need_ventilator,
			hospital_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(r.ID),
		r.PatientType,
		r.EmergencyType,
		r.Needs.Bed, r.Needs.ICU, r.Needs.Oxygen, r.Needs.Ventilator,
		string(r.HospitalID),
		string(r.Status),
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

const requestSelect = `
	SELECT er.id, er.patient_type, er.emergency_type,
	       er.need_bed, er.need_icu, er.need_oxygen, er.need_ventilator,
	       er.hospital_id, h.name, er.status, er.created_at
	FROM emergency_requests er
	JOIN hospitals h ON er.hospital_id = h.id`

func (s *Store) Get(ctx context.Context, id types.ID) (*EmergencyRequest, error) {
	row := s.db.QueryRow(ctx, requestSelect+` WHERE er.id = $1`, string(id))
	r, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return r, nil
}

// UpdateStatus unconditionally sets the status. The bool reports whether
// the request exists.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE emergency_requests SET status = $1 WHERE id = $2`,
		string(to), string(id),
	)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatusFrom sets the status only when the current value still
// matches from. A false return with no error means the guard failed
// (missing row or a concurrent transition won).
func (s *Store) UpdateStatusFrom(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE emergency_requests SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), string(id), string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update status from %s: %w", from, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending returns pending requests newest-first; creation-time ties
// break by ascending id for a stable order.
func (s *Store) ListPending(ctx context.Context) ([]EmergencyRequest, error) {
	rows, err := s.db.Query(ctx, requestSelect+`
		WHERE er.status = $1
		ORDER BY er.created_at DESC, er.id ASC`, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []EmergencyRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CountByStatus(ctx context.Context) (StatusCounts, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE status = $2)
		FROM emergency_requests`,
		string(StatusPending), string(StatusAccepted),
	)
	var c StatusCounts
	if err := row.Scan(&c.Pending, &c.Accepted); err != nil {
		return StatusCounts{}, fmt.Errorf("count by status: %w", err)
	}
	return c, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO request_state_events (
			request_id, from_status, to_status, actor_type, created_at
		) VALUES ($1, $2, $3, $4, $5)`,
		string(e.RequestID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		e.CreatedAt,
	)
	return err
}

func scanRequest(row pgx.Row) (*EmergencyRequest, error) {
	var r EmergencyRequest
	err := row.Scan(
		&r.ID, &r.PatientType, &r.EmergencyType,
		&r.Needs.Bed, &r.Needs.ICU, &r.Needs.Oxygen, &r.Needs.Ventilator,
		&r.HospitalID, &r.HospitalName, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
