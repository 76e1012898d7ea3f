// README: Hospital store backed by PostgreSQL.
package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const hospitalColumns = `id, name, latitude, longitude,
       available_beds, available_icu, available_oxygen, available_ventilator`

// EligibleByNeeds returns hospitals whose counters satisfy the given needs.
// Beds are always required; the other predicates are appended per flag,
// so capacity is read fresh from the store on every call.
func (s *Store) EligibleByNeeds(ctx context.Context, needs NeedSet) ([]Hospital, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + hospitalColumns + ` FROM hospitals WHERE available_beds > 0`)
	if needs.ICU {
		b.WriteString(` AND available_icu > 0`)
	}
	if needs.Oxygen {
		b.WriteString(` AND available_oxygen > 0`)
	}
	if needs.Ventilator {
		b.WriteString(` AND available_ventilator > 0`)
	}
	b.WriteString(` ORDER BY id`)

	rows, err := s.db.Query(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("query eligible hospitals: %w", err)
	}
	defer rows.Close()
	return scanHospitals(rows)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	row := s.db.QueryRow(ctx, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, string(id))
	h, err := scanHospital(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return h, nil
}

func (s *Store) List(ctx context.Context) ([]Hospital, error) {
	rows, err := s.db.Query(ctx, `SELECT `+hospitalColumns+` FROM hospitals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	defer rows.Close()
	return scanHospitals(rows)
}

// UpdateCapacity overwrites a hospital's resource counters. Returns
// ErrNotFound when the hospital does not exist.
func (s *Store) UpdateCapacity(ctx context.Context, id types.ID, c Capacity) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE hospitals
		SET available_beds = $1,
		    available_icu = $2,
		    available_oxygen = $3,
		    available_ventilator = $4
		WHERE id = $5`,
		c.Beds, c.ICU, c.Oxygen, c.Ventilator, string(id),
	)
	if err != nil {
		return fmt.Errorf("update capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHospitals(rows pgx.Rows) ([]Hospital, error) {
	var out []Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.Name, &h.Position.Lat, &h.Position.Lng,
		&h.AvailableBeds, &h.AvailableICU, &h.AvailableOxygen, &h.AvailableVentilator,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
