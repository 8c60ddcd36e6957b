// README: Handoff store backed by PostgreSQL (quote_requests table).
package handoff

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Record persists an accepted handoff. A replayed submit for the same session
// updates the existing row so downstream retries stay idempotent.
func (s *Store) Record(ctx context.Context, p Payload) error {
	ages := make([]int32, len(p.TravelerAges))
	for i, a := range p.TravelerAges {
		ages[i] = int32(a)
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO quote_requests (
            session_id, user_id, destination,
            departure_date, return_date, traveler_ages,
            adventure_sports, received_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (session_id) DO UPDATE SET
            destination = EXCLUDED.destination,
            departure_date = EXCLUDED.departure_date,
            return_date = EXCLUDED.return_date,
            traveler_ages = EXCLUDED.traveler_ages,
            adventure_sports = EXCLUDED.adventure_sports,
            received_at = EXCLUDED.received_at`,
		p.SessionID,
		p.UserID,
		p.Destination,
		p.DepartureDate,
		p.ReturnDate,
		ages,
		p.AdventureSports,
		time.Now().UTC(),
	)
	return err
}
