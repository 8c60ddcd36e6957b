// README: Handoff boundary service; accepts or rejects finalized field sets.
package handoff

import (
	"context"
	"errors"
	"log"
)

var (
	// ErrRejected is the structured rejection: the session stays pending and
	// the turn is retryable.
	ErrRejected = errors.New("handoff rejected by downstream")
)

type Service struct {
	store *Store
}

// NewService builds the boundary. store may be nil (demo mode); submissions
// are then accepted and logged only.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Submit forwards a finalized payload downstream. An incomplete payload is a
// structured rejection, not a crash; a storage failure is likewise surfaced
// as retryable so the caller's state is never marked handed off prematurely.
func (s *Service) Submit(ctx context.Context, p Payload) error {
	if !p.complete() {
		return ErrRejected
	}
	if s.store == nil {
		log.Printf("handoff: accepted session %s (no store configured)", p.SessionID)
		return nil
	}
	if err := s.store.Record(ctx, p); err != nil {
		log.Printf("handoff: downstream store failed for session %s: %v", p.SessionID, err)
		return ErrRejected
	}
	return nil
}
