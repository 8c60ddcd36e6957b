// README: Completed-session archive backed by PostgreSQL.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tripcover/internal/modules/dialogue"
)

// ArchiveStore keeps handed-off sessions durably; sessions are archived, not
// deleted, when the flow terminates.
type ArchiveStore struct {
	db *pgxpool.Pool
}

func NewArchiveStore(db *pgxpool.Pool) *ArchiveStore {
	return &ArchiveStore{db: db}
}

func (s *ArchiveStore) Archive(ctx context.Context, st *dialogue.ConversationState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO archived_sessions (session_id, user_id, state, archived_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (session_id) DO UPDATE SET
            state = EXCLUDED.state,
            archived_at = EXCLUDED.archived_at`,
		st.SessionID,
		st.UserID,
		raw,
		time.Now().UTC(),
	)
	return err
}
