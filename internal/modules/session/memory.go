// README: In-memory session store for tests and the CLI demo.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"tripcover/internal/modules/dialogue"
)

// MemoryStore implements the session contract without durability. It is not
// for production use: conversation state must survive process restarts there.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	locks map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*dialogue.ConversationState, error) {
	s.mu.Lock()
	raw, ok := s.data[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, dialogue.ErrSessionNotFound
	}
	var st dialogue.ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save round-trips through JSON so callers get the same aliasing behavior as
// the Redis store.
func (s *MemoryStore) Save(ctx context.Context, st *dialogue.ConversationState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[st.SessionID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock, nil
}
