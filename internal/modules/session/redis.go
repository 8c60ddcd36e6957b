// README: Session store backed by Redis (state checkpoint + per-session lock).
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tripcover/internal/modules/dialogue"
)

const (
	stateKeyPrefix = "session:%s"
	lockKeyPrefix  = "session:%s:lock"

	// Abandoned sessions age out of the hot store; completed ones are
	// archived to Postgres before that.
	stateTTL = 30 * 24 * time.Hour

	lockTTL       = 15 * time.Second
	lockRetryWait = 50 * time.Millisecond
)

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redis *redis.Client) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*dialogue.ConversationState, error) {
	raw, err := s.redis.Get(ctx, stateKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, dialogue.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var st dialogue.ConversationState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("corrupt session state for %s: %w", sessionID, err)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, st *dialogue.ConversationState) error {
	st.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, stateKey(st.SessionID), raw, stateTTL).Err()
}

// Lock serializes turns for one session across processes. It spins on SETNX
// until acquired or the caller's context expires; the TTL bounds the damage
// of a crashed holder.
func (s *RedisStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := fmt.Sprintf(lockKeyPrefix, sessionID)
	token := uuid.NewString()
	for {
		ok, err := s.redis.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Release only our own lock; a TTL takeover must not be broken.
				val, err := s.redis.Get(context.Background(), key).Result()
				if err == nil && val == token {
					_ = s.redis.Del(context.Background(), key).Err()
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
}

func stateKey(sessionID string) string {
	return fmt.Sprintf(stateKeyPrefix, sessionID)
}
