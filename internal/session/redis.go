package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions as JSON values with a TTL, so abandoned
// conversations age out without an explicit delete path.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on the given client. A non-positive ttl
// keeps sessions forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(identity string) string {
	return fmt.Sprintf("session:%s", identity)
}

// Get loads and decodes the identity's session, returning (nil, nil) when
// the key does not exist.
func (r *RedisStore) Get(ctx context.Context, identity string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(identity)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &s, nil
}

// Put encodes and stores the session, refreshing the TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.Identity), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

// Delete removes the identity's session.
func (r *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := r.client.Del(ctx, sessionKey(identity)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
