package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token slot in Redis, for headless deployments where
// the session core runs server-side on behalf of a device.
//
// The slot key is prefix:slot, e.g. "deemo:authToken". A zero TTL persists
// the token until Clear; a positive TTL lets Redis expire abandoned sessions.
type RedisStore struct {
	rdb    *redis.Client
	key    string
	ttl    time.Duration
	prefix string
}

// NewRedisStore binds the slot to the given client. An empty prefix defaults
// to "deemo" and an empty slot to [DefaultSlot].
func NewRedisStore(rdb *redis.Client, prefix, slot string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "deemo"
	}
	if slot == "" {
		slot = DefaultSlot
	}

	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		key:    prefix + ":" + slot,
		ttl:    ttl,
	}
}

// Save overwrites the slot value and resets its TTL.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load reads the slot value. An absent or expired key is [ErrNoToken].
func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Clear deletes the slot key. Deleting an absent key succeeds.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
