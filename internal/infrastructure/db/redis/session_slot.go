package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thynkpro/portal/internal/core/ports"
)

const keyPrefix = "session:"

// SessionSlot keeps the durable session slot in Redis.
// Key format: session:<slot_key>
type SessionSlot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ ports.DurableSlot = (*SessionSlot)(nil)

// NewSessionSlot wraps client. A zero ttl stores the slot without expiry.
func NewSessionSlot(client *redis.Client, key string, ttl time.Duration) *SessionSlot {
	return &SessionSlot{client: client, key: keyPrefix + key, ttl: ttl}
}

func (s *SessionSlot) Get(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("session slot get: %w", err)
	}
	return data, true, nil
}

func (s *SessionSlot) Set(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session slot set: %w", err)
	}
	return nil
}

func (s *SessionSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session slot clear: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *SessionSlot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
