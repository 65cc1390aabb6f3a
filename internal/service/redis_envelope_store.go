package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// RedisEnvelopeStore shares the envelope between instances through Redis.
// The key expires together with the envelope's freshness window.
type RedisEnvelopeStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisEnvelopeStore stores the envelope under "<prefix>:activity:<username>".
func NewRedisEnvelopeStore(client *redis.Client, prefix, username string, ttl time.Duration) *RedisEnvelopeStore {
	return &RedisEnvelopeStore{
		client: client,
		key:    fmt.Sprintf("%s:activity:%s", prefix, username),
		ttl:    ttl,
	}
}

func (s *RedisEnvelopeStore) Load(ctx context.Context) (*domain.Envelope, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

func (s *RedisEnvelopeStore) Save(ctx context.Context, env domain.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
