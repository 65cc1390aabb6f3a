package service

import (
	"context"
	"sync"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// EnvelopeStore holds the most recently computed activity list.
// Load returns nil, nil when nothing is stored.
type EnvelopeStore interface {
	Load(ctx context.Context) (*domain.Envelope, error)
	Save(ctx context.Context, env domain.Envelope) error
}

// MemoryEnvelopeStore keeps the envelope in process memory.
type MemoryEnvelopeStore struct {
	mu  sync.RWMutex
	env *domain.Envelope
}

func NewMemoryEnvelopeStore() *MemoryEnvelopeStore {
	return &MemoryEnvelopeStore{}
}

func (s *MemoryEnvelopeStore) Load(ctx context.Context) (*domain.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.env == nil {
		return nil, nil
	}
	env := *s.env
	return &env, nil
}

func (s *MemoryEnvelopeStore) Save(ctx context.Context, env domain.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.env = &env
	return nil
}
