package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// FileEnvelopeStore persists the envelope as JSON on disk so a restarted
// process can serve the previous list until it goes stale.
type FileEnvelopeStore struct {
	filePath string
	mu       sync.RWMutex
}

func NewFileEnvelopeStore(filePath string) *FileEnvelopeStore {
	return &FileEnvelopeStore{filePath: filePath}
}

// Load returns nil, nil when the file does not exist.
func (s *FileEnvelopeStore) Load(ctx context.Context) (*domain.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read envelope file: %w", err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse envelope file %s: %w", s.filePath, err)
	}
	return &env, nil
}

// Save writes to a temporary file and renames it into place.
func (s *FileEnvelopeStore) Save(ctx context.Context, env domain.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("rename temp file: %w", err)
	}

	slog.DebugContext(ctx, "envelope saved", "path", s.filePath, "entries", len(env.Entries))
	return nil
}
