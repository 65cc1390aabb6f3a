package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dsnsgithub/activity-feed/internal/domain"
	"github.com/dsnsgithub/activity-feed/internal/logger"
)

// ActivityProvider is the part of ActivityService the warmer drives.
type ActivityProvider interface {
	GetActivity(ctx context.Context) ([]domain.DisplayEntry, error)
}

// CacheWarmer periodically asks the aggregator for the feed so that
// visitors usually find a fresh envelope.
type CacheWarmer struct {
	activity        ActivityProvider
	refreshInterval time.Duration
	initialDelay    time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

// NewCacheWarmer creates a warmer; call Start to begin.
func NewCacheWarmer(activity ActivityProvider, refreshInterval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		activity:        activity,
		refreshInterval: refreshInterval,
		initialDelay:    2 * time.Second,
		stopChan:        make(chan struct{}),
	}
}

// Start launches the refresh loop and returns immediately.
func (w *CacheWarmer) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	slog.Info("cache warmer starting", "interval", w.refreshInterval)

	w.wg.Add(1)
	go w.refreshLoop()
}

// Stop stops the loop and waits for it to exit. Safe to call more than once.
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	slog.Info("cache warmer stopped")
}

func (w *CacheWarmer) refreshLoop() {
	defer w.wg.Done()

	// let the server finish starting
	select {
	case <-time.After(w.initialDelay):
	case <-w.stopChan:
		return
	}
	w.warm()

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm()
		case <-w.stopChan:
			return
		}
	}
}

func (w *CacheWarmer) warm() {
	ctx := logger.WithLogFields(context.Background(), logger.LogFields{Component: "activity.warmer"})
	ctx, cancel := context.WithTimeout(ctx, w.refreshInterval)
	defer cancel()

	entries, err := w.activity.GetActivity(ctx)
	if err != nil {
		slog.WarnContext(ctx, "cache warm failed", "error", err)
		return
	}
	slog.DebugContext(ctx, "cache warmed", "entries", len(entries))
}
