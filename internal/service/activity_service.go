package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/domain"
	"github.com/dsnsgithub/activity-feed/internal/logger"
	"github.com/dsnsgithub/activity-feed/internal/metrics"
)

const (
	tracerName = "activity-feed/service"

	// DefaultRefreshTimeout bounds one aggregation pass, listing and details included.
	DefaultRefreshTimeout = time.Minute
)

// ActivityService serves the user's activity feed from a time-bounded cache.
type ActivityService struct {
	events     api.EventsClient
	normalizer *Normalizer
	store      EnvelopeStore
	username   string
	ttl        time.Duration
	timeout    time.Duration
	metrics    *metrics.Metrics
	now        func() time.Time
	flight     singleflight.Group
}

// ActivityConfig holds the dependencies of an ActivityService.
type ActivityConfig struct {
	Events     api.EventsClient
	Normalizer *Normalizer
	Store      EnvelopeStore
	Username   string
	TTL        time.Duration
	Metrics    *metrics.Metrics

	// RefreshTimeout defaults to DefaultRefreshTimeout.
	RefreshTimeout time.Duration
}

// NewActivityService creates the aggregator. A nil Store means in-memory.
func NewActivityService(cfg ActivityConfig) *ActivityService {
	if cfg.Store == nil {
		cfg.Store = NewMemoryEnvelopeStore()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DefaultActivityTTL
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = DefaultRefreshTimeout
	}

	return &ActivityService{
		events:     cfg.Events,
		normalizer: cfg.Normalizer,
		store:      cfg.Store,
		username:   cfg.Username,
		ttl:        cfg.TTL,
		timeout:    cfg.RefreshTimeout,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
}

// GetActivity returns the cached entries while they are fresh, otherwise
// recomputes them. Concurrent misses share one recompute, which runs detached
// from any single caller's cancellation; a caller that gives up only stops
// waiting. A failed listing is returned as an error and nothing is cached.
func (s *ActivityService) GetActivity(ctx context.Context) ([]domain.DisplayEntry, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "activity.aggregator",
		Username:  logger.Ptr(s.username),
	})

	if env := s.loadFresh(ctx); env != nil {
		s.metrics.CacheHit("activity")
		return env.Entries, nil
	}
	s.metrics.CacheMiss("activity")

	ch := s.flight.DoChan(s.username, func() (interface{}, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		// another flight may have filled the cache while we waited
		if env := s.loadFresh(passCtx); env != nil {
			return env.Entries, nil
		}
		return s.refresh(passCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.DisplayEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ActivityService) loadFresh(ctx context.Context) *domain.Envelope {
	env, err := s.store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "envelope load failed, treating as miss", "error", err)
		return nil
	}
	if !env.FreshAt(s.now(), s.ttl) {
		return nil
	}
	return env
}

func (s *ActivityService) refresh(ctx context.Context) ([]domain.DisplayEntry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "activity.refresh")
	defer span.End()
	start := time.Now()

	events, err := s.events.ListUserEvents(ctx, s.username, domain.EventsPageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing failed")
		slog.ErrorContext(ctx, "activity listing failed", "error", err)
		return nil, fmt.Errorf("list events for %s: %w", s.username, err)
	}

	entries := s.normalizeAll(ctx, events)

	// details fetched after the deadline are placeholders; serve them once
	// but leave the cache empty so the next request retries
	if err := ctx.Err(); err != nil {
		slog.WarnContext(ctx, "aggregation pass cut short, not caching", "error", err)
		return entries, nil
	}

	env := domain.Envelope{Entries: entries, FetchedAt: s.now()}
	if err := s.store.Save(ctx, env); err != nil {
		slog.WarnContext(ctx, "envelope save failed", "error", err)
	}

	elapsed := time.Since(start)
	s.metrics.ObserveAggregation(elapsed, len(entries))
	span.SetAttributes(
		attribute.Int("activity.raw_events", len(events)),
		attribute.Int("activity.entries", len(entries)),
	)
	slog.InfoContext(ctx, "activity refreshed",
		"raw_events", len(events),
		"entries", len(entries),
		"duration_ms", elapsed.Milliseconds(),
	)

	return entries, nil
}

// normalizeAll runs the normalizer sequentially in upstream order; the
// pull request dedup set depends on newest-first processing.
func (s *ActivityService) normalizeAll(ctx context.Context, events []domain.RawEvent) []domain.DisplayEntry {
	entries := make([]domain.DisplayEntry, 0, len(events))
	seen := make(map[domain.PRDedupKey]struct{})

	for _, ev := range events {
		if domain.IsIgnoredKind(ev.Kind) {
			continue
		}
		if entry, ok := s.normalizer.Normalize(ctx, ev, seen); ok {
			entries = append(entries, entry)
		}
	}

	return entries
}
