package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/domain"
	"github.com/dsnsgithub/activity-feed/internal/metrics"
)

// DetailSource resolves an issue or pull request address to its display details.
type DetailSource interface {
	Fetch(ctx context.Context, apiURL string) domain.DetailRecord
}

// DetailFetcher memoizes resource details for the lifetime of the process.
// Successful lookups are never refreshed; failed lookups are not memoized,
// so a later pass retries them.
type DetailFetcher struct {
	client  api.DetailClient
	metrics *metrics.Metrics

	mu   sync.Mutex
	memo map[string]domain.DetailRecord
}

// NewDetailFetcher creates a fetcher with an empty memo table.
func NewDetailFetcher(client api.DetailClient, m *metrics.Metrics) *DetailFetcher {
	return &DetailFetcher{
		client:  client,
		metrics: m,
		memo:    make(map[string]domain.DetailRecord),
	}
}

// Fetch returns the memoized record for apiURL, fetching it on first use.
// It never fails: an unreachable resource yields domain.UnavailableDetail().
func (f *DetailFetcher) Fetch(ctx context.Context, apiURL string) domain.DetailRecord {
	f.mu.Lock()
	record, ok := f.memo[apiURL]
	f.mu.Unlock()
	if ok {
		f.metrics.CacheHit("detail")
		return record
	}
	f.metrics.CacheMiss("detail")

	detail, err := f.client.GetResource(ctx, apiURL)
	if err != nil {
		slog.WarnContext(ctx, "detail lookup failed",
			"url", apiURL,
			"status", api.StatusCode(err),
			"error", err,
		)
		return domain.UnavailableDetail()
	}

	record = domain.DetailRecord{
		Title:  "Untitled",
		Body:   cleanDescription(detail.Body),
		Merged: detail.Merged,
		URL:    detail.HTMLURL,
	}
	if detail.Title != nil {
		record.Title = *detail.Title
	}

	f.mu.Lock()
	f.memo[apiURL] = record
	f.mu.Unlock()

	return record
}

var markdownStripper = strings.NewReplacer("#", "", "*", "", "`", "", "_", "")

// cleanDescription removes markdown emphasis characters and trims whitespace.
func cleanDescription(text string) string {
	return strings.TrimSpace(markdownStripper.Replace(text))
}
