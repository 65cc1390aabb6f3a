package api

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	BaseURL    string
	Token      string
	HTTPClient HTTPClient
	Semaphore  chan struct{} // Limits concurrent requests
	Limiter    *rate.Limiter // Limits request rate; nil means unlimited
}

// NewBaseClient creates a new base client. A ratePerSecond <= 0 disables rate limiting.
func NewBaseClient(cfg ClientConfig, httpClient HTTPClient, ratePerSecond float64, burst int) *BaseClient {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}

	return &BaseClient{
		BaseURL:    cfg.BaseURL,
		Token:      cfg.Token,
		HTTPClient: httpClient,
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
		Limiter:    limiter,
	}
}

// DoRateLimited runs fn once a concurrency slot and a rate token are available.
func (c *BaseClient) DoRateLimited(ctx context.Context, fn func() error) error {
	select {
	case c.Semaphore <- struct{}{}:
		defer func() { <-c.Semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return fn()
}
