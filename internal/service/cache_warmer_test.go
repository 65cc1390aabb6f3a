package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

type countingProvider struct {
	calls atomic.Int32
	err   error
}

func (p *countingProvider) GetActivity(ctx context.Context) ([]domain.DisplayEntry, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return []domain.DisplayEntry{{ID: "1"}}, nil
}

func TestCacheWarmer_WarmsPeriodically(t *testing.T) {
	// Arrange
	provider := &countingProvider{}
	warmer := NewCacheWarmer(provider, 10*time.Millisecond)
	warmer.initialDelay = 0

	// Act
	warmer.Start()
	defer warmer.Stop()

	// Assert
	assert.Eventually(t, func() bool { return provider.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestCacheWarmer_KeepsRunningAfterErrors(t *testing.T) {
	provider := &countingProvider{err: errors.New("upstream unavailable")}
	warmer := NewCacheWarmer(provider, 10*time.Millisecond)
	warmer.initialDelay = 0

	warmer.Start()
	defer warmer.Stop()

	assert.Eventually(t, func() bool { return provider.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestCacheWarmer_StopBeforeInitialDelay(t *testing.T) {
	provider := &countingProvider{}
	warmer := NewCacheWarmer(provider, time.Hour)
	warmer.initialDelay = time.Hour

	warmer.Start()
	warmer.Stop()
	warmer.Stop()

	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestCacheWarmer_StartIsIdempotent(t *testing.T) {
	provider := &countingProvider{}
	warmer := NewCacheWarmer(provider, time.Hour)
	warmer.initialDelay = 0

	warmer.Start()
	warmer.Start()
	assert.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	warmer.Stop()

	assert.Equal(t, int32(1), provider.calls.Load())
}
