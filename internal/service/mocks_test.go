package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/domain"
)

type MockDetailClient struct {
	mock.Mock
}

func (m *MockDetailClient) GetResource(ctx context.Context, apiURL string) (*api.ResourceDetail, error) {
	args := m.Called(ctx, apiURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ResourceDetail), args.Error(1)
}

type MockRepositoryClient struct {
	mock.Mock
}

func (m *MockRepositoryClient) ListUserRepositories(ctx context.Context, username string) ([]domain.Project, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

// fakeEventsClient returns a fixed batch and counts listing calls.
type fakeEventsClient struct {
	mu     sync.Mutex
	events []domain.RawEvent
	err    error
	calls  int
	block  chan struct{}
}

func (f *fakeEventsClient) ListUserEvents(ctx context.Context, username string, perPage int) ([]domain.RawEvent, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventsClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// stubDetails returns a record derived from the address and records lookups.
type stubDetails struct {
	lookups []string
}

func (s *stubDetails) Fetch(ctx context.Context, apiURL string) domain.DetailRecord {
	s.lookups = append(s.lookups, apiURL)
	return domain.DetailRecord{
		Title: "Title of " + apiURL,
		Body:  "body",
		URL:   "html:" + apiURL,
	}
}

// failingStore fails every call.
type failingStore struct {
	err error
}

func (s failingStore) Load(ctx context.Context) (*domain.Envelope, error) { return nil, s.err }
func (s failingStore) Save(ctx context.Context, env domain.Envelope) error { return s.err }

// slowDetails answers after delay, or with the placeholder once ctx is done.
type slowDetails struct {
	delay time.Duration
}

func (s slowDetails) Fetch(ctx context.Context, apiURL string) domain.DetailRecord {
	select {
	case <-time.After(s.delay):
		return domain.DetailRecord{Title: "Title of " + apiURL, URL: "html:" + apiURL}
	case <-ctx.Done():
		return domain.UnavailableDetail()
	}
}
