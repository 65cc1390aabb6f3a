package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// mockActivityService is a test double for ActivityService.
type mockActivityService struct {
	entries []domain.DisplayEntry
	err     error
	calls   int
}

func (m *mockActivityService) GetActivity(ctx context.Context) ([]domain.DisplayEntry, error) {
	m.calls++
	return m.entries, m.err
}

// mockProjectService is a test double for ProjectService.
type mockProjectService struct {
	projects []domain.Project
	err      error
}

func (m *mockProjectService) GetRecentProjects(ctx context.Context) ([]domain.Project, error) {
	return m.projects, m.err
}

func newTestMux(activity ActivityService, projects ProjectService, metrics http.Handler) *http.ServeMux {
	h := NewHandler(HandlerConfig{
		ActivityService: activity,
		ProjectService:  projects,
		MetricsHandler:  metrics,
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// TestHandleHealth tests the health check endpoint.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestHandleHealth(t *testing.T) {
	// Arrange
	mux := newTestMux(&mockActivityService{}, &mockProjectService{}, nil)

	// Act
	w := serve(mux, http.MethodGet, "/api/health")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleActivity_Success(t *testing.T) {
	// Arrange
	activity := &mockActivityService{entries: []domain.DisplayEntry{
		{
			ID:         "42",
			Actor:      domain.Actor{Login: "octo", AvatarURL: "https://avatars.example/octo"},
			Verb:       "starred",
			Object:     "octo/demo",
			Repository: "octo/demo",
			URL:        "https://github.com/octo/demo",
			Timestamp:  "Oct 17, 3:04 PM",
		},
		{
			ID:          "41",
			Actor:       domain.Actor{Login: "octo"},
			Verb:        "opened issue",
			Object:      "Crash on start",
			Description: "Steps to reproduce",
			Repository:  "octo/demo",
			URL:         "https://github.com/octo/demo/issues/3",
			Timestamp:   "Oct 17, 2:00 PM",
		},
	}}
	mux := newTestMux(activity, &mockProjectService{}, nil)

	// Act
	w := serve(mux, http.MethodGet, "/api/github")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"id":"42","actor":{"login":"octo","avatar_url":"https://avatars.example/octo"},"verb":"starred",
		 "object":"octo/demo","repo":"octo/demo","url":"https://github.com/octo/demo","timestamp":"Oct 17, 3:04 PM"},
		{"id":"41","actor":{"login":"octo","avatar_url":""},"verb":"opened issue","object":"Crash on start",
		 "description":"Steps to reproduce","repo":"octo/demo","url":"https://github.com/octo/demo/issues/3",
		 "timestamp":"Oct 17, 2:00 PM"}
	]`, w.Body.String())
}

func TestHandleActivity_EmptyFeed(t *testing.T) {
	mux := newTestMux(&mockActivityService{}, &mockProjectService{}, nil)

	w := serve(mux, http.MethodGet, "/api/github")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleActivity_UpstreamFailure(t *testing.T) {
	// Arrange
	activity := &mockActivityService{err: errors.New("list events for octo: API returned status 401")}
	mux := newTestMux(activity, &mockProjectService{}, nil)

	// Act
	w := serve(mux, http.MethodGet, "/api/github")

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Failed to fetch GitHub activity"}`, w.Body.String())
}

func TestHandleActivity_MethodNotAllowed(t *testing.T) {
	activity := &mockActivityService{}
	mux := newTestMux(activity, &mockProjectService{}, nil)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := serve(mux, method, "/api/github")
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
	assert.Zero(t, activity.calls)
}

func TestHandleProjects(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		projects := &mockProjectService{projects: []domain.Project{{
			Name:        "demo",
			Description: "A demo",
			Language:    "Go",
			HTMLURL:     "https://github.com/octo/demo",
			PushedAt:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
			IsFork:      false,
		}}}
		mux := newTestMux(&mockActivityService{}, projects, nil)

		w := serve(mux, http.MethodGet, "/api/projects")

		require.Equal(t, http.StatusOK, w.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "demo", got[0]["name"])
		assert.Equal(t, "https://github.com/octo/demo", got[0]["html_url"])
		assert.Equal(t, "2026-10-01T12:00:00Z", got[0]["pushed_at"])
		assert.NotContains(t, got[0], "IsFork")
	})

	t.Run("failure", func(t *testing.T) {
		mux := newTestMux(&mockActivityService{}, &mockProjectService{err: errors.New("boom")}, nil)

		w := serve(mux, http.MethodGet, "/api/projects")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch GitHub projects"}`, w.Body.String())
	})
}

func TestMetricsRoute(t *testing.T) {
	t.Run("registered when provided", func(t *testing.T) {
		metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		})
		mux := newTestMux(&mockActivityService{}, &mockProjectService{}, metrics)

		w := serve(mux, http.MethodGet, "/metrics")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "# metrics", w.Body.String())
	})

	t.Run("absent otherwise", func(t *testing.T) {
		mux := newTestMux(&mockActivityService{}, &mockProjectService{}, nil)

		w := serve(mux, http.MethodGet, "/metrics")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
