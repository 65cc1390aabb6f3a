package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

const (
	activityErrorMessage = "Failed to fetch GitHub activity"
	projectsErrorMessage = "Failed to fetch GitHub projects"
)

// ActivityService provides the normalized activity feed.
type ActivityService interface {
	GetActivity(ctx context.Context) ([]domain.DisplayEntry, error)
}

// ProjectService provides the recently pushed repositories.
type ProjectService interface {
	GetRecentProjects(ctx context.Context) ([]domain.Project, error)
}

// Handler handles HTTP requests for the feed API.
type Handler struct {
	renderer        Renderer
	activityService ActivityService
	projectService  ProjectService
	metricsHandler  http.Handler
}

// HandlerConfig holds configuration for creating a new Handler.
// A nil MetricsHandler leaves /metrics unregistered.
type HandlerConfig struct {
	Renderer        Renderer
	ActivityService ActivityService
	ProjectService  ProjectService
	MetricsHandler  http.Handler
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Renderer == nil {
		cfg.Renderer = NewJSONRenderer()
	}
	return &Handler{
		renderer:        cfg.Renderer,
		activityService: cfg.ActivityService,
		projectService:  cfg.ProjectService,
		metricsHandler:  cfg.MetricsHandler,
	}
}

// RegisterRoutes registers all HTTP routes. Other methods on these paths get 405.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/github", h.handleActivity)
	mux.HandleFunc("GET /api/projects", h.handleProjects)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	if h.metricsHandler != nil {
		mux.Handle("GET /metrics", h.metricsHandler)
	}
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to render health", "error", err)
	}
}

// handleActivity serves the aggregated activity feed.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")

	entries, err := h.activityService.GetActivity(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get activity", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, activityErrorMessage)
		return
	}

	if err := h.renderer.RenderActivity(w, entries); err != nil {
		slog.ErrorContext(ctx, "failed to render activity", "error", err)
	}
}

// handleProjects serves the most recently pushed repositories.
func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")

	projects, err := h.projectService.GetRecentProjects(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get projects", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, projectsErrorMessage)
		return
	}

	if err := h.renderer.RenderProjects(w, projects); err != nil {
		slog.ErrorContext(ctx, "failed to render projects", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := h.renderer.RenderError(w, message); err != nil {
		slog.ErrorContext(r.Context(), "failed to render error", "error", err)
	}
}
