package dashboard

import (
	"encoding/json"
	"io"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// Renderer writes response bodies.
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderActivity(w io.Writer, entries []domain.DisplayEntry) error
	RenderProjects(w io.Writer, projects []domain.Project) error
	RenderError(w io.Writer, message string) error
}

// JSONRenderer implements Renderer for JSON responses.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderActivity writes the entries as a JSON array; nil renders as [].
func (r *JSONRenderer) RenderActivity(w io.Writer, entries []domain.DisplayEntry) error {
	if entries == nil {
		entries = []domain.DisplayEntry{}
	}
	return json.NewEncoder(w).Encode(entries)
}

func (r *JSONRenderer) RenderProjects(w io.Writer, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	return json.NewEncoder(w).Encode(projects)
}

func (r *JSONRenderer) RenderError(w io.Writer, message string) error {
	return json.NewEncoder(w).Encode(map[string]string{"error": message})
}
