package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// EventsClient lists a user's public activity stream, newest first.
type EventsClient interface {
	ListUserEvents(ctx context.Context, username string, perPage int) ([]domain.RawEvent, error)
}

// DetailClient fetches a single issue or pull request by its API address.
type DetailClient interface {
	GetResource(ctx context.Context, apiURL string) (*ResourceDetail, error)
}

// RepositoryClient lists a user's repositories.
type RepositoryClient interface {
	ListUserRepositories(ctx context.Context, username string) ([]domain.Project, error)
}

// Client is everything the service needs from the hosting API.
type Client interface {
	EventsClient
	DetailClient
	RepositoryClient
}

// ResourceDetail is the raw detail of an issue or pull request.
// Title and Merged are nil when the API omits them.
type ResourceDetail struct {
	Title   *string
	Body    string
	Merged  *bool
	HTMLURL string
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
