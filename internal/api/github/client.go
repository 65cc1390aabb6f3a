package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/domain"
	"github.com/dsnsgithub/activity-feed/internal/metrics"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	tracerName     = "activity-feed/github"
)

// Client implements api.Client for the GitHub REST API.
type Client struct {
	base    *api.BaseClient
	metrics *metrics.Metrics
}

// NewClient creates a new GitHub client. An empty token is allowed and
// results in unauthenticated requests.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, ratePerSecond float64, burst int, m *metrics.Metrics) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		base:    api.NewBaseClient(config, httpClient, ratePerSecond, burst),
		metrics: m,
	}
}

// ListUserEvents retrieves the most recent public events of a user, newest first.
func (c *Client) ListUserEvents(ctx context.Context, username string, perPage int) ([]domain.RawEvent, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "github.list_user_events")
	defer span.End()
	span.SetAttributes(attribute.String("github.username", username))

	reqURL := fmt.Sprintf("%s/users/%s/events/public?per_page=%d", c.base.BaseURL, url.PathEscape(username), perPage)

	var ghEvents []githubEvent
	if err := c.doRequest(ctx, "events", reqURL, &ghEvents); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list events failed")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]domain.RawEvent, 0, len(ghEvents))
	for _, e := range ghEvents {
		events = append(events, convertEvent(e))
	}
	span.SetAttributes(attribute.Int("github.events", len(events)))

	return events, nil
}

// GetResource retrieves an issue or pull request by its API address.
func (c *Client) GetResource(ctx context.Context, apiURL string) (*api.ResourceDetail, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "github.get_resource")
	defer span.End()
	span.SetAttributes(attribute.String("github.resource", apiURL))

	reqURL := apiURL
	if strings.HasPrefix(apiURL, "/") {
		reqURL = c.base.BaseURL + apiURL
	}

	var res githubResource
	if err := c.doRequest(ctx, "detail", reqURL, &res); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get resource failed")
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	body := ""
	if res.Body != nil {
		body = *res.Body
	}

	return &api.ResourceDetail{
		Title:   res.Title,
		Body:    body,
		Merged:  res.Merged,
		HTMLURL: res.HTMLURL,
	}, nil
}

// ListUserRepositories retrieves the public repositories of a user.
func (c *Client) ListUserRepositories(ctx context.Context, username string) ([]domain.Project, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "github.list_user_repositories")
	defer span.End()

	reqURL := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=pushed", c.base.BaseURL, url.PathEscape(username))

	var ghRepos []githubRepository
	if err := c.doRequest(ctx, "repositories", reqURL, &ghRepos); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list repositories failed")
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}

	return convertProjects(ghRepos), nil
}

// doRequest performs a rate-limited GET request and decodes the JSON body into result.
func (c *Client) doRequest(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	return c.base.DoRateLimited(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		if c.base.Token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.base.Token))
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)

		resp, err := c.base.HTTPClient.Do(req)
		if err != nil {
			c.metrics.ObserveUpstream(endpoint, "error")
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		c.metrics.ObserveUpstream(endpoint, strconv.Itoa(resp.StatusCode))

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &api.APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		return nil
	})
}

// convertProjects converts GitHub repositories to domain models.
func convertProjects(ghRepos []githubRepository) []domain.Project {
	projects := make([]domain.Project, 0, len(ghRepos))
	for _, repo := range ghRepos {
		p := domain.Project{
			Name:     repo.Name,
			HTMLURL:  repo.HTMLURL,
			PushedAt: repo.PushedAt,
			IsFork:   repo.Fork,
		}
		if repo.Description != nil {
			p.Description = *repo.Description
		}
		if repo.Language != nil {
			p.Language = *repo.Language
		}
		projects = append(projects, p)
	}
	return projects
}
