package github

import (
	"encoding/json"
	"time"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

// GitHub API response types
type githubEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     githubActor     `json:"actor"`
	Repo      githubEventRepo `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt *time.Time      `json:"created_at"`
}

type githubActor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type githubEventRepo struct {
	Name string `json:"name"`
}

type githubPullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Merged bool   `json:"merged"`
}

type githubPullRequestPayload struct {
	Action      string             `json:"action"`
	PullRequest *githubPullRequest `json:"pull_request"`
}

type githubReviewPayload struct {
	Action string `json:"action"`
	Review *struct {
		State string `json:"state"`
	} `json:"review"`
	PullRequest *githubPullRequest `json:"pull_request"`
}

type githubIssuesPayload struct {
	Action string `json:"action"`
	Issue  *struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	} `json:"issue"`
}

type githubForkPayload struct {
	Forkee *struct {
		HTMLURL string `json:"html_url"`
	} `json:"forkee"`
}

type githubResource struct {
	Title   *string `json:"title"`
	Body    *string `json:"body"`
	Merged  *bool   `json:"merged"`
	HTMLURL string  `json:"html_url"`
}

type githubRepository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	HTMLURL     string    `json:"html_url"`
	Fork        bool      `json:"fork"`
	PushedAt    time.Time `json:"pushed_at"`
}

// convertEvent maps a GitHub event onto the domain's payload variants.
// A payload that fails to decode leaves its sub-objects nil; the normalizer
// drops such events.
func convertEvent(e githubEvent) domain.RawEvent {
	ev := domain.RawEvent{
		ID:         e.ID,
		Kind:       e.Type,
		Actor:      domain.Actor{Login: e.Actor.Login, AvatarURL: e.Actor.AvatarURL},
		Repository: e.Repo.Name,
	}
	if e.CreatedAt != nil {
		ev.CreatedAt = *e.CreatedAt
	}

	switch e.Type {
	case domain.KindPullRequest:
		var p githubPullRequestPayload
		_ = json.Unmarshal(e.Payload, &p)
		ev.Payload = domain.PullRequestPayload{Action: p.Action, PullRequest: convertPullRequest(p.PullRequest)}
	case domain.KindPullRequestReview:
		var p githubReviewPayload
		_ = json.Unmarshal(e.Payload, &p)
		out := domain.PullRequestReviewPayload{Action: p.Action, PullRequest: convertPullRequest(p.PullRequest)}
		if p.Review != nil {
			out.ReviewState = p.Review.State
		}
		ev.Payload = out
	case domain.KindIssues:
		var p githubIssuesPayload
		_ = json.Unmarshal(e.Payload, &p)
		out := domain.IssuesPayload{Action: p.Action}
		if p.Issue != nil {
			out.Issue = &domain.IssueRef{Number: p.Issue.Number, URL: p.Issue.URL}
		}
		ev.Payload = out
	case domain.KindWatch:
		ev.Payload = domain.WatchPayload{}
	case domain.KindFork:
		var p githubForkPayload
		_ = json.Unmarshal(e.Payload, &p)
		out := domain.ForkPayload{}
		if p.Forkee != nil {
			out.HasForkee = true
			out.ForkeeHTMLURL = p.Forkee.HTMLURL
		}
		ev.Payload = out
	default:
		ev.Payload = domain.OtherPayload{Kind: e.Type}
	}

	return ev
}

func convertPullRequest(pr *githubPullRequest) *domain.PullRequestRef {
	if pr == nil {
		return nil
	}
	return &domain.PullRequestRef{Number: pr.Number, URL: pr.URL, Merged: pr.Merged}
}
