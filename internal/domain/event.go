package domain

import "time"

// Actor is the user who triggered an event.
type Actor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// RawEvent is one record from the user's public activity stream.
// Payload holds exactly one variant, selected by Kind.
type RawEvent struct {
	ID         string
	Kind       string
	Actor      Actor
	Repository string
	CreatedAt  time.Time
	Payload    Payload
}

// Payload is the closed set of event payload variants.
type Payload interface {
	payloadKind() string
}

// PullRequestRef is the pull request sub-object carried by PR and review events.
type PullRequestRef struct {
	Number int
	URL    string // API address, used for detail lookups
	Merged bool
}

// PullRequestPayload is carried by PullRequestEvent.
type PullRequestPayload struct {
	Action      string
	PullRequest *PullRequestRef
}

// PullRequestReviewPayload is carried by PullRequestReviewEvent.
type PullRequestReviewPayload struct {
	Action      string
	ReviewState string
	PullRequest *PullRequestRef
}

// IssueRef is the issue sub-object carried by IssuesEvent.
type IssueRef struct {
	Number int
	URL    string
}

// IssuesPayload is carried by IssuesEvent.
type IssuesPayload struct {
	Action string
	Issue  *IssueRef
}

// WatchPayload is carried by WatchEvent (a star).
type WatchPayload struct{}

// ForkPayload is carried by ForkEvent. ForkeeHTMLURL is the newly created fork's page.
type ForkPayload struct {
	ForkeeHTMLURL string
	HasForkee     bool
}

// OtherPayload stands in for every kind without a dedicated variant.
type OtherPayload struct {
	Kind string
}

func (PullRequestPayload) payloadKind() string       { return KindPullRequest }
func (PullRequestReviewPayload) payloadKind() string { return KindPullRequestReview }
func (IssuesPayload) payloadKind() string            { return KindIssues }
func (WatchPayload) payloadKind() string             { return KindWatch }
func (ForkPayload) payloadKind() string              { return KindFork }
func (p OtherPayload) payloadKind() string           { return p.Kind }
