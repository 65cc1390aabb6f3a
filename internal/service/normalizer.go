package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsnsgithub/activity-feed/internal/domain"
)

const githubWebURL = "https://github.com"

var allowedPullRequestActions = map[string]struct{}{
	"opened":   {},
	"closed":   {},
	"reopened": {},
}

// Normalizer turns raw events into display entries.
type Normalizer struct {
	details  DetailSource
	location *time.Location
}

// NewNormalizer creates a normalizer rendering timestamps in loc (UTC when nil).
func NewNormalizer(details DetailSource, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{details: details, location: loc}
}

// Normalize maps one raw event to at most one display entry.
// seen holds the pull requests already emitted in this pass; it is updated
// when a pull request entry is produced. Events must be fed newest first.
func (n *Normalizer) Normalize(ctx context.Context, ev domain.RawEvent, seen map[domain.PRDedupKey]struct{}) (domain.DisplayEntry, bool) {
	if ev.ID == "" || ev.CreatedAt.IsZero() {
		return domain.DisplayEntry{}, false
	}
	if domain.IsIgnoredKind(ev.Kind) {
		return domain.DisplayEntry{}, false
	}

	entry := domain.DisplayEntry{
		ID:         ev.ID,
		Actor:      ev.Actor,
		Repository: ev.Repository,
		Timestamp:  ev.CreatedAt.In(n.location).Format(domain.TimestampLayout),
	}

	switch p := ev.Payload.(type) {
	case domain.PullRequestPayload:
		if p.PullRequest == nil {
			return domain.DisplayEntry{}, false
		}
		verb, ok := pullRequestVerb(p)
		if !ok {
			return domain.DisplayEntry{}, false
		}
		return n.pullRequestEntry(ctx, entry, p.PullRequest, verb, seen)

	case domain.PullRequestReviewPayload:
		if p.PullRequest == nil {
			return domain.DisplayEntry{}, false
		}
		verb, ok := reviewVerb(p)
		if !ok {
			return domain.DisplayEntry{}, false
		}
		return n.pullRequestEntry(ctx, entry, p.PullRequest, verb, seen)

	case domain.IssuesPayload:
		if p.Issue == nil || p.Action == "" {
			return domain.DisplayEntry{}, false
		}
		detail := n.details.Fetch(ctx, p.Issue.URL)
		entry.Verb = p.Action + " issue"
		entry.Object = fmt.Sprintf("%s (#%d)", detail.Title, p.Issue.Number)
		entry.Description = detail.Body
		entry.URL = detail.URL
		return entry, true

	case domain.WatchPayload:
		entry.Verb = "starred"
		entry.Object = ev.Repository
		entry.URL = githubWebURL + "/" + ev.Repository
		return entry, true

	case domain.ForkPayload:
		if !p.HasForkee {
			return domain.DisplayEntry{}, false
		}
		entry.Verb = "forked"
		entry.Object = ev.Repository
		entry.Description = "Original repository created by " + ev.Repository
		entry.URL = p.ForkeeHTMLURL
		return entry, true

	default:
		return domain.DisplayEntry{}, false
	}
}

func (n *Normalizer) pullRequestEntry(ctx context.Context, entry domain.DisplayEntry, pr *domain.PullRequestRef, verb string, seen map[domain.PRDedupKey]struct{}) (domain.DisplayEntry, bool) {
	key := domain.PRDedupKey{Repository: entry.Repository, Number: pr.Number}
	if _, dup := seen[key]; dup {
		return domain.DisplayEntry{}, false
	}

	detail := n.details.Fetch(ctx, pr.URL)
	seen[key] = struct{}{}

	entry.Verb = verb + " pull request"
	entry.Object = fmt.Sprintf("%s (#%d)", detail.Title, pr.Number)
	entry.Description = detail.Body
	entry.URL = detail.URL
	return entry, true
}

// pullRequestVerb: a merged close wins, then any allowed action.
func pullRequestVerb(p domain.PullRequestPayload) (string, bool) {
	if p.Action == "closed" && p.PullRequest.Merged {
		return "merged", true
	}
	if _, ok := allowedPullRequestActions[p.Action]; ok {
		return p.Action, true
	}
	return "", false
}

// reviewVerb uses the review state; plain comments are not shown.
func reviewVerb(p domain.PullRequestReviewPayload) (string, bool) {
	state := strings.ToLower(p.ReviewState)
	if state == "" || state == "commented" {
		return "", false
	}
	return strings.ReplaceAll(state, "_", " "), true
}
