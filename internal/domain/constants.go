package domain

import "time"

// Event kind constants as reported by the GitHub events API.
const (
	KindPush                     = "PushEvent"
	KindIssueComment             = "IssueCommentEvent"
	KindPullRequestReviewComment = "PullRequestReviewCommentEvent"
	KindCommitComment            = "CommitCommentEvent"
	KindPullRequest              = "PullRequestEvent"
	KindPullRequestReview        = "PullRequestReviewEvent"
	KindIssues                   = "IssuesEvent"
	KindWatch                    = "WatchEvent"
	KindFork                     = "ForkEvent"
)

const (
	// EventsPageSize is the number of raw events requested per aggregation pass.
	EventsPageSize = 30
	// DefaultActivityTTL is how long a computed activity list is served from cache.
	DefaultActivityTTL = 5 * time.Minute
	// TimestampLayout renders DisplayEntry timestamps, e.g. "Oct 17, 3:04 PM".
	TimestampLayout = "Jan 2, 3:04 PM"
)

// ignoredKinds never produce a display entry.
var ignoredKinds = map[string]struct{}{
	KindPush:                     {},
	KindIssueComment:             {},
	KindPullRequestReviewComment: {},
	KindCommitComment:            {},
}

// IsIgnoredKind reports whether events of the given kind are always skipped.
func IsIgnoredKind(kind string) bool {
	_, ok := ignoredKinds[kind]
	return ok
}
