package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsIgnoredKind(t *testing.T) {
	for _, kind := range []string{KindPush, KindIssueComment, KindPullRequestReviewComment, KindCommitComment} {
		assert.True(t, IsIgnoredKind(kind), kind)
	}
	for _, kind := range []string{KindPullRequest, KindPullRequestReview, KindIssues, KindWatch, KindFork, "CreateEvent"} {
		assert.False(t, IsIgnoredKind(kind), kind)
	}
}

func TestPRDedupKey_String(t *testing.T) {
	key := PRDedupKey{Repository: "octo/demo", Number: 7}
	assert.Equal(t, "octo/demo#7", key.String())
}

func TestEnvelope_FreshAt(t *testing.T) {
	fetched := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	env := &Envelope{FetchedAt: fetched}

	assert.True(t, env.FreshAt(fetched, DefaultActivityTTL))
	assert.True(t, env.FreshAt(fetched.Add(DefaultActivityTTL-time.Nanosecond), DefaultActivityTTL))
	assert.False(t, env.FreshAt(fetched.Add(DefaultActivityTTL), DefaultActivityTTL))

	var missing *Envelope
	assert.False(t, missing.FreshAt(fetched, DefaultActivityTTL))
}

func TestUnavailableDetail(t *testing.T) {
	detail := UnavailableDetail()
	assert.Equal(t, "Private or Deleted Content", detail.Title)
	assert.Empty(t, detail.Body)
	assert.Equal(t, "#", detail.URL)
	assert.Nil(t, detail.Merged)
}
