package domain

import (
	"fmt"
	"time"
)

// DisplayEntry is one normalized, human-readable activity item.
type DisplayEntry struct {
	ID          string `json:"id"`
	Actor       Actor  `json:"actor"`
	Verb        string `json:"verb"`
	Object      string `json:"object"`
	Description string `json:"description,omitempty"`
	Repository  string `json:"repo"`
	URL         string `json:"url"`
	Timestamp   string `json:"timestamp"`
}

// DetailRecord is enrichment data for a single issue or pull request.
type DetailRecord struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Merged *bool  `json:"merged,omitempty"`
	URL    string `json:"url"`
}

// UnavailableDetail is returned when a detail lookup fails.
func UnavailableDetail() DetailRecord {
	return DetailRecord{Title: "Private or Deleted Content", Body: "", URL: "#"}
}

// PRDedupKey identifies a pull request within one aggregation pass.
type PRDedupKey struct {
	Repository string
	Number     int
}

func (k PRDedupKey) String() string {
	return fmt.Sprintf("%s#%d", k.Repository, k.Number)
}

// Envelope is a cached activity list together with the time it was computed.
type Envelope struct {
	Entries   []DisplayEntry `json:"entries"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// FreshAt reports whether the envelope is younger than ttl at the given instant.
func (e *Envelope) FreshAt(now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl
}
