package domain

import "time"

// Article is a core entity describing a single feed item as fetched upstream.
// Instances are treated as immutable for the duration of one pipeline run.
type Article struct {
	Title       string
	Link        string
	Description string
	Source      string
	SourceFeed  string
	Category    string
	PublishedAt time.Time
}

// HasTimestamp reports whether the feed supplied a publication date.
func (a Article) HasTimestamp() bool {
	return !a.PublishedAt.IsZero()
}

// Summarized pairs an article with its finished post text.
type Summarized struct {
	Article Article
	Text    string
}

// PublishOutcome records the per-item result of a publish attempt. PostID
// carries the external identifier on success, Err the last error otherwise.
type PublishOutcome struct {
	Text   string
	Posted bool
	PostID string
	Err    string
}

// RunStats aggregates one pipeline invocation for reporting and archival.
type RunStats struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Unique     int
	Summarized int
	Posted     int
	Succeeded  int
}
