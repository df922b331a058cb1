package models

import "time"

// DuplicateListing is an append-only link between two catalog URLs believed
// to describe the same physical property. Unique per (source_url,
// duplicate_url); never mutated or deleted.
type DuplicateListing struct {
	ID           int64
	CreatedAt    time.Time
	SourceURL    string
	DuplicateURL string
}

// Tag flags a structural issue on a listing ("no_price", ...). Tags are
// unique per (url, name); a tag no longer triggered by the latest
// validation run is marked solved, never removed.
type Tag struct {
	ID        int64
	URL       string
	Name      string
	IsSolved  bool
	IsIgnored bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrorRecord captures a failure for one URL at one pipeline stage.
// Unique per (url, message) so repeated failures stay quiet; cleared when
// the URL next succeeds.
type ErrorRecord struct {
	ID      int64
	URL     string
	Origin  string
	Message string
}

// RawData archives the unprocessed payload of one observation for audit
// and replay. An archive row whose listing failed to commit is deleted as
// compensation, never left orphaned.
type RawData struct {
	ID        int64
	URL       string
	HTML      string
	JSON      string
	CreatedAt time.Time
}

// Report is the end-of-run summary for one source.
type Report struct {
	ID             int64
	Source         string
	ScrapedAt      time.Time
	ItemsScraped   int
	ItemsDropped   int
	Errors         int
	ElapsedSeconds float64
	CreatedAt      time.Time
}
