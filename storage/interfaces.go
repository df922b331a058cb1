package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"reid-catalog/models"
)

var (
	// ErrNotFound reports a missing row.
	ErrNotFound = errors.New("storage: not found")
	// ErrConflict reports a uniqueness violation. Callers writing
	// append-only rows (duplicate pairs, error records) treat it as a
	// benign no-op.
	ErrConflict = errors.New("storage: conflict")
)

// DuplicateKey is the exact-match tuple used to find listings that
// plausibly describe the same physical property.
type DuplicateKey struct {
	Price        int64
	ContractType string
	Bedrooms     *float64
	Bathrooms    *float64
	LandSize     *float64
	BuildSize    *float64
}

// Key builds the duplicate-match tuple for a listing.
func Key(l *models.Listing) DuplicateKey {
	return DuplicateKey{
		Price:        l.Price,
		ContractType: l.ContractType,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		LandSize:     l.LandSize,
		BuildSize:    l.BuildSize,
	}
}

// trailingSequence parses the numeric suffix of an allocated ID, e.g.
// "REID_25_07_KIBR_012" yields 12.
func trailingSequence(id string) (int, bool) {
	i := strings.LastIndex(id, "_")
	if i < 0 || i == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Store is the catalog persistence boundary. Implementations must make
// InsertListing atomic per ID prefix scope and MergeListing atomic per URL.
type Store interface {
	// GetListing returns the catalog record for a URL or ErrNotFound.
	GetListing(ctx context.Context, url string) (*models.Listing, error)

	// InsertListing allocates the next sequence for idPrefix
	// ("REID_25_07_KIBR"), stamps l.ReidID and inserts the row, all in
	// one transaction. Returns ErrConflict when the URL already exists.
	InsertListing(ctx context.Context, l *models.Listing, idPrefix string) error

	// MergeListing runs merge against the current row under a per-URL
	// lock and persists the result when merge reports changes.
	MergeListing(ctx context.Context, url string, merge func(l *models.Listing) []models.Change) ([]models.Change, error)

	// FindDuplicate returns another listing matching the tuple: from a
	// different source when sameSource is false, or from the same source
	// but a different URL when true. ErrNotFound when none matches.
	FindDuplicate(ctx context.Context, key DuplicateKey, source, excludeURL string, sameSource bool) (*models.Listing, error)

	// InsertDuplicate records a duplicate pair; ErrConflict when the
	// ordered pair already exists.
	InsertDuplicate(ctx context.Context, pair *models.DuplicateListing) error

	// SyncTags creates issue tags newly present in issues and marks
	// previously recorded tags absent from issues as solved.
	SyncTags(ctx context.Context, url string, issues []string) error

	// ListTags returns all tags ever recorded for a URL.
	ListTags(ctx context.Context, url string) ([]*models.Tag, error)

	// RecordError stores an error record, deduplicated by (url, message).
	RecordError(ctx context.Context, e *models.ErrorRecord) error

	// ClearErrors removes every error record for a URL.
	ClearErrors(ctx context.Context, url string) error

	// ArchiveRaw stores the unprocessed payload and returns its row id.
	ArchiveRaw(ctx context.Context, raw *models.RawData) (int64, error)

	// DeleteRaw removes an archive row, compensating a failed insert.
	DeleteRaw(ctx context.Context, id int64) error

	// SaveReport stores the end-of-run summary for one source.
	SaveReport(ctx context.Context, r *models.Report) error

	// ListAvailableURLs returns the URLs of still-available listings for
	// a source, so the crawler can re-visit them.
	ListAvailableURLs(ctx context.Context, source string) ([]string, error)

	// ListListings returns the whole catalog, ordered by id.
	ListListings(ctx context.Context) ([]*models.Listing, error)

	Close() error
}
