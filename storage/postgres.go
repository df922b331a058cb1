package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"reid-catalog/models"
)

// PostgresStore persists the catalog to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id              BIGSERIAL PRIMARY KEY,
			reid_id         VARCHAR(50)  NOT NULL,
			property_id     TEXT         NOT NULL DEFAULT '',
			source          VARCHAR(100) NOT NULL,
			url             TEXT         UNIQUE NOT NULL,
			image_url       TEXT         NOT NULL DEFAULT '',
			title           TEXT         NOT NULL DEFAULT '',
			description     TEXT         NOT NULL DEFAULT '',
			region          TEXT         NOT NULL DEFAULT '',
			location        TEXT         NOT NULL DEFAULT '',
			longitude       DOUBLE PRECISION,
			latitude        DOUBLE PRECISION,
			leasehold_years DOUBLE PRECISION,
			contract_type   VARCHAR(50)  NOT NULL DEFAULT '',
			property_type   VARCHAR(50)  NOT NULL DEFAULT '',
			listed_date     VARCHAR(20)  NOT NULL DEFAULT '',
			bedrooms        DOUBLE PRECISION,
			bathrooms       DOUBLE PRECISION,
			build_size      DOUBLE PRECISION,
			land_size       DOUBLE PRECISION,
			land_zoning     VARCHAR(50)  NOT NULL DEFAULT '',
			price           BIGINT       NOT NULL DEFAULT 0,
			currency        VARCHAR(10)  NOT NULL DEFAULT '',
			is_available    BOOLEAN      NOT NULL DEFAULT TRUE,
			availability    VARCHAR(20)  NOT NULL DEFAULT 'Available',
			is_off_plan     BOOLEAN      NOT NULL DEFAULT FALSE,
			sold_at         TIMESTAMPTZ,
			segment         VARCHAR(30)  NOT NULL DEFAULT 'DATA',
			scraped_at      TIMESTAMPTZ  NOT NULL,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_source       ON listings(source);
		CREATE INDEX IF NOT EXISTS idx_listings_reid_id      ON listings(reid_id);
		CREATE INDEX IF NOT EXISTS idx_listings_is_available ON listings(is_available);
		CREATE INDEX IF NOT EXISTS idx_listings_segment      ON listings(segment);

		CREATE TABLE IF NOT EXISTS duplicate_listings (
			id            BIGSERIAL PRIMARY KEY,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			source_url    TEXT NOT NULL,
			duplicate_url TEXT NOT NULL,
			UNIQUE (source_url, duplicate_url)
		);

		CREATE TABLE IF NOT EXISTS tags (
			id         BIGSERIAL PRIMARY KEY,
			url        TEXT        NOT NULL,
			name       VARCHAR(80) NOT NULL,
			is_solved  BOOLEAN     NOT NULL DEFAULT FALSE,
			is_ignored BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (url, name)
		);

		CREATE TABLE IF NOT EXISTS errors (
			id      BIGSERIAL PRIMARY KEY,
			url     TEXT NOT NULL,
			origin  VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			UNIQUE (url, message)
		);

		CREATE TABLE IF NOT EXISTS raw_data (
			id         BIGSERIAL PRIMARY KEY,
			url        TEXT NOT NULL,
			html       TEXT NOT NULL DEFAULT '',
			json       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS reports (
			id              BIGSERIAL PRIMARY KEY,
			source          VARCHAR(100) NOT NULL,
			scraped_at      TIMESTAMPTZ  NOT NULL,
			items_scraped   INT NOT NULL,
			items_dropped   INT NOT NULL,
			errors          INT NOT NULL,
			elapsed_seconds DOUBLE PRECISION NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

const listingColumns = `id, reid_id, property_id, source, url, image_url, title, description,
	region, location, longitude, latitude, leasehold_years, contract_type, property_type,
	listed_date, bedrooms, bathrooms, build_size, land_size, land_zoning, price, currency,
	is_available, availability, is_off_plan, sold_at, segment, scraped_at, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	l := &models.Listing{}
	var lon, lat, lease, bed, bath, build, land sql.NullFloat64
	var soldAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.ReidID, &l.PropertyID, &l.Source, &l.URL, &l.ImageURL, &l.Title, &l.Description,
		&l.Region, &l.Location, &lon, &lat, &lease, &l.ContractType, &l.PropertyType,
		&l.ListedDate, &bed, &bath, &build, &land, &l.LandZoning, &l.Price, &l.Currency,
		&l.IsAvailable, &l.Availability, &l.IsOffPlan, &soldAt, &l.Segment,
		&l.ScrapedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Longitude = nullFloat(lon)
	l.Latitude = nullFloat(lat)
	l.LeaseholdYears = nullFloat(lease)
	l.Bedrooms = nullFloat(bed)
	l.Bathrooms = nullFloat(bath)
	l.BuildSize = nullFloat(build)
	l.LandSize = nullFloat(land)
	if soldAt.Valid {
		t := soldAt.Time
		l.SoldAt = &t
	}
	return l, nil
}

// GetListing returns the catalog record for a URL.
func (ps *PostgresStore) GetListing(ctx context.Context, url string) (*models.Listing, error) {
	row := ps.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE url = $1`, url)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get listing: %w", err)
	}
	return l, nil
}

// InsertListing allocates the next sequence in the idPrefix scope and
// inserts the listing in one transaction. An advisory transaction lock on
// the prefix serializes concurrent allocations for the same (month,
// source) scope without blocking other scopes.
func (ps *PostgresStore) InsertListing(ctx context.Context, l *models.Listing, idPrefix string) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, idPrefix); err != nil {
		return fmt.Errorf("postgres: lock scope %s: %w", idPrefix, err)
	}

	// order by the numeric suffix: lexicographic order would put _1000
	// before _999
	var last sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT reid_id FROM listings WHERE reid_id LIKE $1 || '%'
		 ORDER BY (substring(reid_id from '[0-9]+$'))::int DESC LIMIT 1`,
		idPrefix).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("postgres: last sequence: %w", err)
	}

	seq := 1
	if last.Valid {
		if n, ok := trailingSequence(last.String); ok {
			seq = n + 1
		}
	}
	l.ReidID = fmt.Sprintf("%s_%03d", idPrefix, seq)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO listings (
			reid_id, property_id, source, url, image_url, title, description,
			region, location, longitude, latitude, leasehold_years, contract_type,
			property_type, listed_date, bedrooms, bathrooms, build_size, land_size,
			land_zoning, price, currency, is_available, availability, is_off_plan,
			sold_at, segment, scraped_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,
			$20,$21,$22,$23,$24,$25,$26,$27,$28,NOW(),NOW())`,
		l.ReidID, l.PropertyID, l.Source, l.URL, l.ImageURL, l.Title, l.Description,
		l.Region, l.Location, floatArg(l.Longitude), floatArg(l.Latitude),
		floatArg(l.LeaseholdYears), l.ContractType, l.PropertyType, l.ListedDate,
		floatArg(l.Bedrooms), floatArg(l.Bathrooms), floatArg(l.BuildSize),
		floatArg(l.LandSize), l.LandZoning, l.Price, l.Currency, l.IsAvailable,
		l.Availability, l.IsOffPlan, timeArg(l.SoldAt), l.Segment, l.ScrapedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("postgres: insert listing: %w", err)
	}

	return tx.Commit()
}

// MergeListing locks the row for the URL, applies merge in memory, and
// persists the result when anything changed.
func (ps *PostgresStore) MergeListing(ctx context.Context, url string, merge func(l *models.Listing) []models.Change) ([]models.Change, error) {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin merge: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE url = $1 FOR UPDATE`, url)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: merge read: %w", err)
	}

	changes := merge(l)
	if len(changes) == 0 {
		return nil, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE listings SET
			property_id=$2, image_url=$3, description=$4, location=$5,
			leasehold_years=$6, contract_type=$7, property_type=$8, listed_date=$9,
			bedrooms=$10, bathrooms=$11, build_size=$12, land_size=$13, land_zoning=$14,
			price=$15, currency=$16, is_available=$17, availability=$18, is_off_plan=$19,
			sold_at=$20, segment=$21, scraped_at=$22, updated_at=$23
		WHERE url = $1`,
		url, l.PropertyID, l.ImageURL, l.Description, l.Location,
		floatArg(l.LeaseholdYears), l.ContractType, l.PropertyType, l.ListedDate,
		floatArg(l.Bedrooms), floatArg(l.Bathrooms), floatArg(l.BuildSize),
		floatArg(l.LandSize), l.LandZoning, l.Price, l.Currency, l.IsAvailable,
		l.Availability, l.IsOffPlan, timeArg(l.SoldAt), l.Segment, l.ScrapedAt, l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: merge write: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("postgres: merge commit: %w", err)
	}
	return changes, nil
}

// FindDuplicate searches the catalog for another listing matching the
// duplicate tuple. NULL sizes compare as equal via IS NOT DISTINCT FROM.
func (ps *PostgresStore) FindDuplicate(ctx context.Context, key DuplicateKey, source, excludeURL string, sameSource bool) (*models.Listing, error) {
	sourceCond := `source != $7`
	if sameSource {
		sourceCond = `source = $7`
	}
	row := ps.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings
		 WHERE price = $1
		   AND contract_type = $2
		   AND bedrooms   IS NOT DISTINCT FROM $3
		   AND bathrooms  IS NOT DISTINCT FROM $4
		   AND land_size  IS NOT DISTINCT FROM $5
		   AND build_size IS NOT DISTINCT FROM $6
		   AND `+sourceCond+`
		   AND url != $8
		 LIMIT 1`,
		key.Price, key.ContractType, floatArg(key.Bedrooms), floatArg(key.Bathrooms),
		floatArg(key.LandSize), floatArg(key.BuildSize), source, excludeURL)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find duplicate: %w", err)
	}
	return l, nil
}

// InsertDuplicate records a duplicate pair.
func (ps *PostgresStore) InsertDuplicate(ctx context.Context, pair *models.DuplicateListing) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO duplicate_listings (source_url, duplicate_url) VALUES ($1, $2)`,
		pair.SourceURL, pair.DuplicateURL)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("postgres: insert duplicate: %w", err)
	}
	return nil
}

// SyncTags upserts the current issue set and retires the rest.
func (ps *PostgresStore) SyncTags(ctx context.Context, url string, issues []string) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin tags: %w", err)
	}
	defer tx.Rollback()

	for _, name := range issues {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tags (url, name) VALUES ($1, $2)
			ON CONFLICT (url, name)
			DO UPDATE SET is_solved = FALSE, updated_at = NOW()`,
			url, name)
		if err != nil {
			return fmt.Errorf("postgres: upsert tag %s: %w", name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tags SET is_solved = TRUE, updated_at = NOW()
		WHERE url = $1 AND is_solved = FALSE AND NOT (name = ANY($2))`,
		url, pq.Array(issues))
	if err != nil {
		return fmt.Errorf("postgres: retire tags: %w", err)
	}

	return tx.Commit()
}

// ListTags returns all tags ever recorded for a URL.
func (ps *PostgresStore) ListTags(ctx context.Context, url string) ([]*models.Tag, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, url, name, is_solved, is_ignored, created_at, updated_at
		FROM tags WHERE url = $1 ORDER BY id`, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.URL, &tag.Name, &tag.IsSolved,
			&tag.IsIgnored, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// RecordError stores an error record, deduplicated by (url, message).
func (ps *PostgresStore) RecordError(ctx context.Context, e *models.ErrorRecord) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO errors (url, origin, message) VALUES ($1, $2, $3)
		ON CONFLICT (url, message) DO NOTHING`,
		e.URL, e.Origin, e.Message)
	if err != nil {
		return fmt.Errorf("postgres: record error: %w", err)
	}
	return nil
}

// ClearErrors removes every error record for a URL.
func (ps *PostgresStore) ClearErrors(ctx context.Context, url string) error {
	_, err := ps.db.ExecContext(ctx, `DELETE FROM errors WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("postgres: clear errors: %w", err)
	}
	return nil
}

// ArchiveRaw stores an unprocessed payload.
func (ps *PostgresStore) ArchiveRaw(ctx context.Context, raw *models.RawData) (int64, error) {
	var id int64
	err := ps.db.QueryRowContext(ctx, `
		INSERT INTO raw_data (url, html, json) VALUES ($1, $2, $3) RETURNING id`,
		raw.URL, raw.HTML, raw.JSON).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: archive raw: %w", err)
	}
	return id, nil
}

// DeleteRaw removes an archive row.
func (ps *PostgresStore) DeleteRaw(ctx context.Context, id int64) error {
	_, err := ps.db.ExecContext(ctx, `DELETE FROM raw_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete raw: %w", err)
	}
	return nil
}

// SaveReport stores the end-of-run summary for one source.
func (ps *PostgresStore) SaveReport(ctx context.Context, r *models.Report) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO reports (source, scraped_at, items_scraped, items_dropped, errors, elapsed_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.Source, r.ScrapedAt, r.ItemsScraped, r.ItemsDropped, r.Errors, r.ElapsedSeconds)
	if err != nil {
		return fmt.Errorf("postgres: save report: %w", err)
	}
	return nil
}

// ListAvailableURLs returns the still-available listing URLs for a source.
func (ps *PostgresStore) ListAvailableURLs(ctx context.Context, source string) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT url FROM listings WHERE source = $1 AND is_available ORDER BY id`, source)
	if err != nil {
		return nil, fmt.Errorf("postgres: list urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("postgres: scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// ListListings returns the whole catalog, ordered by id.
func (ps *PostgresStore) ListListings(ctx context.Context) ([]*models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timeArg(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
