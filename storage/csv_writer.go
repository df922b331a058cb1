package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"reid-catalog/models"
)

// CSVWriter exports catalog listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"reid_id", "source", "url", "title", "region", "location", "contract_type",
		"property_type", "leasehold_years", "bedrooms", "bathrooms", "land_size",
		"build_size", "land_zoning", "price", "currency", "availability",
		"is_off_plan", "sold_at", "segment", "listed_date", "scraped_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteListings appends the given listings to the CSV file.
func (c *CSVWriter) WriteListings(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.ReidID,
			l.Source,
			l.URL,
			l.Title,
			l.Region,
			l.Location,
			l.ContractType,
			l.PropertyType,
			csvFloat(l.LeaseholdYears),
			csvFloat(l.Bedrooms),
			csvFloat(l.Bathrooms),
			csvFloat(l.LandSize),
			csvFloat(l.BuildSize),
			l.LandZoning,
			strconv.FormatInt(l.Price, 10),
			l.Currency,
			l.Availability,
			strconv.FormatBool(l.IsOffPlan),
			csvTime(l.SoldAt),
			l.Segment,
			l.ListedDate,
			l.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func csvFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func csvTime(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01-02")
}
