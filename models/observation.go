package models

import "time"

// Observation is one scrape result for a single listing URL, handed over by
// the crawling collaborator. The raw payload is archived separately; the
// extracted candidates are consumed exactly once by the assembler. A zero
// numeric field means "not extracted", never "zero".
type Observation struct {
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	RawHTML   string    `json:"raw_html,omitempty"`
	RawJSON   string    `json:"raw_json,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`

	// NotFound is set by the crawler when the URL no longer resolves
	// (404 or redirected away). Such observations carry no field data.
	NotFound bool `json:"not_found,omitempty"`

	PropertyID     string   `json:"property_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	PriceText      string   `json:"price_text,omitempty"`
	Price          int64    `json:"price,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	ContractType   string   `json:"contract_type,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`
	LeaseholdYears *float64 `json:"leasehold_years,omitempty"`
	Bedrooms       *float64 `json:"bedrooms,omitempty"`
	Bathrooms      *float64 `json:"bathrooms,omitempty"`
	LandSize       *float64 `json:"land_size,omitempty"`
	BuildSize      *float64 `json:"build_size,omitempty"`
	Region         string   `json:"region,omitempty"`
	Location       string   `json:"location,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	ListedDate     string   `json:"listed_date,omitempty"`

	// Labels collects availability badges and ribbons as scraped
	// ("SOLD", "Leasehold", ...); they feed both the availability fold
	// and the off-plan detector.
	Labels []string `json:"labels,omitempty"`
}
