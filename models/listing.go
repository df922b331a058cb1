package models

import "time"

// Availability states of a catalog listing. A listing is never deleted;
// it transitions to Sold or Delisted instead.
const (
	Available = "Available"
	Sold      = "Sold"
	Delisted  = "Delisted"
)

// Catalog segments computed from (price, currency, property_type).
const (
	SegmentLuxury = "LUXURY LISTINGS"
	SegmentLand   = "ALL LAND"
	SegmentData   = "DATA"
)

// PriceUnknown is the sentinel a source adapter emits when a page carries
// no parseable price. It never overwrites a known price during merge.
const PriceUnknown int64 = -1

// Listing is the durable catalog record for one advertised property,
// keyed by its globally unique URL.
type Listing struct {
	ID             int64
	ReidID         string
	PropertyID     string
	Source         string
	URL            string
	ImageURL       string
	Title          string
	Description    string
	Region         string
	Location       string
	Longitude      *float64
	Latitude       *float64
	LeaseholdYears *float64
	ContractType   string
	PropertyType   string
	ListedDate     string
	Bedrooms       *float64
	Bathrooms      *float64
	BuildSize      *float64
	LandSize       *float64
	LandZoning     string
	Price          int64
	Currency       string
	IsAvailable    bool
	Availability   string
	IsOffPlan      bool
	SoldAt         *time.Time
	Segment        string
	ScrapedAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Change records one field mutation made during a reconciliation pass.
type Change struct {
	Field string
	Old   any
	New   any
}

// FirstOfMonth truncates t to the first instant of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Merge compares the stored listing against an incoming candidate and
// applies the field-specific merge rules, returning the changes made.
//
// Rules, in order:
//   - availability: any non-Available incoming value forces the listing
//     off-market (is_available=false, sold_at=first of the processing
//     month) and short-circuits further handling of that field;
//   - price: the PriceUnknown sentinel never overwrites a known price;
//   - leasehold_years and sold_at are authoritative on every observation
//     and overwrite whenever they differ, even to a lesser value;
//   - every other tracked field fills a missing value or overwrites a
//     differing one, but a populated field is never blanked.
func (l *Listing) Merge(in *Listing, now time.Time) []Change {
	var changes []Change

	change := func(field string, old, new any) {
		changes = append(changes, Change{Field: field, Old: old, New: new})
	}

	// availability short-circuit
	if in.Availability != "" && in.Availability != Available {
		soldAt := FirstOfMonth(now)
		if l.Availability != in.Availability {
			change("availability", l.Availability, in.Availability)
			l.Availability = in.Availability
		}
		if l.IsAvailable {
			l.IsAvailable = false
		}
		if l.SoldAt == nil {
			l.SoldAt = &soldAt
		}
	} else if in.Availability == Available && l.Availability != Available && l.Availability != "" {
		// a relisted property comes back on market
		change("availability", l.Availability, in.Availability)
		l.Availability = Available
		l.IsAvailable = true
		l.SoldAt = nil
	}

	// price sentinel: unknown never clobbers a known price
	if in.Price > 0 && in.Price != l.Price {
		change("price", l.Price, in.Price)
		l.Price = in.Price
	}

	// authoritative fields: overwrite on any difference
	if !floatPtrEqual(l.LeaseholdYears, in.LeaseholdYears) {
		change("leasehold_years", floatPtrValue(l.LeaseholdYears), floatPtrValue(in.LeaseholdYears))
		l.LeaseholdYears = in.LeaseholdYears
	}
	if !timePtrEqual(l.SoldAt, in.SoldAt) && in.SoldAt != nil {
		change("sold_at", l.SoldAt, in.SoldAt)
		l.SoldAt = in.SoldAt
	}

	// fill-if-missing / overwrite-if-different fields
	mergeString(&changes, "currency", &l.Currency, in.Currency)
	mergeString(&changes, "image_url", &l.ImageURL, in.ImageURL)
	mergeString(&changes, "description", &l.Description, in.Description)
	mergeString(&changes, "location", &l.Location, in.Location)
	mergeString(&changes, "contract_type", &l.ContractType, in.ContractType)
	mergeString(&changes, "property_type", &l.PropertyType, in.PropertyType)
	mergeString(&changes, "land_zoning", &l.LandZoning, in.LandZoning)
	mergeString(&changes, "property_id", &l.PropertyID, in.PropertyID)
	mergeString(&changes, "listed_date", &l.ListedDate, in.ListedDate)
	mergeFloat(&changes, "bedrooms", &l.Bedrooms, in.Bedrooms)
	mergeFloat(&changes, "bathrooms", &l.Bathrooms, in.Bathrooms)
	mergeFloat(&changes, "build_size", &l.BuildSize, in.BuildSize)
	mergeFloat(&changes, "land_size", &l.LandSize, in.LandSize)

	if in.IsOffPlan && !l.IsOffPlan {
		change("is_off_plan", l.IsOffPlan, in.IsOffPlan)
		l.IsOffPlan = true
	}

	return changes
}

func mergeString(changes *[]Change, field string, dst *string, in string) {
	if in == "" || in == *dst {
		return
	}
	*changes = append(*changes, Change{Field: field, Old: *dst, New: in})
	*dst = in
}

func mergeFloat(changes *[]Change, field string, dst **float64, in *float64) {
	if in == nil {
		return
	}
	if *dst != nil && **dst == *in {
		return
	}
	old := floatPtrValue(*dst)
	*changes = append(*changes, Change{Field: field, Old: old, New: *in})
	v := *in
	*dst = &v
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
