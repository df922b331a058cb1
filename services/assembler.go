package services

import (
	"strings"
	"time"

	"reid-catalog/extract"
	"reid-catalog/models"
)

// Assemble turns a crawler observation into a catalog candidate. Fields the
// crawler extracted directly are taken as-is; missing ones get a second
// pass over the title and description through the extractor chains. The
// result is ready for reconciliation against the stored record.
func Assemble(obs *models.Observation, now time.Time) *models.Listing {
	title := strings.TrimSpace(obs.Title)
	if strings.EqualFold(title, "N/A") {
		title = ""
	}
	description := extract.CollapseWhitespace(obs.Description)

	l := &models.Listing{
		PropertyID:   obs.PropertyID,
		Source:       obs.Source,
		URL:          obs.URL,
		ImageURL:     obs.ImageURL,
		Title:        title,
		Description:  description,
		Region:       obs.Region,
		Location:     obs.Location,
		Longitude:    obs.Longitude,
		Latitude:     obs.Latitude,
		Bedrooms:     obs.Bedrooms,
		Bathrooms:    obs.Bathrooms,
		LandSize:     obs.LandSize,
		BuildSize:    obs.BuildSize,
		PropertyType: obs.PropertyType,
		ListedDate:   obs.ListedDate,
		ScrapedAt:    obs.ScrapedAt,
	}

	// second-pass extraction reads the raw description: the line-based
	// fallbacks need the original line breaks the stored copy drops
	raw := obs.Description

	assemblePrice(l, obs)
	assembleContract(l, obs, raw, now)
	assembleRooms(l, raw)
	assembleSizes(l, raw)
	assembleType(l, title)

	if l.Location == "" {
		if loc, ok := extract.LocationInDescription(raw); ok {
			l.Location = loc
		} else if loc, ok := extract.LocationInTitle(title); ok {
			l.Location = loc
		}
	}

	if l.ListedDate == "" && obs.RawJSON != "" {
		if t, ok := extract.PublishedDate(obs.RawJSON); ok {
			l.ListedDate = t.Format(extract.ListedDateFormat)
		}
	}

	l.IsOffPlan = extract.IsOffPlan(title, description, obs.Labels)
	l.Availability = extract.FoldAvailability(obs.Labels)
	l.IsAvailable = l.Availability == models.Available

	if zone, ok := extract.LandZoning(raw); ok {
		l.LandZoning = zone
	}

	return l
}

func assemblePrice(l *models.Listing, obs *models.Observation) {
	l.Price = obs.Price
	l.Currency = obs.Currency

	if l.Price == 0 && obs.PriceText != "" {
		cleaned := extract.CleanPriceText(obs.PriceText)
		if price, currency, ok := extract.Price(cleaned); ok {
			l.Price = price
			l.Currency = currency
			if extract.IsPerMeter(cleaned) && obs.LandSize != nil {
				if total, ok := extract.PriceByLandSize(cleaned, price, *obs.LandSize); ok {
					l.Price = total
				}
			}
		}
	}

	// nothing parseable anywhere: record the sentinel, never zero
	if l.Price == 0 {
		l.Price = models.PriceUnknown
	}
	if l.Currency == "" {
		l.Currency = "IDR"
	}
}

func assembleContract(l *models.Listing, obs *models.Observation, raw string, now time.Time) {
	l.ContractType = obs.ContractType
	if l.ContractType == "" {
		l.ContractType = extract.ContractType(l.Title + " " + l.Description)
	}

	l.LeaseholdYears = obs.LeaseholdYears
	if l.LeaseholdYears == nil && strings.EqualFold(l.ContractType, "Leasehold") {
		if years, ok := extract.LeaseYears(raw, now); ok {
			l.LeaseholdYears = &years
		}
	}
}

func assembleRooms(l *models.Listing, description string) {
	if l.Bedrooms == nil {
		if beds, ok := extract.Bedrooms(description); ok {
			l.Bedrooms = &beds
		} else if beds, ok := extract.BedroomsInDescription(description); ok {
			l.Bedrooms = &beds
		}
	}
	if l.Bathrooms == nil {
		if baths, ok := extract.Bathrooms(description); ok {
			l.Bathrooms = &baths
		}
	}
}

func assembleSizes(l *models.Listing, description string) {
	if l.LandSize == nil {
		if size, ok := extract.LandSize(description); ok {
			l.LandSize = &size
		} else if size, ok := extract.LandSizeInDescription(description); ok {
			l.LandSize = &size
		}
	}
	if l.BuildSize == nil {
		if size, ok := extract.BuildSize(description); ok {
			l.BuildSize = &size
		} else if size, ok := extract.BuildSizeInDescription(description); ok {
			l.BuildSize = &size
		}
	}

	// equal land and build size means the source filled both boxes with
	// the plot size; the record is really bare land
	if l.LandSize != nil && l.BuildSize != nil && *l.LandSize == *l.BuildSize {
		l.BuildSize = nil
		l.PropertyType = "Land"
	}
}

func assembleType(l *models.Listing, title string) {
	if l.PropertyType == "Land" {
		return
	}
	if l.PropertyType == "" {
		l.PropertyType = extract.PropertyType(title)
	}
	l.PropertyType = extract.StandardizePropertyType(l.PropertyType)
}
