package services

import (
	"strings"

	"reid-catalog/config"
	"reid-catalog/extract"
	"reid-catalog/models"
)

// Classifier computes the catalog segment and the structural issue set of
// a listing. Both are recomputed on every successful write.
type Classifier struct {
	registry *config.Registry
}

func NewClassifier(registry *config.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Segment buckets a listing by price and property type. Luxury wins over
// land so a luxury land deal reports with the luxury inventory.
func (c *Classifier) Segment(l *models.Listing) string {
	switch {
	case l.Currency == "IDR" && l.Price >= c.registry.LuxuryIDR:
		return models.SegmentLuxury
	case l.Currency == "USD" && l.Price >= c.registry.LuxuryUSD:
		return models.SegmentLuxury
	case l.PropertyType == "Land":
		return models.SegmentLand
	default:
		return models.SegmentData
	}
}

// Issues returns the names of every structural problem the listing
// currently exhibits. The names are stable; they become issue tags and a
// vanished name marks its tag solved.
func (c *Classifier) Issues(l *models.Listing) []string {
	var issues []string
	add := func(name string, triggered bool) {
		if triggered {
			issues = append(issues, name)
		}
	}

	isLand := l.PropertyType == "Land"

	add("no_title", l.Title == "" || strings.EqualFold(l.Title, "N/A"))
	add("no_description", l.Description == "")
	add("no_price", l.Price <= 0)
	add("no_location", l.Location == "")
	add("not_available", !l.IsAvailable)
	add("unknown_property_type", !knownPropertyType(l.PropertyType))
	add("unknown_contract_type", !knownContractType(l.ContractType))
	add("no_leasehold_years", strings.EqualFold(l.ContractType, "Leasehold") && l.LeaseholdYears == nil)
	add("no_bedrooms", !isLand && l.Bedrooms == nil)
	add("has_more_than_13_bedrooms", l.Bedrooms != nil && *l.Bedrooms >= 13)
	add("land_with_bedrooms", isLand && l.Bedrooms != nil && *l.Bedrooms > 0)
	add("build_size_greater_than_land_size",
		l.BuildSize != nil && l.LandSize != nil && *l.BuildSize > *l.LandSize)
	add("no_land_zoning", isLand && l.LandZoning == "")

	return issues
}

func knownPropertyType(propertyType string) bool {
	for _, known := range extract.PropertyTypes {
		if propertyType == known {
			return true
		}
	}
	return false
}

func knownContractType(contractType string) bool {
	for _, known := range extract.ContractTypes {
		if strings.EqualFold(contractType, known) {
			return true
		}
	}
	return false
}
