package extract

import (
	"regexp"
	"strings"
)

// Canonical vocabularies. Values outside these sets raise issue tags during
// validation.
var (
	PropertyTypes = []string{"Villa", "House", "Land", "Apartment", "Hotel", "Townhouse", "Commercial", "Loft"}
	ContractTypes = []string{"Freehold", "Leasehold", "Rental"}
)

var contractRegexp = regexp.MustCompile(`(?i)leasehold|freehold|rental`)

// typeKeywords is checked in order; the first keyword present wins.
// "plot" folds into Land, "home" into House.
var typeKeywords = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)apartment|apartement`), "Apartment"},
	{regexp.MustCompile(`(?i)townhouse`), "Townhouse"},
	{regexp.MustCompile(`(?i)townhotel|hotel`), "Hotel"},
	{regexp.MustCompile(`(?i)land|plot`), "Land"},
	{regexp.MustCompile(`(?i)loft`), "Loft"},
	{regexp.MustCompile(`(?i)commercial`), "Commercial"},
	{regexp.MustCompile(`(?i)house|home`), "House"},
	{regexp.MustCompile(`(?i)villa`), "Villa"},
}

// PropertyType classifies text against the property vocabulary. The
// explicit default is Villa: absence of a keyword is a Villa, not a miss.
func PropertyType(text string) string {
	for _, k := range typeKeywords {
		if k.pattern.MatchString(text) {
			return k.canonical
		}
	}
	return "Villa"
}

// ContractType classifies text against the contract vocabulary, defaulting
// to Freehold when no keyword is present.
func ContractType(text string) string {
	switch strings.ToLower(contractRegexp.FindString(text)) {
	case "leasehold":
		return "Leasehold"
	case "rental":
		return "Rental"
	default:
		return "Freehold"
	}
}

// StandardizePropertyType folds a scraped type string onto the canonical
// vocabulary and strips marketing suffixes.
func StandardizePropertyType(propertyType string) string {
	for _, k := range typeKeywords {
		if k.pattern.MatchString(propertyType) {
			return k.canonical
		}
	}
	return strings.ReplaceAll(propertyType, " for Sale", "")
}
