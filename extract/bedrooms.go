package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bedroomsRegexp     = regexp.MustCompile(`(?i)(\d{1,2}) bedrooms?`)
	bedroomSpanRegexp  = regexp.MustCompile(`(?i)\b\d{1,2}.*?bedroom`)
	smallNumberRegexp  = regexp.MustCompile(`\d{1,2}`)
	bedroomWordRegexp  = regexp.MustCompile(`(?i)bedroom`)
	bathroomsRegexp    = regexp.MustCompile(`(?i)(\d{1,2}) bathrooms?`)
)

// Bedrooms extracts a bedroom count written directly as "<n> bedroom(s)".
func Bedrooms(text string) (float64, bool) {
	m := bedroomsRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, _ := strconv.Atoi(m[1])
	return float64(v), true
}

// Bathrooms extracts a bathroom count written as "<n> bathroom(s)".
func Bathrooms(text string) (float64, bool) {
	m := bathroomsRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, _ := strconv.Atoi(m[1])
	return float64(v), true
}

// BedroomsInDescription scans free text for a bedroom count. When several
// numbers sit near the word "bedroom" the one textually closest to it
// wins, so "2 pools and 4 bedroom villa" yields 4.
func BedroomsInDescription(text string) (float64, bool) {
	if !strings.Contains(strings.ToLower(text), "bedroom") {
		return 0, false
	}
	span := bedroomSpanRegexp.FindString(text)
	if span == "" {
		return 0, false
	}
	numbers := smallNumberRegexp.FindAllString(span, -1)
	if len(numbers) == 0 {
		return 0, false
	}
	anchor := bedroomWordRegexp.FindStringIndex(span)[0]

	best := ""
	bestDist := -1
	for _, n := range numbers {
		pos := strings.Index(span, n)
		dist := anchor - pos
		if dist < 0 {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = n
		}
	}
	if best == "" {
		return 0, false
	}
	v, _ := strconv.Atoi(best)
	return float64(v), true
}
