package extract

import (
	"regexp"
	"strings"
)

var (
	locationLineRegexp  = regexp.MustCompile(`location:\s*(\w+)\b`)
	locationTitleRegexp = regexp.MustCompile(`(?i)\bin (\w+)`)
)

// LocationInDescription finds a "Location: Canggu" style line and returns
// the place name with its original casing.
func LocationInDescription(description string) (string, bool) {
	lower := strings.ToLower(description)
	m := locationLineRegexp.FindStringSubmatchIndex(lower)
	if m == nil {
		return "", false
	}
	// re-find the name in the lowered text so the slice into the original
	// string keeps the source casing
	name := lower[m[2]:m[3]]
	at := strings.Index(lower, name)
	if at < 0 {
		return "", false
	}
	return description[at : at+len(name)], true
}

// LocationInTitle extracts the place from an "… in Ubud" style title.
func LocationInTitle(title string) (string, bool) {
	m := locationTitleRegexp.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return titleCase(m[1]), true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
