package extract

import (
	"regexp"
	"strings"
)

// Zoning vocabulary: Bali land listings state zoning either by plan color
// or by category word. Colors are checked first, matching the stricter
// convention of the zoning maps.
var (
	zoningColors = []struct{ color, zone string }{
		{"dark green", "Green"},
		{"yellow", "Residential"},
		{"red", "Commercial"},
		{"pink", "Tourism"},
		{"green", "Agricultural"},
		{"orange", "Sacred"},
		{"grey", "Industrial"},
		{"blue", "Special"},
	}
	zoningCategories = []struct{ word, zone string }{
		{"residential", "Residential"},
		{"commercial", "Commercial"},
		{"tourism", "Tourism"},
	}

	zoningLineRegexp = regexp.MustCompile(`(?i)^zoning`)
	colonNewlineRe   = regexp.MustCompile(`\n:+\n`)
	afterColonRe     = regexp.MustCompile(`(?m)(:)\n+`)
)

// LandZoning scans a land listing description for zoning statements and
// maps them onto the canonical zone names.
func LandZoning(description string) (string, bool) {
	var collected []string
	for _, stc := range zoningSentences(description) {
		if zoningLineRegexp.MatchString(strings.TrimSpace(stc)) {
			collected = append(collected, stc)
		}
	}
	if len(collected) == 0 {
		return "", false
	}
	for _, c := range zoningColors {
		for _, stc := range collected {
			if strings.Contains(stc, c.color) {
				return c.zone, true
			}
		}
	}
	for _, z := range zoningCategories {
		for _, stc := range collected {
			if strings.Contains(stc, z.word) {
				return z.zone, true
			}
		}
	}
	return "", false
}

// zoningSentences splits the description into sentence fragments, first
// gluing "Zoning:\nTourism" style breaks back onto one line.
func zoningSentences(text string) []string {
	if text == "" {
		return nil
	}
	text = colonNewlineRe.ReplaceAllString(text, ":")
	text = afterColonRe.ReplaceAllString(text, "$1 ")
	text = strings.ToLower(text)

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.Split(line, ".")...)
	}
	return out
}
