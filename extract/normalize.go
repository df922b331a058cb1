package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRegexp   = regexp.MustCompile(`[0-9.]+`)
	areRegexp      = regexp.MustCompile(`(?i)([0-9.,]+)\s*are`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	rpPrefixRe     = regexp.MustCompile(`^rp\.?`)
	rupiahWordRe   = regexp.MustCompile(`rupia$|rupiah|bersih`)
	trailingZeroRe = regexp.MustCompile(`\.00$`)
	perMeterRe     = regexp.MustCompile(`per(.*?)meter`)
	perTailRe      = regexp.MustCompile(`per$|-$`)
	perTahunRe     = regexp.MustCompile(`per\s*tahun`)
	negoRe         = regexp.MustCompile(`nego|neg$`)
	punctRe        = regexp.MustCompile(`[_()]`)
	perMRe         = regexp.MustCompile(`per m$`)
	jutaPerMeterRe = regexp.MustCompile(`juta(.*?)per(.*?)meter`)
	meterTypoRe    = regexp.MustCompile(`mete$|meteer`)
)

// Number parses a locale-ambiguous numeric string. Separator rules:
// a single comma alongside a single dot makes the dot a thousands mark and
// the comma the decimal mark; a lone comma is decimal, repeated commas are
// thousands; repeated dots are thousands; a lone dot followed by more than
// two digits is a thousands mark.
func Number(text string) (float64, bool) {
	dots := strings.Count(text, ".")
	commas := strings.Count(text, ",")

	switch {
	case commas == 1 && dots == 1:
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	case commas == 1:
		text = strings.ReplaceAll(text, ",", ".")
	case commas > 1:
		text = strings.ReplaceAll(text, ",", "")
	}
	if dots > 1 {
		text = strings.ReplaceAll(text, ".", "")
	}

	match := numberRegexp.FindString(text)
	if match == "" {
		return 0, false
	}
	// a lone dot with a long "fraction" is really a thousands mark
	if i := strings.Index(match, "."); i >= 0 && strings.Count(match, ".") == 1 {
		if len(match)-i-1 > 2 {
			match = strings.ReplaceAll(match, ".", "")
		}
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AreToSQM converts a quantity expressed in "are" to square meters
// (1 are = 100 sqm). Misses when the text carries no are measure.
func AreToSQM(text string) (float64, bool) {
	m := areRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v * 100, true
}

// CleanPriceText strips the vendor noise Indonesian listings wrap around
// prices (rp prefixes, "nego", "per tahun", m2 variants) and keeps only
// the first element of a dash-separated range.
func CleanPriceText(value string) string {
	value = strings.ToLower(value)

	value = strings.ReplaceAll(value, "/", " per ")
	value = whitespaceRe.ReplaceAllString(value, " ")
	value = perTailRe.ReplaceAllString(value, "")

	value = rpPrefixRe.ReplaceAllString(value, "")
	value = rupiahWordRe.ReplaceAllString(value, "")
	value = trailingZeroRe.ReplaceAllString(value, ",00")

	value = strings.ReplaceAll(value, "m2", "meter")
	value = perMRe.ReplaceAllString(value, "permeter")
	value = perMeterRe.ReplaceAllString(value, "permeter")
	value = jutaPerMeterRe.ReplaceAllString(value, "juta permeter")
	value = strings.ReplaceAll(value, "jjuta", "juta")
	value = meterTypoRe.ReplaceAllString(value, "meter")

	value = perTahunRe.ReplaceAllString(value, "pertahun")
	value = strings.ReplaceAll(value, "pertahun", "")

	value = negoRe.ReplaceAllString(value, "")
	value = punctRe.ReplaceAllString(value, "")

	value, _, _ = strings.Cut(value, "-")

	return strings.TrimSpace(value)
}

// CollapseWhitespace trims and squeezes internal whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
