package extract

import (
	"regexp"
	"strings"
)

// sizePattern pairs a regexp with the index of its value capture group.
type sizePattern struct {
	re    *regexp.Regexp
	group int
}

var (
	landPatterns = []sizePattern{
		{regexp.MustCompile(`(land size|luas tanah|land area|total area).*?([0-9.,]+)\s*(m2|sqm|sq\. meter|square meter|are)`), 2},
		{regexp.MustCompile(`([0-9.,]+)\s*(sqm of land|square meter(s)? of land|sqm|are)`), 1},
	}
	buildPatterns = []sizePattern{
		{regexp.MustCompile(`build(ing)? size.*?([0-9.,]+)\s*(m2|m²|sqm|are)?`), 2},
		{regexp.MustCompile(`build(ing)?\s*([0-9.,]+)\s*(m2|m²|sqm|are)?`), 2},
		{regexp.MustCompile(`([0-9.,]+)\s*(sqm built area|square meter(s)? build|sqm|are)`), 1},
		{regexp.MustCompile(`([0-9.,]+) sqm building size`), 1},
	}

	sizeLineRegexp  = regexp.MustCompile(`\b([0-9.,]+)\s*(sqm|m2|are)\b`)
	buildLineRegexp = regexp.MustCompile(`(?:[Vv]illa|[Bb]uilding).*?([0-9.,]+)\s*(sqm|m2|are)`)
)

// LandSize extracts a land size in square meters from "land size" style
// vocabulary. Quantities suffixed "are" are converted to sqm.
func LandSize(text string) (float64, bool) {
	return findSize(strings.ToLower(text), landPatterns)
}

// BuildSize extracts a building size in square meters from "building size"
// style vocabulary.
func BuildSize(text string) (float64, bool) {
	return findSize(strings.ToLower(text), buildPatterns)
}

func findSize(text string, patterns []sizePattern) (float64, bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[p.group]
		v, ok := Number(raw)
		if !ok {
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(m[0]), "are") {
			v *= 100
		}
		return v, true
	}
	return 0, false
}

// LandSizeInDescription is the description fallback for land size: it scans
// lines mentioning land-size vocabulary for a measured quantity, returning
// the single match or, when several numbers compete, the largest.
func LandSizeInDescription(text string) (float64, bool) {
	hasKeyword := func(line string) bool {
		l := strings.ToLower(line)
		return strings.Contains(l, "landsize") ||
			strings.Contains(l, "land size") ||
			strings.Contains(l, "land for sale")
	}
	var results []float64
	for _, line := range strings.Split(text, "\n") {
		if !hasKeyword(line) {
			continue
		}
		matches := sizeLineRegexp.FindAllStringSubmatch(line, -1)
		var values []float64
		for _, m := range matches {
			if v, ok := Number(m[1]); ok {
				if m[2] == "are" {
					v *= 100
				}
				values = append(values, v)
			}
		}
		if len(values) == 1 {
			return values[0], true
		}
		results = append(results, values...)
	}
	max := 0.0
	for _, v := range results {
		if v > max {
			max = v
		}
	}
	return max, max > 0
}

// BuildSizeInDescription is the description fallback for build size: a
// measured quantity on a line led by "villa" or "building".
func BuildSizeInDescription(text string) (float64, bool) {
	for _, line := range strings.Split(text, "\n") {
		m := buildLineRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v, ok := Number(m[1]); ok {
			if m[2] == "are" {
				v *= 100
			}
			return v, true
		}
	}
	return 0, false
}
