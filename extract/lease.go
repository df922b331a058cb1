package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	expiryYearRegexp  = regexp.MustCompile(`\b(20\d{2})\b`)
	shortYearsRegexp  = regexp.MustCompile(`\b(\d{1,2})\s*years?\b`)
	leaseWordRegexp   = regexp.MustCompile(`(?i)lease|year`)
	bahasaLeaseRegexp = regexp.MustCompile(`(?i)harga(.*?)\d{1,2}(.*?)(?:utk|untuk)(.*?)(\d{1,2})\s*tahun`)
	twoDigitRegexp    = regexp.MustCompile(`\b\d{1,2}\b`)
	fourDigitRegexp   = regexp.MustCompile(`\b\d{4}\b`)
	groupedNumRegexp  = regexp.MustCompile(`[0-9,.]+`)
)

// LeaseYears extracts the remaining leasehold years from free text. Four
// independent strategies run in fixed order and the first positive result
// wins; expiry years are converted to "years remaining" against now, so
// the result depends on the processing time, not a fixed epoch:
//
//  1. a four-digit expiry year in a sentence mentioning lease/year;
//  2. a small number directly followed by "year(s)";
//  3. a sentence-by-sentence scan collecting both forms, keeping the max;
//  4. the bahasa "harga ... untuk N tahun" pattern.
func LeaseYears(text string, now time.Time) (float64, bool) {
	v, ok := firstOf(text,
		func(s string) (int, bool) { return leaseExpiryYear(s, now) },
		leaseShortYears,
		func(s string) (int, bool) { return leaseSentenceScan(s, now) },
		leaseBahasa,
	)
	if !ok {
		return 0, false
	}
	return float64(v), true
}

// leaseExpiryYear finds "leasehold until 2045" style expiries.
func leaseExpiryYear(text string, now time.Time) (int, bool) {
	for _, stc := range sentences(text) {
		if !leaseWordRegexp.MatchString(stc) {
			continue
		}
		m := expiryYearRegexp.FindStringSubmatch(stc)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if year > now.Year() {
			return year - now.Year(), true
		}
	}
	return 0, false
}

// leaseShortYears finds "25 years" style remaining terms.
func leaseShortYears(text string) (int, bool) {
	m := shortYearsRegexp.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	v, _ := strconv.Atoi(m[1])
	return v, v > 0
}

// leaseSentenceScan collects every candidate in lease-related sentences,
// both expiry years and direct counts, and returns the maximum found.
func leaseSentenceScan(text string, now time.Time) (int, bool) {
	var years []int
	for _, stc := range sentences(text) {
		hasYear := strings.Contains(stc, "year")
		hasLease := strings.Contains(stc, "lease")
		if !hasYear && !hasLease {
			continue
		}
		stc = squashGroupedNumbers(stc)
		for _, m := range fourDigitRegexp.FindAllString(stc, -1) {
			if !strings.HasPrefix(m, "2") {
				continue
			}
			y, _ := strconv.Atoi(m)
			years = append(years, y-now.Year())
		}
		if hasYear {
			for _, m := range twoDigitRegexp.FindAllString(stc, -1) {
				v, _ := strconv.Atoi(m)
				years = append(years, v)
			}
		}
	}
	max := 0
	for _, y := range years {
		if y > max {
			max = y
		}
	}
	return max, max > 0
}

func leaseBahasa(text string) (int, bool) {
	text = strings.ReplaceAll(text, "\n", " ")
	m := bahasaLeaseRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[4])
	if err != nil {
		return 0, false
	}
	return v, v > 0
}

// sentences lowercases the text and splits it on newlines and full stops.
func sentences(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		out = append(out, strings.Split(line, ".")...)
	}
	return out
}

// squashGroupedNumbers removes thousands separators so "2,045" and the
// plain "2045" read identically.
func squashGroupedNumbers(text string) string {
	return groupedNumRegexp.ReplaceAllStringFunc(text, func(m string) string {
		return strings.NewReplacer(",", "", ".", "").Replace(m)
	})
}
