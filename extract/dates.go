package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePatterns = []struct {
	re       *regexp.Regexp
	monthDay bool // pattern carries a day component
}{
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), true}, // 2023-12-01
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), true},   // 20231201
	{regexp.MustCompile(`(\d{4})/(\d{2})/`), false},       // /2023/11/
}

var yearRegexp = regexp.MustCompile(`^20\d{2}$`)

// ListedDate extracts a listing date from a URL or metadata fragment.
// Accepted shapes are ISO-8601 dates, compact YYYYMMDD, and partial
// YYYY/MM paths (day defaults to 1). A "month" above 12 means the source
// swapped month and day, so they are swapped back.
func ListedDate(src string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		year := m[1]
		if !yearRegexp.MatchString(year) {
			continue
		}
		month := m[2]
		day := "01"
		if p.monthDay {
			day = m[3]
		}
		mo, _ := strconv.Atoi(month)
		if mo > 12 {
			month, day = day, month
			mo, _ = strconv.Atoi(month)
		}
		y, _ := strconv.Atoi(year)
		d, _ := strconv.Atoi(day)
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			continue
		}
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		if t.Day() != d { // day overflowed the month
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// PublishedDate pulls the "datePublished" value out of an embedded JSON-LD
// script block.
var publishedRegexp = regexp.MustCompile(`"datePublished":"([T0-9\-:+]+)"`)

func PublishedDate(script string) (time.Time, bool) {
	m := publishedRegexp.FindStringSubmatch(script)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, m[1])
	if err != nil {
		// some sources omit the zone offset
		t, err = time.Parse("2006-01-02T15:04:05", m[1])
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// TimeAgo resolves a relative "3 weeks ago" fragment against now.
func TimeAgo(text string, now time.Time) (time.Time, bool) {
	v, ok := Number(text)
	if !ok {
		return time.Time{}, false
	}
	n := int(v)
	switch {
	case strings.Contains(text, "year"):
		return now.AddDate(0, 0, -n*365), true
	case strings.Contains(text, "month"):
		return now.AddDate(0, 0, -n*30), true
	case strings.Contains(text, "week"):
		return now.AddDate(0, 0, -n*7), true
	case strings.Contains(text, "day"):
		return now.AddDate(0, 0, -n), true
	}
	return time.Time{}, false
}

// ListedDateFormat is the wire format catalog records carry for list dates.
const ListedDateFormat = "01/02/06"
