package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	usdRegexp      = regexp.MustCompile(`(?i)USD\s*([0-9.,]+)`)
	idrRegexp      = regexp.MustCompile(`(?i)IDR\s*([0-9.,]+)`)
	idrTokenRegexp = regexp.MustCompile(`(?i)\bIDR\b|\bRp\b|\bIDR\d+`)
	usdTokenRegexp = regexp.MustCompile(`(?i)\bUSD\b|\bUSD\d+`)

	billionRegexp     = regexp.MustCompile(`[0-9.,]+\s*m\b`)
	bareNumberRegexp  = regexp.MustCompile(`[0-9.,]+`)
	letterRegexp      = regexp.MustCompile(`[a-z]`)
	jutaRegexp        = regexp.MustCompile(`([0-9.,]+)\s*(?:juta|jt)$`)
	ribuRegexp        = regexp.MustCompile(`([0-9.,]+)(?:.*?)ribu$`)
	perMeterNumRe     = regexp.MustCompile(`([0-9.,]+)\s*permeter`)
	jutaPerMeterNumRe = regexp.MustCompile(`([0-9.,]+)\s*(?:juta|jt)\s*permeter`)
	ribuPerMeterNumRe = regexp.MustCompile(`([0-9.,]+)\s*(?:ribu|rb)\s*permeter`)
	perUnitRegexp     = regexp.MustCompile(`/\w+`)
)

// FindUSD returns a USD amount spelled with an explicit "USD" token.
func FindUSD(text string) (int64, bool) {
	m := usdRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	// a dotted USD amount uses dots as thousands marks
	raw = strings.ReplaceAll(raw, ".", "")
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	return 0, false
}

// FindIDR returns an IDR amount spelled with an explicit "IDR" token.
// IDR amounts carry no decimals; dots and commas are both thousands marks.
func FindIDR(text string) (int64, bool) {
	m := idrRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := strings.NewReplacer(",", "", ".", "").Replace(m[1])
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IdentifyCurrency detects the currency token in a price fragment.
func IdentifyCurrency(text string) (string, bool) {
	if idrTokenRegexp.MatchString(text) {
		return "IDR", true
	}
	if usdTokenRegexp.MatchString(text) {
		return "USD", true
	}
	return "", false
}

// RecoverPrice re-extracts an amount from free-form Indonesian price text
// after the explicit currency heuristics missed. It expands the local
// magnitude suffixes: a bare "m" is billions, "juta"/"jt" is millions,
// "ribu"/"rb" is thousands, including their "per meter" variants.
func RecoverPrice(value string) (int64, bool) {
	text := CleanPriceText(value)

	if m := billionRegexp.FindString(text); m != "" && m[0] >= '0' && m[0] <= '9' {
		if v, ok := Number(m); ok {
			return int64(v * 1e9), true
		}
	}
	if m := bareNumberRegexp.FindString(text); m != "" && !letterRegexp.MatchString(text) {
		if v, ok := Number(m); ok {
			return int64(v), true
		}
	}
	if m := jutaRegexp.FindStringSubmatch(text); m != nil {
		if v, ok := Number(m[1]); ok {
			return int64(v * 1e6), true
		}
	}
	if m := ribuRegexp.FindStringSubmatch(text); m != nil {
		if v, ok := Number(m[1]); ok {
			return int64(v * 1e3), true
		}
	}
	if m := jutaPerMeterNumRe.FindStringSubmatch(text); m != nil {
		if v, ok := Number(m[1]); ok {
			return int64(v * 1e6), true
		}
	}
	if m := ribuPerMeterNumRe.FindStringSubmatch(text); m != nil {
		if v, ok := Number(m[1]); ok {
			return int64(v * 1e3), true
		}
	}
	if m := perMeterNumRe.FindStringSubmatch(text); m != nil {
		if v, ok := Number(m[1]); ok {
			return int64(v), true
		}
	}
	return 0, false
}

// Price runs the price chain: explicit IDR token, explicit USD token, then
// free-form recovery with currency detection. A recovered amount with no
// currency token defaults to IDR, the dominant listing currency.
func Price(text string) (int64, string, bool) {
	if v, ok := FindIDR(text); ok {
		return v, "IDR", true
	}
	if v, ok := FindUSD(text); ok {
		return v, "USD", true
	}
	if v, ok := RecoverPrice(text); ok {
		cur, ok := IdentifyCurrency(text)
		if !ok {
			cur = "IDR"
		}
		return v, cur, true
	}
	return 0, "", false
}

// IsPerMeter reports whether the price text quotes a per-square-meter rate.
func IsPerMeter(value string) bool {
	return strings.Contains(CleanPriceText(value), "permeter")
}

// PriceByLandSize expands a per-are quoted price into a whole-parcel price.
// The land size is assumed to be in square meters.
func PriceByLandSize(text string, price int64, landSize float64) (int64, bool) {
	per := perUnitRegexp.FindAllString(text, -1)
	unit := strings.Join(per, " ")
	if strings.Contains(unit, "are") && landSize > 0 {
		return int64(float64(price) * landSize / 100), true
	}
	return 0, false
}
