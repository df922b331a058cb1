package extract

import "testing"

func TestNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.500.000.000", 1500000000, true},
		{"1,234,567", 1234567, true},
		{"1.234,56", 1234.56, true},
		{"2,5", 2.5, true},
		{"3.5", 3.5, true},
		{"1.500", 1500, true},
		{"350", 350, true},
		{"no digits here", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Number(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAreToSQM(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"3.5 are", 350, true},
		{"10 are", 1000, true},
		{"2,25 are", 225, true},
		{"200 sqm", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := AreToSQM(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AreToSQM(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanPriceText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Rp. 500 juta nego", "500 juta"},
		{"2 juta / m2", "2 juta permeter"},
		{"1,5 M - 2 M", "1,5 m"},
		{"3 juta per tahun", "3 juta"},
	}

	for _, tt := range tests {
		if got := CleanPriceText(tt.raw); got != tt.want {
			t.Errorf("CleanPriceText(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  Private   Pool\n Villa  "); got != "Private Pool Villa" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
