package extract

import (
	"testing"
	"time"
)

var leaseNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestLeaseYearsExpiry(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"leasehold until 2045", 20, true},
		{"Lease expires 2030", 5, true},
		{"Freehold villa with pool", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := LeaseYears(tt.raw, leaseNow)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LeaseYears(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLeaseYearsShortForm(t *testing.T) {
	got, ok := LeaseYears("25 years leasehold", leaseNow)
	if !ok || got != 25 {
		t.Errorf("LeaseYears short form = %v, %v; want 25, true", got, ok)
	}
}

// When both a four-digit expiry and a two-digit count are present, the
// expiry strategy runs first and wins, regardless of which is larger.
func TestLeaseYearsChainPriority(t *testing.T) {
	got, ok := LeaseYears("Leasehold 25 years, until 2045", leaseNow)
	if !ok || got != 20 {
		t.Errorf("LeaseYears chain priority = %v, %v; want 20, true", got, ok)
	}
}

func TestLeaseYearsDependsOnProcessingTime(t *testing.T) {
	later := leaseNow.AddDate(5, 0, 0)
	got, ok := LeaseYears("leasehold until 2045", later)
	if !ok || got != 15 {
		t.Errorf("LeaseYears in 2030 = %v, %v; want 15, true", got, ok)
	}
}

func TestLeaseYearsBahasa(t *testing.T) {
	got, ok := LeaseYears("harga 3 M untuk 25 tahun", leaseNow)
	if !ok || got != 25 {
		t.Errorf("LeaseYears bahasa = %v, %v; want 25, true", got, ok)
	}
}

func TestLeaseYearsShortFormBeatsSentenceScan(t *testing.T) {
	text := "First plot lease of 10 years.\nSecond option extends the lease 30 years total"
	got, ok := LeaseYears(text, leaseNow)
	if !ok || got != 10 {
		t.Errorf("LeaseYears = %v, %v; want 10, true", got, ok)
	}
}

// The sentence scan only runs when no number sits directly next to
// "year(s)"; it then collects every candidate and keeps the largest.
func TestLeaseYearsSentenceScan(t *testing.T) {
	text := "Remaining lease period: 28, renewable yearly.\nLease guarantee deposit 5"
	got, ok := LeaseYears(text, leaseNow)
	if !ok || got != 28 {
		t.Errorf("LeaseYears sentence scan = %v, %v; want 28, true", got, ok)
	}
}
