package extract

import "testing"

func TestIsOffPlan(t *testing.T) {
	tests := []struct {
		title  string
		desc   string
		labels []string
		want   bool
	}{
		{"Off plan villa in Berawa", "", nil, true},
		{"Modern villa", "currently under construction, ready 2026", nil, true},
		{"Modern villa", "", []string{"OFF-PLAN"}, true},
		// spacing variants collapse to the canonical token
		{"Off the plan development", "", nil, true},
		{"Completed villa", "move-in ready", nil, false},
	}

	for _, tt := range tests {
		if got := IsOffPlan(tt.title, tt.desc, tt.labels); got != tt.want {
			t.Errorf("IsOffPlan(%q, %q, %v) = %v; want %v", tt.title, tt.desc, tt.labels, got, tt.want)
		}
	}
}

func TestFoldAvailability(t *testing.T) {
	tests := []struct {
		labels []string
		want   string
	}{
		{[]string{"Leasehold", "SOLD OUT"}, "Sold"},
		{[]string{"delisted"}, "Delisted"},
		{[]string{"Sold", "Delisted"}, "Sold"}, // sold wins
		{[]string{"Leasehold"}, "Available"},
		{nil, "Available"},
	}

	for _, tt := range tests {
		if got := FoldAvailability(tt.labels); got != tt.want {
			t.Errorf("FoldAvailability(%v) = %q; want %q", tt.labels, got, tt.want)
		}
	}
}
