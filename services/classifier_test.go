package services

import (
	"sort"
	"testing"

	"reid-catalog/models"
)

func TestClassifierSegment(t *testing.T) {
	c := NewClassifier(testRegistry())

	tests := []struct {
		name    string
		listing models.Listing
		want    string
	}{
		{"idr luxury", models.Listing{Price: 80_000_000_000, Currency: "IDR", PropertyType: "Villa"}, models.SegmentLuxury},
		{"usd luxury", models.Listing{Price: 5_500_000, Currency: "USD", PropertyType: "Villa"}, models.SegmentLuxury},
		{"luxury land stays luxury", models.Listing{Price: 90_000_000_000, Currency: "IDR", PropertyType: "Land"}, models.SegmentLuxury},
		{"land", models.Listing{Price: 2_000_000_000, Currency: "IDR", PropertyType: "Land"}, models.SegmentLand},
		{"plain villa", models.Listing{Price: 2_000_000_000, Currency: "IDR", PropertyType: "Villa"}, models.SegmentData},
		{"unknown price", models.Listing{Price: models.PriceUnknown, Currency: "USD", PropertyType: "Villa"}, models.SegmentData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Segment(&tt.listing); got != tt.want {
				t.Errorf("Segment = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifierIssues(t *testing.T) {
	c := NewClassifier(testRegistry())

	clean := func() *models.Listing {
		return &models.Listing{
			Title:        "Stunning villa",
			Description:  "A lovely villa",
			Location:     "Canggu",
			Price:        1_500_000_000,
			Currency:     "IDR",
			ContractType: "Freehold",
			PropertyType: "Villa",
			Bedrooms:     fl(3),
			IsAvailable:  true,
		}
	}

	tests := []struct {
		name   string
		mutate func(l *models.Listing)
		want   []string
	}{
		{"clean listing", func(l *models.Listing) {}, nil},
		{"no title", func(l *models.Listing) { l.Title = "" }, []string{"no_title"}},
		{"na title", func(l *models.Listing) { l.Title = "n/a" }, []string{"no_title"}},
		{"no price", func(l *models.Listing) { l.Price = models.PriceUnknown }, []string{"no_price"}},
		{"sold", func(l *models.Listing) { l.IsAvailable = false }, []string{"not_available"}},
		{
			"leasehold without years",
			func(l *models.Listing) { l.ContractType = "Leasehold" },
			[]string{"no_leasehold_years"},
		},
		{
			"too many bedrooms",
			func(l *models.Listing) { l.Bedrooms = fl(14) },
			[]string{"has_more_than_13_bedrooms"},
		},
		{
			"thirteen bedrooms is already too many",
			func(l *models.Listing) { l.Bedrooms = fl(13) },
			[]string{"has_more_than_13_bedrooms"},
		},
		{
			"twelve bedrooms is fine",
			func(l *models.Listing) { l.Bedrooms = fl(12) },
			nil,
		},
		{
			"land with bedrooms and no zoning",
			func(l *models.Listing) { l.PropertyType = "Land" },
			[]string{"land_with_bedrooms", "no_land_zoning"},
		},
		{
			"build exceeds land",
			func(l *models.Listing) { l.LandSize = fl(100); l.BuildSize = fl(150) },
			[]string{"build_size_greater_than_land_size"},
		},
		{
			"strange types",
			func(l *models.Listing) { l.PropertyType = "Castle"; l.ContractType = "Timeshare" },
			[]string{"unknown_property_type", "unknown_contract_type"},
		},
		{
			"bare record",
			func(l *models.Listing) {
				l.Title = ""
				l.Description = ""
				l.Location = ""
				l.Bedrooms = nil
			},
			[]string{"no_title", "no_description", "no_location", "no_bedrooms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := clean()
			tt.mutate(l)
			got := c.Issues(l)
			sort.Strings(got)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Fatalf("Issues = %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("Issues = %v, want %v", got, want)
				}
			}
		})
	}
}
