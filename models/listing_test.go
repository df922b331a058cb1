package models

import (
	"testing"
	"time"
)

var mergeNow = time.Date(2025, 7, 18, 10, 30, 0, 0, time.UTC)

func fl(v float64) *float64 { return &v }

func baseListing() *Listing {
	return &Listing{
		URL:          "https://kibarer.com/p/1",
		Source:       "Kibarer",
		Title:        "Stunning villa in Canggu",
		Price:        1500000000,
		Currency:     "IDR",
		ContractType: "Freehold",
		PropertyType: "Villa",
		Bedrooms:     fl(3),
		IsAvailable:  true,
		Availability: Available,
	}
}

func TestMergeIdempotent(t *testing.T) {
	l := baseListing()
	in := baseListing()

	if changes := l.Merge(in, mergeNow); len(changes) != 0 {
		t.Fatalf("first identical merge produced changes: %+v", changes)
	}
	if changes := l.Merge(in, mergeNow); len(changes) != 0 {
		t.Fatalf("repeated merge produced changes: %+v", changes)
	}
}

func TestMergePriceSentinel(t *testing.T) {
	l := baseListing()
	in := baseListing()
	in.Price = PriceUnknown

	if changes := l.Merge(in, mergeNow); len(changes) != 0 {
		t.Fatalf("sentinel merge produced changes: %+v", changes)
	}
	if l.Price != 1500000000 {
		t.Errorf("price = %d, want 1500000000 untouched", l.Price)
	}

	in.Price = 1600000000
	changes := l.Merge(in, mergeNow)
	if len(changes) != 1 || changes[0].Field != "price" {
		t.Fatalf("real price change: got %+v", changes)
	}
	if l.Price != 1600000000 {
		t.Errorf("price = %d, want 1600000000", l.Price)
	}
}

func TestMergeAvailabilityTransition(t *testing.T) {
	l := baseListing()
	in := baseListing()
	in.Availability = Sold

	changes := l.Merge(in, mergeNow)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want exactly 1: %+v", len(changes), changes)
	}
	if changes[0].Field != "availability" {
		t.Errorf("change field = %s, want availability", changes[0].Field)
	}
	if l.IsAvailable {
		t.Error("listing should be off-market")
	}
	if l.Availability != Sold {
		t.Errorf("availability = %s, want Sold", l.Availability)
	}
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if l.SoldAt == nil || !l.SoldAt.Equal(want) {
		t.Errorf("sold_at = %v, want %v", l.SoldAt, want)
	}

	// the same observation again changes nothing and keeps sold_at
	if changes := l.Merge(in, mergeNow.AddDate(0, 1, 0)); len(changes) != 0 {
		t.Fatalf("repeated sold merge produced changes: %+v", changes)
	}
	if !l.SoldAt.Equal(want) {
		t.Errorf("sold_at moved to %v, want %v", l.SoldAt, want)
	}
}

func TestMergeRelist(t *testing.T) {
	l := baseListing()
	sold := baseListing()
	sold.Availability = Sold
	l.Merge(sold, mergeNow)

	in := baseListing()
	changes := l.Merge(in, mergeNow.AddDate(0, 2, 0))
	if len(changes) != 1 || changes[0].Field != "availability" {
		t.Fatalf("relist: got %+v", changes)
	}
	if !l.IsAvailable || l.Availability != Available {
		t.Errorf("relist left availability %s / %v", l.Availability, l.IsAvailable)
	}
	if l.SoldAt != nil {
		t.Errorf("relist kept sold_at %v", l.SoldAt)
	}
}

func TestMergeLeaseholdYearsAuthoritative(t *testing.T) {
	l := baseListing()
	l.ContractType = "Leasehold"
	l.LeaseholdYears = fl(25)

	in := baseListing()
	in.ContractType = "Leasehold"
	in.LeaseholdYears = fl(24)

	changes := l.Merge(in, mergeNow)
	if len(changes) != 1 || changes[0].Field != "leasehold_years" {
		t.Fatalf("got %+v", changes)
	}
	if *l.LeaseholdYears != 24 {
		t.Errorf("leasehold_years = %v, want 24 even though smaller", *l.LeaseholdYears)
	}
}

func TestMergeNeverBlanksPopulatedFields(t *testing.T) {
	l := baseListing()
	l.Description = "Tropical living at its finest"
	l.Location = "Canggu"
	l.Bathrooms = fl(2)

	in := baseListing()
	in.Description = ""
	in.Location = ""
	in.Bathrooms = nil

	if changes := l.Merge(in, mergeNow); len(changes) != 0 {
		t.Fatalf("empty incoming fields produced changes: %+v", changes)
	}
	if l.Description == "" || l.Location == "" || l.Bathrooms == nil {
		t.Error("populated fields were blanked")
	}
}

func TestMergeFillsAndOverwrites(t *testing.T) {
	l := baseListing()
	in := baseListing()
	in.Location = "Ubud"
	in.Bathrooms = fl(2)
	in.LandSize = fl(350)

	changes := l.Merge(in, mergeNow)
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3: %+v", len(changes), changes)
	}
	if l.Location != "Ubud" || *l.Bathrooms != 2 || *l.LandSize != 350 {
		t.Errorf("fill results: location=%s bathrooms=%v land=%v", l.Location, l.Bathrooms, l.LandSize)
	}
}

func TestMergeOffPlanOnlyTurnsOn(t *testing.T) {
	l := baseListing()
	in := baseListing()
	in.IsOffPlan = true

	if changes := l.Merge(in, mergeNow); len(changes) != 1 {
		t.Fatalf("got %+v", changes)
	}

	in.IsOffPlan = false
	if changes := l.Merge(in, mergeNow); len(changes) != 0 {
		t.Fatalf("off-plan flag reverted: %+v", changes)
	}
	if !l.IsOffPlan {
		t.Error("off-plan flag should stay on")
	}
}

func TestFirstOfMonth(t *testing.T) {
	got := FirstOfMonth(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC))
	want := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FirstOfMonth = %v, want %v", got, want)
	}
}
