package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"reid-catalog/models"
)

func newListing(url, source string, price int64) *models.Listing {
	return &models.Listing{
		URL:          url,
		Source:       source,
		Price:        price,
		Currency:     "IDR",
		ContractType: "Freehold",
		IsAvailable:  true,
		Availability: models.Available,
		ScrapedAt:    time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestInsertListingAllocatesSequence(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for i, want := range []string{"REID_25_06_KIBR_001", "REID_25_06_KIBR_002", "REID_25_06_KIBR_003"} {
		l := newListing(fmt.Sprintf("https://kibarer.com/p/%d", i), "Kibarer", 1000)
		if err := ms.InsertListing(ctx, l, "REID_25_06_KIBR"); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if l.ReidID != want {
			t.Errorf("listing %d: ReidID = %q, want %q", i, l.ReidID, want)
		}
	}

	// a different scope gets its own counter
	other := newListing("https://lazudi.com/p/1", "Lazudi", 1000)
	if err := ms.InsertListing(ctx, other, "REID_25_06_LAZD"); err != nil {
		t.Fatalf("insert other scope: %v", err)
	}
	if other.ReidID != "REID_25_06_LAZD_001" {
		t.Errorf("other scope ReidID = %q, want REID_25_06_LAZD_001", other.ReidID)
	}
}

func TestInsertListingConcurrentAllocation(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := newListing(fmt.Sprintf("https://kibarer.com/p/%d", i), "Kibarer", 1000)
			if err := ms.InsertListing(ctx, l, "REID_25_06_KIBR"); err != nil {
				t.Errorf("insert %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	listings, err := ms.ListListings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool, n)
	for _, l := range listings {
		if seen[l.ReidID] {
			t.Fatalf("duplicate ReidID allocated: %s", l.ReidID)
		}
		seen[l.ReidID] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct IDs, want %d", len(seen), n)
	}
}

func TestInsertListingDuplicateURL(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	l := newListing("https://kibarer.com/p/1", "Kibarer", 1000)
	if err := ms.InsertListing(ctx, l, "REID_25_06_KIBR"); err != nil {
		t.Fatal(err)
	}
	again := newListing("https://kibarer.com/p/1", "Kibarer", 2000)
	if err := ms.InsertListing(ctx, again, "REID_25_06_KIBR"); err != ErrConflict {
		t.Fatalf("second insert err = %v, want ErrConflict", err)
	}
}

func TestMergeListingPersistsChanges(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	l := newListing("https://kibarer.com/p/1", "Kibarer", 1000)
	if err := ms.InsertListing(ctx, l, "REID_25_06_KIBR"); err != nil {
		t.Fatal(err)
	}

	changes, err := ms.MergeListing(ctx, l.URL, func(cur *models.Listing) []models.Change {
		cur.Price = 2000
		return []models.Change{{Field: "price", Old: int64(1000), New: int64(2000)}}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}

	got, err := ms.GetListing(ctx, l.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 2000 {
		t.Errorf("price after merge = %d, want 2000", got.Price)
	}

	if _, err := ms.MergeListing(ctx, "https://kibarer.com/missing", func(cur *models.Listing) []models.Change {
		return nil
	}); err != ErrNotFound {
		t.Fatalf("merge of missing URL err = %v, want ErrNotFound", err)
	}
}

func TestFindDuplicate(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	beds := 3.0

	a := newListing("https://kibarer.com/p/1", "Kibarer", 1500000000)
	a.Bedrooms = &beds
	b := newListing("https://lazudi.com/p/9", "Lazudi", 1500000000)
	b.Bedrooms = &beds
	c := newListing("https://kibarer.com/p/2", "Kibarer", 1500000000)
	c.Bedrooms = &beds

	for _, l := range []*models.Listing{a, b, c} {
		prefix := "REID_25_06_KIBR"
		if l.Source == "Lazudi" {
			prefix = "REID_25_06_LAZD"
		}
		if err := ms.InsertListing(ctx, l, prefix); err != nil {
			t.Fatal(err)
		}
	}

	// cross-source pass finds the Lazudi twin
	got, err := ms.FindDuplicate(ctx, Key(a), a.Source, a.URL, false)
	if err != nil {
		t.Fatalf("cross-source: %v", err)
	}
	if got.URL != b.URL {
		t.Errorf("cross-source match = %s, want %s", got.URL, b.URL)
	}

	// same-source pass finds the other Kibarer page, never the page itself
	got, err = ms.FindDuplicate(ctx, Key(a), a.Source, a.URL, true)
	if err != nil {
		t.Fatalf("same-source: %v", err)
	}
	if got.URL != c.URL {
		t.Errorf("same-source match = %s, want %s", got.URL, c.URL)
	}

	// a differing tuple never matches
	other := Key(a)
	other.Price = 99
	if _, err := ms.FindDuplicate(ctx, other, a.Source, a.URL, false); err != ErrNotFound {
		t.Fatalf("mismatched tuple err = %v, want ErrNotFound", err)
	}
}

func TestInsertDuplicateConflict(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	pair := &models.DuplicateListing{SourceURL: "a", DuplicateURL: "b"}
	if err := ms.InsertDuplicate(ctx, pair); err != nil {
		t.Fatal(err)
	}
	if err := ms.InsertDuplicate(ctx, pair); err != ErrConflict {
		t.Fatalf("repeat insert err = %v, want ErrConflict", err)
	}
	// the reversed pair is a distinct row
	if err := ms.InsertDuplicate(ctx, &models.DuplicateListing{SourceURL: "b", DuplicateURL: "a"}); err != nil {
		t.Fatalf("reversed pair: %v", err)
	}
}

func TestSyncTags(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	url := "https://kibarer.com/p/1"

	if err := ms.SyncTags(ctx, url, []string{"no_price", "no_location"}); err != nil {
		t.Fatal(err)
	}
	if err := ms.SyncTags(ctx, url, []string{"no_price"}); err != nil {
		t.Fatal(err)
	}

	tags, err := ms.ListTags(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	byName := map[string]*models.Tag{}
	for _, tag := range tags {
		byName[tag.Name] = tag
	}
	if byName["no_price"].IsSolved {
		t.Error("no_price should still be open")
	}
	if !byName["no_location"].IsSolved {
		t.Error("no_location should be marked solved")
	}

	// a solved tag reopens when the issue returns
	if err := ms.SyncTags(ctx, url, []string{"no_location"}); err != nil {
		t.Fatal(err)
	}
	tags, _ = ms.ListTags(ctx, url)
	for _, tag := range tags {
		if tag.Name == "no_location" && tag.IsSolved {
			t.Error("no_location should have reopened")
		}
	}
}

func TestErrorRecords(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	url := "https://kibarer.com/p/1"

	e := &models.ErrorRecord{URL: url, Origin: "assemble", Message: "no price found"}
	if err := ms.RecordError(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := ms.RecordError(ctx, e); err != nil {
		t.Fatalf("repeat record should be silent: %v", err)
	}
	if err := ms.ClearErrors(ctx, url); err != nil {
		t.Fatal(err)
	}
}

func TestTrailingSequence(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"REID_25_06_KIBR_001", 1, true},
		{"REID_25_06_KIBR_012", 12, true},
		{"REID_25_06_KIBR_999", 999, true},
		// sequences keep counting numerically past the padded width
		{"REID_25_06_KIBR_1000", 1000, true},
		{"REID_25_06_KIBR_", 0, false},
		{"no-separator", 0, false},
	}

	for _, tt := range tests {
		got, ok := trailingSequence(tt.id)
		if got != tt.want || ok != tt.ok {
			t.Errorf("trailingSequence(%q) = %d, %v; want %d, %v", tt.id, got, ok, tt.want, tt.ok)
		}
	}
}

func TestListAvailableURLs(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	a := newListing("https://kibarer.com/p/1", "Kibarer", 1000)
	b := newListing("https://kibarer.com/p/2", "Kibarer", 2000)
	b.IsAvailable = false
	c := newListing("https://lazudi.com/p/1", "Lazudi", 3000)

	for _, l := range []*models.Listing{a, b, c} {
		if err := ms.InsertListing(ctx, l, "REID_25_06_XXXX"); err != nil {
			t.Fatal(err)
		}
	}

	urls, err := ms.ListAvailableURLs(ctx, "Kibarer")
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != "https://kibarer.com/p/1" {
		t.Errorf("urls = %v, want only the available Kibarer listing", urls)
	}
}

func TestArchiveRawCompensation(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	id, err := ms.ArchiveRaw(ctx, &models.RawData{URL: "https://kibarer.com/p/1", HTML: "<html/>"})
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("archive id should be non-zero")
	}
	if err := ms.DeleteRaw(ctx, id); err != nil {
		t.Fatal(err)
	}
}
