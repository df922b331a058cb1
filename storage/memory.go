package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"reid-catalog/models"
)

// MemoryStore is an in-memory Store used by tests and dry runs. A single
// mutex guards all maps, which also serializes ID allocation per prefix.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	nextRawID  int64
	listings   map[string]*models.Listing // keyed by URL
	sequences  map[string]int             // keyed by ID prefix
	duplicates map[string]*models.DuplicateListing
	tags       map[string]*models.Tag // keyed by url+"\x00"+name
	errs       map[string]*models.ErrorRecord
	raws       map[int64]*models.RawData
	reports    []*models.Report
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings:   make(map[string]*models.Listing),
		sequences:  make(map[string]int),
		duplicates: make(map[string]*models.DuplicateListing),
		tags:       make(map[string]*models.Tag),
		errs:       make(map[string]*models.ErrorRecord),
		raws:       make(map[int64]*models.RawData),
	}
}

func (ms *MemoryStore) GetListing(_ context.Context, url string) (*models.Listing, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	l, ok := ms.listings[url]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (ms *MemoryStore) InsertListing(_ context.Context, l *models.Listing, idPrefix string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.listings[l.URL]; ok {
		return ErrConflict
	}

	ms.sequences[idPrefix]++
	l.ReidID = fmt.Sprintf("%s_%03d", idPrefix, ms.sequences[idPrefix])

	ms.nextID++
	l.ID = ms.nextID
	cp := *l
	ms.listings[l.URL] = &cp
	return nil
}

func (ms *MemoryStore) MergeListing(_ context.Context, url string, merge func(l *models.Listing) []models.Change) ([]models.Change, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	l, ok := ms.listings[url]
	if !ok {
		return nil, ErrNotFound
	}
	return merge(l), nil
}

func (ms *MemoryStore) FindDuplicate(_ context.Context, key DuplicateKey, source, excludeURL string, sameSource bool) (*models.Listing, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	urls := make([]string, 0, len(ms.listings))
	for u := range ms.listings {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		l := ms.listings[u]
		if l.URL == excludeURL {
			continue
		}
		if sameSource != (l.Source == source) {
			continue
		}
		if l.Price == key.Price &&
			l.ContractType == key.ContractType &&
			floatPtrMatch(l.Bedrooms, key.Bedrooms) &&
			floatPtrMatch(l.Bathrooms, key.Bathrooms) &&
			floatPtrMatch(l.LandSize, key.LandSize) &&
			floatPtrMatch(l.BuildSize, key.BuildSize) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (ms *MemoryStore) InsertDuplicate(_ context.Context, pair *models.DuplicateListing) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	k := pair.SourceURL + "\x00" + pair.DuplicateURL
	if _, ok := ms.duplicates[k]; ok {
		return ErrConflict
	}
	cp := *pair
	ms.duplicates[k] = &cp
	return nil
}

func (ms *MemoryStore) SyncTags(_ context.Context, url string, issues []string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	current := make(map[string]bool, len(issues))
	for _, name := range issues {
		current[name] = true
		k := url + "\x00" + name
		if t, ok := ms.tags[k]; ok {
			t.IsSolved = false
			continue
		}
		ms.tags[k] = &models.Tag{URL: url, Name: name}
	}

	for _, t := range ms.tags {
		if t.URL == url && !current[t.Name] {
			t.IsSolved = true
		}
	}
	return nil
}

func (ms *MemoryStore) ListTags(_ context.Context, url string) ([]*models.Tag, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var tags []*models.Tag
	for _, t := range ms.tags {
		if t.URL == url {
			cp := *t
			tags = append(tags, &cp)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (ms *MemoryStore) RecordError(_ context.Context, e *models.ErrorRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	k := e.URL + "\x00" + e.Message
	if _, ok := ms.errs[k]; !ok {
		cp := *e
		ms.errs[k] = &cp
	}
	return nil
}

func (ms *MemoryStore) ClearErrors(_ context.Context, url string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for k, e := range ms.errs {
		if e.URL == url {
			delete(ms.errs, k)
		}
	}
	return nil
}

func (ms *MemoryStore) ArchiveRaw(_ context.Context, raw *models.RawData) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.nextRawID++
	cp := *raw
	cp.ID = ms.nextRawID
	ms.raws[cp.ID] = &cp
	return cp.ID, nil
}

func (ms *MemoryStore) DeleteRaw(_ context.Context, id int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.raws, id)
	return nil
}

func (ms *MemoryStore) SaveReport(_ context.Context, r *models.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cp := *r
	ms.reports = append(ms.reports, &cp)
	return nil
}

func (ms *MemoryStore) ListAvailableURLs(_ context.Context, source string) ([]string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var urls []string
	for u, l := range ms.listings {
		if l.Source == source && l.IsAvailable {
			urls = append(urls, u)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

func (ms *MemoryStore) ListListings(_ context.Context) ([]*models.Listing, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	listings := make([]*models.Listing, 0, len(ms.listings))
	for _, l := range ms.listings {
		cp := *l
		listings = append(listings, &cp)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func (ms *MemoryStore) Close() error { return nil }

func floatPtrMatch(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
