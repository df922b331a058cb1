package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reid-catalog/models"
	"reid-catalog/storage"
	"reid-catalog/utils"
)

// Reconciler folds assembled candidates into the catalog. A URL seen for
// the first time is inserted under a freshly allocated ID; a known URL is
// merged field by field under the store's per-URL lock. Every successful
// write recomputes the segment, re-validates the issue tags, and clears
// stale error records for the URL.
type Reconciler struct {
	store      storage.Store
	alloc      *Allocator
	classifier *Classifier
	log        *utils.Logger
}

func NewReconciler(store storage.Store, alloc *Allocator, classifier *Classifier, log *utils.Logger) *Reconciler {
	return &Reconciler{store: store, alloc: alloc, classifier: classifier, log: log}
}

// Reconcile writes a candidate into the catalog and returns the field
// changes a merge produced. An insert returns no changes.
func (r *Reconciler) Reconcile(ctx context.Context, l *models.Listing, now time.Time) ([]models.Change, error) {
	_, err := r.store.GetListing(ctx, l.URL)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, r.insert(ctx, l, now)
	}
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", l.URL, err)
	}
	return r.merge(ctx, l, now)
}

// MarkDelisted transitions a listing off-market after the crawler reports
// its URL gone. Missing URLs are a no-op: a page can vanish before the
// catalog ever saw it.
func (r *Reconciler) MarkDelisted(ctx context.Context, url string, now time.Time) error {
	period := r.alloc.Period(now)
	in := &models.Listing{Availability: models.Delisted, Price: models.PriceUnknown}

	changes, err := r.store.MergeListing(ctx, url, func(cur *models.Listing) []models.Change {
		changes := cur.Merge(in, period)
		if len(changes) > 0 {
			cur.UpdatedAt = now
		}
		return changes
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delist %s: %w", url, err)
	}
	if len(changes) > 0 {
		r.log.Info("[reconcile] delisted %s", url)
	}
	return nil
}

func (r *Reconciler) insert(ctx context.Context, l *models.Listing, now time.Time) error {
	prefix, err := r.alloc.Prefix(l.Source, now)
	if err != nil {
		return err
	}

	if !l.IsAvailable && l.SoldAt == nil {
		soldAt := r.alloc.Period(now)
		l.SoldAt = &soldAt
	}
	l.Segment = r.classifier.Segment(l)
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := r.store.InsertListing(ctx, l, prefix); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// lost the race to a concurrent worker; merge instead
			_, err = r.merge(ctx, l, now)
			return err
		}
		return fmt.Errorf("insert %s: %w", l.URL, err)
	}
	r.log.Info("[reconcile] inserted %s as %s", l.URL, l.ReidID)

	if err := r.detectDuplicates(ctx, l); err != nil {
		return err
	}
	return r.finishWrite(ctx, l)
}

func (r *Reconciler) merge(ctx context.Context, l *models.Listing, now time.Time) ([]models.Change, error) {
	period := r.alloc.Period(now)

	var merged *models.Listing
	changes, err := r.store.MergeListing(ctx, l.URL, func(cur *models.Listing) []models.Change {
		changes := cur.Merge(l, period)
		if len(changes) > 0 {
			cur.Segment = r.classifier.Segment(cur)
			cur.ScrapedAt = l.ScrapedAt
			cur.UpdatedAt = now
		}
		cp := *cur
		merged = &cp
		return changes
	})
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", l.URL, err)
	}

	for _, ch := range changes {
		r.log.Debug("[reconcile] %s: %s %v -> %v", l.URL, ch.Field, ch.Old, ch.New)
	}
	if err := r.finishWrite(ctx, merged); err != nil {
		return nil, err
	}
	return changes, nil
}

// detectDuplicates looks for other listings advertising the same exact
// tuple. Both passes always run and each records its own pair: one against
// other sources, one against the same source under a different URL. The
// found listing is recorded as the pair's source side. A pair already on
// file is a benign conflict.
func (r *Reconciler) detectDuplicates(ctx context.Context, l *models.Listing) error {
	if l.Price <= 0 {
		return nil
	}
	key := storage.Key(l)

	for _, sameSource := range []bool{false, true} {
		twin, err := r.store.FindDuplicate(ctx, key, l.Source, l.URL, sameSource)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("detect duplicates %s: %w", l.URL, err)
		}

		pair := &models.DuplicateListing{SourceURL: twin.URL, DuplicateURL: l.URL}
		if err := r.store.InsertDuplicate(ctx, pair); err != nil && !errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("record duplicate %s: %w", l.URL, err)
		}
		r.log.Warn("[reconcile] %s duplicates %s", l.URL, twin.URL)
	}
	return nil
}

// finishWrite re-validates the issue tags and clears error records after
// any successful write.
func (r *Reconciler) finishWrite(ctx context.Context, l *models.Listing) error {
	if err := r.store.SyncTags(ctx, l.URL, r.classifier.Issues(l)); err != nil {
		return fmt.Errorf("sync tags %s: %w", l.URL, err)
	}
	if err := r.store.ClearErrors(ctx, l.URL); err != nil {
		return fmt.Errorf("clear errors %s: %w", l.URL, err)
	}
	return nil
}
