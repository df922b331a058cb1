package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reid-catalog/models"
	"reid-catalog/storage"
	"reid-catalog/utils"
)

// Pipeline drives one ingestion session: archive the raw payload, assemble
// a candidate, reconcile it into the catalog. URLs are isolated from each
// other; one failing observation never stops the session.
type Pipeline struct {
	store       storage.Store
	reconciler  *Reconciler
	logger      *utils.Logger
	concurrency int
}

func NewPipeline(store storage.Store, reconciler *Reconciler, logger *utils.Logger, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{store: store, reconciler: reconciler, logger: logger, concurrency: concurrency}
}

// Run processes a batch of observations from one source and persists the
// session report. Repeated URLs within the batch are dropped; the first
// occurrence wins.
func (p *Pipeline) Run(ctx context.Context, source string, observations []*models.Observation) (*models.Report, error) {
	start := time.Now()
	pool := utils.NewWorkerPool(p.concurrency, 0)
	seen := utils.NewURLSet()

	var mu sync.Mutex
	processed, dropped, failed := 0, 0, 0

	for _, obs := range observations {
		if obs.URL == "" || !seen.Add(obs.URL) {
			dropped++
			continue
		}

		obs := obs
		pool.Submit(func() {
			err := p.process(ctx, obs, start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("[pipeline] %s: %v", obs.URL, err)
				failed++
				return
			}
			processed++
		})
	}
	pool.Wait()

	report := &models.Report{
		Source:         source,
		ScrapedAt:      start,
		ItemsScraped:   processed,
		ItemsDropped:   dropped + failed,
		Errors:         failed,
		ElapsedSeconds: time.Since(start).Seconds(),
	}
	if err := p.store.SaveReport(ctx, report); err != nil {
		return report, fmt.Errorf("pipeline: save report: %w", err)
	}

	p.logger.Info("[pipeline] %s: %d processed, %d dropped, %d failed in %.1fs",
		source, processed, dropped, failed, report.ElapsedSeconds)
	return report, nil
}

// process handles one observation end to end. An archived payload whose
// reconciliation fails is deleted again so the archive never holds rows
// without a catalog outcome.
func (p *Pipeline) process(ctx context.Context, obs *models.Observation, now time.Time) error {
	var rawID int64
	if obs.RawHTML != "" || obs.RawJSON != "" {
		id, err := p.store.ArchiveRaw(ctx, &models.RawData{
			URL:  obs.URL,
			HTML: obs.RawHTML,
			JSON: obs.RawJSON,
		})
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		rawID = id
	}

	var err error
	if obs.NotFound {
		err = p.reconciler.MarkDelisted(ctx, obs.URL, now)
	} else {
		_, err = p.reconciler.Reconcile(ctx, Assemble(obs, now), now)
	}
	if err == nil {
		return nil
	}

	if recErr := p.store.RecordError(ctx, &models.ErrorRecord{
		URL:     obs.URL,
		Origin:  "pipeline",
		Message: err.Error(),
	}); recErr != nil {
		p.logger.Error("[pipeline] record error for %s: %v", obs.URL, recErr)
	}
	if rawID != 0 {
		if delErr := p.store.DeleteRaw(ctx, rawID); delErr != nil {
			p.logger.Error("[pipeline] compensate archive %d: %v", rawID, delErr)
		}
	}
	return err
}
