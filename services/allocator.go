package services

import (
	"fmt"
	"time"

	"reid-catalog/config"
	"reid-catalog/models"
)

// Allocator derives the catalog ID prefix for a listing. IDs have the form
// REID_<yy>_<mm>_<CODE>_<seq>, where (yy, mm) is the reporting period and
// CODE the registered 4-letter source code. The sequence itself is
// allocated by the store inside the insert transaction.
type Allocator struct {
	registry    *config.Registry
	monthOffset int
}

// NewAllocator builds an allocator over the source registry. monthOffset
// shifts the reporting period relative to the processing time; the
// production feed reports one month behind the crawl, so -1 is typical.
func NewAllocator(registry *config.Registry, monthOffset int) *Allocator {
	return &Allocator{registry: registry, monthOffset: monthOffset}
}

// Period returns the first instant of the reporting month for a processing
// time. It is also the timestamp stamped on sold_at transitions.
func (a *Allocator) Period(now time.Time) time.Time {
	return models.FirstOfMonth(now).AddDate(0, a.monthOffset, 0)
}

// Prefix returns the ID scope for a source at a processing time, e.g.
// "REID_25_06_KIBR". Unknown sources are an error so a misconfigured
// crawler cannot mint IDs under a bogus code.
func (a *Allocator) Prefix(source string, now time.Time) (string, error) {
	code, ok := a.registry.SourceCodes[source]
	if !ok {
		return "", fmt.Errorf("allocator: source %q has no registered code", source)
	}
	period := a.Period(now)
	return fmt.Sprintf("REID_%02d_%02d_%s", period.Year()%100, int(period.Month()), code), nil
}
