package main

import (
	"context"
	"errors"
	"os"
	"time"

	"reid-catalog/config"
	"reid-catalog/models"
	"reid-catalog/scraper/kibarer"
	"reid-catalog/services"
	"reid-catalog/storage"
	"reid-catalog/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	if cfg.Debug {
		logger.EnableDebug()
	}

	logger.Info("=== REID Property Catalog starting ===")
	logger.Info("Config — feed: %s | concurrency: %d | month offset: %d",
		cfg.ObservationsPath, cfg.MaxConcurrency, cfg.ReportMonthOffset)

	registry, err := config.LoadRegistry(cfg.SourcesPath)
	if err != nil {
		logger.Error("Failed to load source registry: %v", err)
		os.Exit(1)
	}

	var store storage.Store
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	err = retry.Do("postgres connect", func() error {
		s, err := storage.NewPostgresStore(cfg.DSN())
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer store.Close()

	observations, err := services.LoadObservations(cfg.ObservationsPath)
	if err != nil {
		logger.Error("Failed to load observations: %v", err)
		os.Exit(1)
	}
	if len(observations) == 0 {
		logger.Error("No observations in %s. Exiting.", cfg.ObservationsPath)
		os.Exit(1)
	}
	logger.Info("Loaded %d observations from %s", len(observations), cfg.ObservationsPath)

	observations = parseRawPages(observations, logger)

	ctx := context.Background()
	alloc := services.NewAllocator(registry, cfg.ReportMonthOffset)
	classifier := services.NewClassifier(registry)
	reconciler := services.NewReconciler(store, alloc, classifier, logger)
	pipeline := services.NewPipeline(store, reconciler, logger, cfg.MaxConcurrency)

	for source, batch := range groupBySource(observations) {
		if urls, err := store.ListAvailableURLs(ctx, source); err == nil && len(urls) > 0 {
			logger.Info("[%s] %d listings currently on file as available", source, len(urls))
		}
		if _, err := pipeline.Run(ctx, source, batch); err != nil {
			logger.Error("Pipeline run for %s: %v", source, err)
		}
	}

	listings, err := store.ListListings(ctx)
	if err != nil {
		logger.Error("Failed to fetch catalog for summary: %v", err)
		os.Exit(1)
	}

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(summarySvc.Generate(listings))

	if cfg.CSVExportPath != "" {
		exportCSV(cfg.CSVExportPath, listings, logger)
	}
}

// parseRawPages runs observations that arrived as bare HTML through the
// matching site adapter. Observations the crawler already extracted pass
// through untouched.
func parseRawPages(observations []*models.Observation, logger *utils.Logger) []*models.Observation {
	parser := kibarer.New(logger)
	out := observations[:0]

	for _, obs := range observations {
		if obs.Source != kibarer.Source || obs.RawHTML == "" || obs.Title != "" || obs.NotFound {
			out = append(out, obs)
			continue
		}
		parsed, err := parser.Parse(obs.URL, obs.RawHTML, obs.ScrapedAt)
		if errors.Is(err, kibarer.ErrNotForSale) {
			logger.Debug("[kibarer] skipping %s: not for sale", obs.URL)
			continue
		}
		if err != nil {
			logger.Error("[kibarer] parse %s: %v", obs.URL, err)
			continue
		}
		out = append(out, parsed)
	}
	return out
}

func groupBySource(observations []*models.Observation) map[string][]*models.Observation {
	groups := make(map[string][]*models.Observation)
	for _, obs := range observations {
		groups[obs.Source] = append(groups[obs.Source], obs)
	}
	return groups
}

func exportCSV(path string, listings []*models.Listing, logger *utils.Logger) {
	writer, err := storage.NewCSVWriter(path)
	if err != nil {
		logger.Error("Failed to create CSV export: %v", err)
		return
	}
	defer writer.Close()

	if err := writer.WriteListings(listings); err != nil {
		logger.Error("CSV export failed: %v", err)
		return
	}
	logger.Info("Catalog exported to %s", path)
}
