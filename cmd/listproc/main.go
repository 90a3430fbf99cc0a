// Command listproc reconciles a freshly crawled list snapshot against the
// store and emits the worklist the detail crawler consumes.
//
//	listproc -i output/2022-11-14/house_links.csv -o output/2022-11-14/house_id_to_crawl.csv \
//	         -d 2022-11-14 -c mansion_chuko -t tokyo -s update_only
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"houspider/config"
	"houspider/models"
	"houspider/services"
	"houspider/storage"
	"houspider/utils"
)

func main() {
	var (
		inPath   = flag.String("i", "", "input snapshot CSV path (required)")
		outPath  = flag.String("o", "", "output worklist CSV path (required)")
		dateStr  = flag.String("d", "", "run date, YYYY-MM-DD (required)")
		catStr   = flag.String("c", "", "category: mansion_chuko or chintai (required)")
		cityStr  = flag.String("t", "", "city: tokyo (required)")
		stratStr = flag.String("s", string(services.StrategyUpdateOnly), "strategy: update_only or all")
		logPath  = flag.String("l", "", "optional log file path")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" || *dateStr == "" || *catStr == "" || *cityStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := newLogger(*logPath)
	defer cleanup()

	runDate, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		logger.Error("Invalid run date %q: %v", *dateStr, err)
		os.Exit(2)
	}
	category, err := models.ParseCategory(*catStr)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}
	city, err := models.ParseCity(*cityStr)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}
	strategy, err := services.ParseStrategy(*stratStr)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Info("=== List reconciliation starting: %s/%s %s (strategy %s) ===",
		city, category, *dateStr, strategy)

	// Read and validate the snapshot before touching the store.
	raw, err := storage.ReadSnapshot(*inPath)
	if err != nil {
		logger.Error("Snapshot read failed: %v", err)
		os.Exit(1)
	}
	snapshot := services.NewDeduplicator(logger).Dedupe(raw)

	store, err := storage.Open(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Store connect failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	links := store.HouseLinks()
	available, err := links.AvailableHouses(category, city)
	if err != nil {
		logger.Error("Available-house read failed, aborting: %v", err)
		os.Exit(1)
	}

	reconciler := services.NewReconciler(logger)
	diff := reconciler.Diff(snapshot, available)

	stats := &models.CrawlStats{CrawlDate: runDate, Category: category, City: city}
	rowErrors := 0

	for _, h := range diff.NewlyUnavailable {
		changed, err := links.MarkUnavailable(h.HouseID, runDate)
		if err != nil {
			logger.Error("Mark unavailable failed for %s: %v", h.HouseID, err)
			rowErrors++
			continue
		}
		if changed {
			stats.NewUnavailable++
		}
	}

	for _, h := range diff.NewOrReappeared {
		outcome, err := links.UpsertAvailable(h, runDate)
		if err != nil {
			logger.Error("Upsert failed for %s: %v", h.HouseID, err)
			rowErrors++
			continue
		}
		switch outcome {
		case storage.OutcomeInserted:
			stats.NewAdded++
		case storage.OutcomeUpdatedExisting:
			// Existed as unavailable and came back.
			stats.Reopened++
		}
	}

	for _, h := range diff.Updated {
		outcome, err := links.UpsertAvailable(h, runDate)
		if err != nil {
			logger.Error("Update failed for %s: %v", h.HouseID, err)
			rowErrors++
			continue
		}
		if outcome != storage.OutcomeNoOp {
			stats.Updated++
		}
	}

	if err := store.Stats().UpsertRunStats(stats); err != nil {
		logger.Error("Stats upsert failed: %v", err)
	}

	worklist := reconciler.Worklist(diff, snapshot, strategy)
	if err := storage.WriteWorklist(*outPath, worklist); err != nil {
		logger.Error("Worklist write failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Run summary: added=%d reopened=%d updated=%d unavailable=%d unchanged=%d rowErrors=%d",
		stats.NewAdded, stats.Reopened, stats.Updated, stats.NewUnavailable,
		len(diff.Unchanged), rowErrors)
	logger.Info("%d houses written to %s", len(worklist), *outPath)

	fmt.Printf("  Done. Worklist → %s (%d houses)\n\n", *outPath, len(worklist))
}

func newLogger(path string) (*utils.Logger, func()) {
	if path == "" {
		return utils.NewLogger(), func() {}
	}
	logger, err := utils.NewFileLogger(path)
	if err != nil {
		fallback := utils.NewLogger()
		fallback.Warn("Log file unavailable (%v), logging to stdout only", err)
		return fallback, func() {}
	}
	return logger, func() { _ = logger.Close() }
}
