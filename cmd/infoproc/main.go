// Command infoproc drives the detail-crawl phase: it walks a worklist of
// house ids, fetches each detail page, maintains the price-history ledger
// and the detail tables, confirms gone listings as unavailable, and adds
// the 404 count to the day's crawl stats.
//
//	infoproc -i output/2022-11-14/house_id_to_crawl.csv -e output/2022-11-14/error_house_id1.csv \
//	         -d 2022-11-14 -c mansion_chuko -t tokyo -m original
package main

import (
	"flag"
	"os"
	"sync"
	"time"

	"houspider/config"
	"houspider/models"
	"houspider/scraper/lifull"
	"houspider/storage"
	"houspider/utils"
)

func main() {
	var (
		inPath  = flag.String("i", "", "input worklist CSV path (required)")
		errPath = flag.String("e", "", "output failure CSV path (required)")
		dateStr = flag.String("d", "", "crawl date, YYYY-MM-DD (required)")
		catStr  = flag.String("c", "", "category: mansion_chuko or chintai (required)")
		cityStr = flag.String("t", "", "city: tokyo (required)")
		mode    = flag.String("m", "original", "mode: original or error (error input may contain duplicates)")
		logPath = flag.String("l", "", "optional log file path")
	)
	flag.Parse()

	if *inPath == "" || *errPath == "" || *dateStr == "" || *catStr == "" || *cityStr == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *mode != "original" && *mode != "error" {
		os.Stderr.WriteString("mode must be original or error\n")
		os.Exit(2)
	}

	logger, cleanup := newLogger(*logPath)
	defer cleanup()

	crawlDate, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		logger.Error("Invalid crawl date %q: %v", *dateStr, err)
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

	cfg := config.Load()
	logger.Info("=== Detail crawl starting: %s/%s %s (mode %s) ===", city, category, *dateStr, *mode)

	ids, err := storage.ReadHouseIDs(*inPath, *mode == "error")
	if err != nil {
		logger.Error("Worklist read failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Total %d houses will be crawled", len(ids))

	store, err := storage.Open(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Store connect failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	p := &processor{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		fetcher:   lifull.NewDetailFetcher(cfg, logger),
		category:  category,
		crawlDate: crawlDate,
		visited:   utils.NewIDSet(),
	}

	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs)
	for _, id := range ids {
		houseID := id
		if !p.visited.Add(houseID) {
			continue
		}
		pool.Submit(func() { p.process(houseID) })
	}
	pool.Wait()

	if err := store.Stats().AddUnavailable(crawlDate, category, city, p.newUnavailable); err != nil {
		logger.Error("Stats update failed: %v", err)
	}
	logger.Info("Total %d houses became unavailable today", p.newUnavailable)

	if err := storage.WriteFailures(*errPath, p.failures); err != nil {
		logger.Error("Failure file write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Run summary: processed=%d gone=%d failures=%d rowErrors=%d",
		len(ids), p.newUnavailable, len(p.failures), p.rowErrors)
}

// processor holds the shared state of the concurrent detail crawl.
type processor struct {
	cfg       *config.Config
	logger    *utils.Logger
	store     *storage.Store
	fetcher   *lifull.DetailFetcher
	category  models.Category
	crawlDate time.Time
	visited   *utils.IDSet

	mu             sync.Mutex
	newUnavailable int
	rowErrors      int
	failures       []*models.FetchFailure
}

// process handles one house id end to end. Mutations per id run in the
// order price-history append → record upsert → stats, each committed on
// its own, so an interrupted run leaves processed ids fully applied.
func (p *processor) process(houseID string) {
	url := lifull.DetailURL(p.category, houseID)
	page, err := p.fetcher.Fetch(url)
	if err != nil {
		p.logger.Error("Fetch failed for %s: %v", houseID, err)
		p.mu.Lock()
		p.failures = append(p.failures, &models.FetchFailure{
			HouseID: houseID,
			Reason:  lifull.FailReason(err),
		})
		p.mu.Unlock()
		return
	}

	if page.Gone() {
		changed, err := p.store.HouseLinks().MarkUnavailable(houseID, p.crawlDate)
		if err != nil {
			p.rowError("Mark unavailable failed for %s: %v", houseID, err)
			return
		}
		if changed {
			p.mu.Lock()
			p.newUnavailable++
			p.mu.Unlock()
			p.logger.Info("%s has been marked as unavailable", houseID)
		}
		return
	}

	if p.category.IsRent() {
		p.processRent(houseID, page)
	} else {
		p.processSale(houseID, page)
	}
}

func (p *processor) processSale(houseID string, page *lifull.DetailPage) {
	if page.Doc == nil || page.Doc.Find(".mod-detailTopSale").Length() != 1 {
		p.rowError("House %s is in wrong page format", houseID)
		return
	}

	detail := lifull.ParseHouseDetail(houseID, page.Doc, p.logger)

	if appended, err := p.store.Prices().RecordPrice(houseID, detail.Price, p.crawlDate); err != nil {
		p.rowError("Price history failed for %s: %v", houseID, err)
		return
	} else if appended {
		p.logger.Info("Price history appended for %s: %d", houseID, detail.Price)
	}

	if err := p.store.HouseLinks().MarkAvailable(houseID); err != nil {
		p.rowError("Mark available failed for %s: %v", houseID, err)
		return
	}
	if err := p.store.HouseInfos().UpsertHouseInfo(detail); err != nil {
		p.rowError("House info upsert failed for %s: %v", houseID, err)
		return
	}
	p.logger.Debug("Finished processing %s (%d null fields)", houseID, detail.NumNullFields)
}

func (p *processor) processRent(houseID string, page *lifull.DetailPage) {
	if page.Doc == nil || page.Doc.Find(".mod-detailTopRent").Length() != 1 {
		p.rowError("House %s is in wrong page format", houseID)
		return
	}

	detail := lifull.ParseRentDetail(houseID, page.Doc, p.logger)

	if appended, err := p.store.Prices().RecordPrice(houseID, int(detail.Rent), p.crawlDate); err != nil {
		p.rowError("Price history failed for %s: %v", houseID, err)
		return
	} else if appended {
		p.logger.Info("Price history appended for %s: %.0f", houseID, detail.Rent)
	}

	if err := p.store.HouseLinks().MarkAvailable(houseID); err != nil {
		p.rowError("Mark available failed for %s: %v", houseID, err)
		return
	}
	if err := p.store.HouseInfos().UpsertRentInfo(detail); err != nil {
		p.rowError("Rent info upsert failed for %s: %v", houseID, err)
		return
	}
	p.logger.Debug("Finished processing %s (%d null fields)", houseID, detail.NumNullFields)
}

func (p *processor) rowError(format string, args ...any) {
	p.logger.Error(format, args...)
	p.mu.Lock()
	p.rowErrors++
	p.mu.Unlock()
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
