// Command report mails the daily crawl digest.
//
// summary mode reads the day's crawler stats and sends the per-scope
// totals; alert mode inspects the crawl's failure files and sends an
// error digest when any are non-empty.
//
//	report -m summary -d 2022-11-17
//	report -m alert   -d 2022-11-17
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"houspider/config"
	"houspider/models"
	"houspider/services"
	"houspider/storage"
	"houspider/utils"
)

func main() {
	var (
		mode    = flag.String("m", "summary", "mode: summary or alert")
		dateStr = flag.String("d", "", "crawl date, YYYY-MM-DD (required)")
	)
	flag.Parse()

	if *dateStr == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *mode != "summary" && *mode != "alert" {
		os.Stderr.WriteString("mode must be summary or alert\n")
		os.Exit(2)
	}

	logger := utils.NewLogger()
	crawlDate, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		logger.Error("Invalid crawl date %q: %v", *dateStr, err)
		os.Exit(2)
	}

	cfg := config.Load()
	report := services.NewReportService(cfg, logger)

	switch *mode {
	case "summary":
		runSummary(cfg, logger, report, crawlDate)
	case "alert":
		runAlert(cfg, logger, report, crawlDate)
	}
}

func runSummary(cfg *config.Config, logger *utils.Logger, report *services.ReportService, crawlDate time.Time) {
	store, err := storage.Open(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Store connect failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.Stats().ForDate(crawlDate)
	if err != nil {
		logger.Error("Stats read failed: %v", err)
		os.Exit(1)
	}

	subject, body := report.Summary(crawlDate, stats)
	if err := report.Send(subject, body); err != nil {
		logger.Error("Summary mail failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Summary mail sent successfully")
}

func runAlert(cfg *config.Config, logger *utils.Logger, report *services.ReportService, crawlDate time.Time) {
	dateDir := filepath.Join(cfg.OutputDir, crawlDate.Format("2006-01-02"))

	var listErrors []string
	for _, name := range []string{"error_list_urls.csv", "error_chintai_list_urls.csv"} {
		urls, err := storage.ReadErrorURLs(filepath.Join(dateDir, name))
		if err != nil {
			logger.Error("Error file read failed: %v", err)
			continue
		}
		listErrors = append(listErrors, urls...)
	}

	var fetchFailures []*models.FetchFailure
	for _, name := range []string{"error_house_id2.csv", "error_house_chintai_id2.csv"} {
		failures, err := storage.ReadFailures(filepath.Join(dateDir, name))
		if err != nil {
			logger.Error("Failure file read failed: %v", err)
			continue
		}
		fetchFailures = append(fetchFailures, failures...)
	}

	subject, body, ok := report.Alert(crawlDate, listErrors, fetchFailures)
	if !ok {
		logger.Info("No alerts today")
		return
	}
	if err := report.Send(subject, body); err != nil {
		logger.Error("Alert mail failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Alert mail sent successfully")
}
