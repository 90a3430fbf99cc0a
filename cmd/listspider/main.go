// Command listspider crawls every list page of one (category, city) scope
// and writes the raw snapshot CSV the reconciliation step consumes, plus
// an error file of list-page URLs that failed.
//
//	listspider -c mansion_chuko -t tokyo -o output/2022-11-14/house_links.csv \
//	           -e output/2022-11-14/error_list_urls.csv
package main

import (
	"flag"
	"os"

	"houspider/config"
	"houspider/models"
	"houspider/scraper/lifull"
	"houspider/storage"
	"houspider/utils"
)

func main() {
	var (
		catStr  = flag.String("c", "", "category: mansion_chuko or chintai (required)")
		cityStr = flag.String("t", "", "city: tokyo (required)")
		outPath = flag.String("o", "", "output snapshot CSV path (required)")
		errPath = flag.String("e", "", "output error-URL CSV path (required)")
		logPath = flag.String("l", "", "optional log file path")
	)
	flag.Parse()

	if *catStr == "" || *cityStr == "" || *outPath == "" || *errPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := utils.NewLogger()
	if *logPath != "" {
		if fileLogger, err := utils.NewFileLogger(*logPath); err == nil {
			logger = fileLogger
			defer fileLogger.Close()
		} else {
			logger.Warn("Log file unavailable (%v), logging to stdout only", err)
		}
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
	logger.Info("=== List crawl starting: %s/%s ===", city, category)

	records, failedURLs, err := lifull.NewListSpider(cfg, logger, category, city).Run()
	if err != nil {
		logger.Error("List crawl failed: %v", err)
		os.Exit(1)
	}

	if err := storage.WriteSnapshot(*outPath, records); err != nil {
		logger.Error("Snapshot write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("%d rows written to %s", len(records), *outPath)

	if len(failedURLs) > 0 {
		logger.Error("These %d urls were not crawled: %v", len(failedURLs), failedURLs)
		if err := storage.WriteErrorURLs(*errPath, failedURLs); err != nil {
			logger.Error("Error-URL write failed: %v", err)
			os.Exit(1)
		}
		logger.Info("%d urls written to %s", len(failedURLs), *errPath)
	}
}
