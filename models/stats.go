package models

import "time"

// CrawlStats holds the aggregate counters of one pipeline run, keyed by
// (crawl date, category, city). NewUnavailable accumulates contributions
// from both the reconciliation phase and the detail-crawl 404 pass; the
// other counters are authoritative per reconciliation run.
type CrawlStats struct {
	CrawlDate      time.Time
	Category       Category
	City           City
	NewAdded       int
	Reopened       int
	Updated        int
	NewUnavailable int
}
