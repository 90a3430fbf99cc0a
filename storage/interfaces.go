package storage

import (
	"time"

	"houspider/models"
)

// ListingGateway is the write path the reconciliation entry point drives.
type ListingGateway interface {
	AvailableHouses(category models.Category, city models.City) ([]*models.AvailableHouse, error)
	UpsertAvailable(h *models.HouseRecord, runDate time.Time) (ApplyOutcome, error)
	MarkUnavailable(houseID string, runDate time.Time) (bool, error)
	MarkAvailable(houseID string) error
}

// PriceLedger is the append-only price-history contract.
type PriceLedger interface {
	RecordPrice(houseID string, price int, priceDate time.Time) (bool, error)
}

// StatsRecorder accumulates the per-run aggregate counters.
type StatsRecorder interface {
	UpsertRunStats(st *models.CrawlStats) error
	AddUnavailable(crawlDate time.Time, category models.Category, city models.City, n int) error
}
