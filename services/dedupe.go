package services

import (
	"sort"

	"houspider/models"
	"houspider/utils"
)

// Deduplicator collapses a raw crawled snapshot, which may carry the same
// house id several times (the same unit advertised by multiple agents),
// into one canonical row per id.
type Deduplicator struct {
	logger *utils.Logger
}

// NewDeduplicator creates a Deduplicator with the given logger.
func NewDeduplicator(logger *utils.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Dedupe returns one row per distinct house id. Rows are stable-sorted by
// (house id ascending, PR flag descending) with empty ids last, then the
// first row per id wins. The same input multiset always yields the same
// output, whatever order the crawl delivered the rows in.
func (d *Deduplicator) Dedupe(raw []*models.HouseRecord) []*models.HouseRecord {
	rows := make([]*models.HouseRecord, len(raw))
	copy(rows, raw)

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.HouseID == "") != (b.HouseID == "") {
			return b.HouseID == ""
		}
		if a.HouseID != b.HouseID {
			return a.HouseID < b.HouseID
		}
		return a.IsPRItem && !b.IsPRItem
	})

	seen := make(map[string]struct{}, len(rows))
	duplicated := 0
	out := make([]*models.HouseRecord, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.HouseID]; dup {
			duplicated++
			continue
		}
		seen[r.HouseID] = struct{}{}
		out = append(out, r)
	}

	if duplicated > 0 {
		d.logger.Info("[dedupe] Collapsed %d raw rows to %d houses (%d duplicate rows dropped)",
			len(raw), len(out), duplicated)
	}
	return out
}
