package services

import (
	"fmt"

	"houspider/models"
	"houspider/utils"
)

// Strategy selects how the downstream worklist is composed.
type Strategy string

const (
	// StrategyUpdateOnly feeds only changed houses to the detail crawler.
	StrategyUpdateOnly Strategy = "update_only"
	// StrategyAll forces a full re-crawl of every house in the snapshot.
	// The store diff still runs and is still applied.
	StrategyAll Strategy = "all"
)

// ParseStrategy validates a strategy flag value.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyUpdateOnly, StrategyAll:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want %q or %q)",
		s, StrategyUpdateOnly, StrategyAll)
}

// Reconciler diffs a deduplicated snapshot against the store's current
// available set for one (category, city) scope.
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a Reconciler with the given logger.
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Diff performs a full outer join on house id and classifies every id into
// exactly one of the four reconciliation classes. The snapshot must already
// be deduplicated: repeated ids here indicate a caller bug.
//
// An empty snapshot is valid input and delists the whole scope; a warning
// is logged because that usually means an upstream crawl problem.
func (r *Reconciler) Diff(snapshot []*models.HouseRecord, available []*models.AvailableHouse) *models.SnapshotDiff {
	if len(snapshot) == 0 && len(available) > 0 {
		r.logger.Warn("[reconcile] Empty snapshot: all %d available houses will be marked unavailable",
			len(available))
	}

	oldByID := make(map[string]*models.AvailableHouse, len(available))
	for _, h := range available {
		oldByID[h.HouseID] = h
	}
	newByID := make(map[string]*models.HouseRecord, len(snapshot))
	for _, h := range snapshot {
		newByID[h.HouseID] = h
	}

	diff := &models.SnapshotDiff{}

	// Iterate the inputs, not the maps, so output order is deterministic.
	for _, h := range snapshot {
		old, exists := oldByID[h.HouseID]
		switch {
		case !exists:
			diff.NewOrReappeared = append(diff.NewOrReappeared, h)
		case !old.HouseRecord.SameListing(h):
			diff.Updated = append(diff.Updated, h)
		default:
			diff.Unchanged = append(diff.Unchanged, h)
		}
	}
	for _, h := range available {
		if _, exists := newByID[h.HouseID]; !exists {
			diff.NewlyUnavailable = append(diff.NewlyUnavailable, h)
		}
	}

	r.logger.Info("[reconcile] Classified %d houses: %d new/reappeared, %d updated, %d unchanged, %d newly unavailable",
		len(snapshot)+len(diff.NewlyUnavailable),
		len(diff.NewOrReappeared), len(diff.Updated), len(diff.Unchanged), len(diff.NewlyUnavailable))
	return diff
}

// Worklist flattens the diff into the house ids the detail crawler must
// visit. Under update_only that is newly-unavailable ∪ new/reappeared ∪
// updated, in that order; under all it is every id of the snapshot.
func (r *Reconciler) Worklist(diff *models.SnapshotDiff, snapshot []*models.HouseRecord, strategy Strategy) []string {
	if strategy == StrategyAll {
		ids := make([]string, 0, len(snapshot))
		for _, h := range snapshot {
			ids = append(ids, h.HouseID)
		}
		return ids
	}

	ids := make([]string, 0, len(diff.NewlyUnavailable)+len(diff.NewOrReappeared)+len(diff.Updated))
	for _, h := range diff.NewlyUnavailable {
		ids = append(ids, h.HouseID)
	}
	for _, h := range diff.NewOrReappeared {
		ids = append(ids, h.HouseID)
	}
	for _, h := range diff.Updated {
		ids = append(ids, h.HouseID)
	}
	return ids
}
