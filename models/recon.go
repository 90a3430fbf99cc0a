package models

// ReconClass is the outcome of diffing one house id between the stored
// available set and a fresh snapshot. Every id in either set falls into
// exactly one class per run.
type ReconClass int

const (
	ClassNewlyUnavailable ReconClass = iota
	ClassNewOrReappeared
	ClassUpdated
	ClassUnchanged
)

func (c ReconClass) String() string {
	switch c {
	case ClassNewlyUnavailable:
		return "newly_unavailable"
	case ClassNewOrReappeared:
		return "new_or_reappeared"
	case ClassUpdated:
		return "updated"
	case ClassUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// SnapshotDiff groups the full rows of one reconciliation run by class.
// NewlyUnavailable holds store-side rows; the other three hold snapshot rows.
type SnapshotDiff struct {
	NewlyUnavailable []*AvailableHouse
	NewOrReappeared  []*HouseRecord
	Updated          []*HouseRecord
	Unchanged        []*HouseRecord
}

// Classes flattens the diff into a per-id class map.
func (d *SnapshotDiff) Classes() map[string]ReconClass {
	out := make(map[string]ReconClass,
		len(d.NewlyUnavailable)+len(d.NewOrReappeared)+len(d.Updated)+len(d.Unchanged))
	for _, h := range d.NewlyUnavailable {
		out[h.HouseID] = ClassNewlyUnavailable
	}
	for _, h := range d.NewOrReappeared {
		out[h.HouseID] = ClassNewOrReappeared
	}
	for _, h := range d.Updated {
		out[h.HouseID] = ClassUpdated
	}
	for _, h := range d.Unchanged {
		out[h.HouseID] = ClassUnchanged
	}
	return out
}
