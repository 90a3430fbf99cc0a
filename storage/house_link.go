package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"houspider/models"
)

// ApplyOutcome is the tri-state result of one idempotent upsert.
type ApplyOutcome int

const (
	OutcomeNoOp ApplyOutcome = iota
	OutcomeInserted
	OutcomeUpdatedExisting
)

func (o ApplyOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdatedExisting:
		return "updated_existing"
	}
	return "noop"
}

// HouseLinkRepo persists the per-listing availability state.
type HouseLinkRepo struct {
	db *sql.DB
}

// AvailableHouses returns every available row for one (category, city)
// scope, the old side of the reconciliation join.
func (r *HouseLinkRepo) AvailableHouses(category models.Category, city models.City) ([]*models.AvailableHouse, error) {
	rows, err := r.db.Query(`
		SELECT house_id, is_pr_item, listing_house_name, listing_house_price,
		       manage_fee, sale_category, city, first_available_date
		FROM house_link
		WHERE is_available AND sale_category = $1 AND city = $2
		ORDER BY house_id
	`, string(category), string(city))
	if err != nil {
		return nil, fmt.Errorf("house_link: query available: %w", err)
	}
	defer rows.Close()

	var houses []*models.AvailableHouse
	for rows.Next() {
		h := &models.AvailableHouse{}
		var price, manageFee sql.NullInt64
		if err := rows.Scan(
			&h.HouseID, &h.IsPRItem, &h.Name, &price,
			&manageFee, &h.Category, &h.City, &h.FirstAvailableDate,
		); err != nil {
			return nil, fmt.Errorf("house_link: scan row: %w", err)
		}
		h.Price = intPtr(price)
		h.ManageFee = intPtr(manageFee)
		houses = append(houses, h)
	}
	return houses, rows.Err()
}

// UpsertAvailable inserts a newly observed house or overwrites the mutable
// attributes of an existing one, marking it available and clearing
// unavailable_date. first_available_date is set only on insert and never
// overwritten afterwards. Replaying an identical row is a NoOp.
func (r *HouseLinkRepo) UpsertAvailable(h *models.HouseRecord, runDate time.Time) (ApplyOutcome, error) {
	row := r.db.QueryRow(`
		INSERT INTO house_link (
			house_id, is_pr_item, listing_house_name, listing_house_price,
			manage_fee, sale_category, city, is_available, first_available_date, unavailable_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, NULL)
		ON CONFLICT (house_id) DO UPDATE SET
			is_pr_item          = EXCLUDED.is_pr_item,
			listing_house_name  = EXCLUDED.listing_house_name,
			listing_house_price = EXCLUDED.listing_house_price,
			manage_fee          = EXCLUDED.manage_fee,
			sale_category       = EXCLUDED.sale_category,
			city                = EXCLUDED.city,
			is_available        = TRUE,
			unavailable_date    = NULL
		WHERE (house_link.is_pr_item, house_link.listing_house_name,
		       house_link.listing_house_price, house_link.manage_fee,
		       house_link.sale_category, house_link.city,
		       house_link.is_available, house_link.unavailable_date)
		      IS DISTINCT FROM
		      (EXCLUDED.is_pr_item, EXCLUDED.listing_house_name,
		       EXCLUDED.listing_house_price, EXCLUDED.manage_fee,
		       EXCLUDED.sale_category, EXCLUDED.city,
		       TRUE, NULL::date)
		RETURNING (xmax = 0) AS inserted
	`, h.HouseID, h.IsPRItem, h.Name, nullInt(h.Price),
		nullInt(h.ManageFee), string(h.Category), string(h.City), runDate)

	var inserted bool
	switch err := row.Scan(&inserted); {
	case errors.Is(err, sql.ErrNoRows):
		return OutcomeNoOp, nil
	case err != nil:
		return OutcomeNoOp, fmt.Errorf("house_link: upsert %s: %w", h.HouseID, err)
	case inserted:
		return OutcomeInserted, nil
	default:
		return OutcomeUpdatedExisting, nil
	}
}

// MarkUnavailable flips one house to unavailable and stamps the date,
// leaving every other attribute untouched. Returns false when the house
// was already unavailable (or unknown), so callers can count only real
// transitions.
func (r *HouseLinkRepo) MarkUnavailable(houseID string, runDate time.Time) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE house_link
		SET is_available = FALSE, unavailable_date = $2
		WHERE house_id = $1 AND is_available
	`, houseID, runDate)
	if err != nil {
		return false, fmt.Errorf("house_link: mark unavailable %s: %w", houseID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("house_link: mark unavailable %s: %w", houseID, err)
	}
	return n > 0, nil
}

// MarkAvailable is the detail-phase confirmation that a house is still
// listed. first_available_date is not touched.
func (r *HouseLinkRepo) MarkAvailable(houseID string) error {
	if _, err := r.db.Exec(`
		UPDATE house_link
		SET is_available = TRUE, unavailable_date = NULL
		WHERE house_id = $1
	`, houseID); err != nil {
		return fmt.Errorf("house_link: mark available %s: %w", houseID, err)
	}
	return nil
}
