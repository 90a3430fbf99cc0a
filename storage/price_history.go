package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PriceHistoryRepo maintains the append-only per-house price ledger.
type PriceHistoryRepo struct {
	db *sql.DB
}

// RecordPrice appends a history row when the observed price differs from
// the most recent recorded one (or when no history exists yet). Existing
// rows are never rewritten. Returns whether a row was appended.
//
// The check-then-append runs inside one transaction holding a per-house
// advisory lock, so concurrent detail-crawl workers observing the same
// house cannot both append.
func (r *PriceHistoryRepo) RecordPrice(houseID string, price int, priceDate time.Time) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("price_history: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, houseID); err != nil {
		return false, fmt.Errorf("price_history: lock %s: %w", houseID, err)
	}

	var latest int
	err = tx.QueryRow(`
		SELECT price FROM house_price_history
		WHERE house_id = $1
		ORDER BY price_date DESC, id DESC
		LIMIT 1
	`, houseID).Scan(&latest)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// no history yet, fall through to append
	case err != nil:
		return false, fmt.Errorf("price_history: latest %s: %w", houseID, err)
	case latest == price:
		return false, tx.Commit()
	}

	if _, err := tx.Exec(`
		INSERT INTO house_price_history (house_id, price, price_date)
		VALUES ($1, $2, $3)
	`, houseID, price, priceDate); err != nil {
		return false, fmt.Errorf("price_history: append %s: %w", houseID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("price_history: commit %s: %w", houseID, err)
	}
	return true, nil
}

// History returns the recorded prices for one house, oldest first.
func (r *PriceHistoryRepo) History(houseID string) ([]int, error) {
	rows, err := r.db.Query(`
		SELECT price FROM house_price_history
		WHERE house_id = $1
		ORDER BY price_date ASC, id ASC
	`, houseID)
	if err != nil {
		return nil, fmt.Errorf("price_history: history %s: %w", houseID, err)
	}
	defer rows.Close()

	var prices []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("price_history: scan %s: %w", houseID, err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
