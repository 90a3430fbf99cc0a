package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"houspider/utils"
)

// Store is the per-run PostgreSQL handle. It is passed explicitly into
// every component call; there is no ambient connection state.
type Store struct {
	db     *sql.DB
	logger *utils.Logger
}

// Open connects to PostgreSQL, runs schema migrations, and returns a
// ready-to-use Store.
func Open(dsn string, logger *utils.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS house_link (
			house_id             TEXT PRIMARY KEY,
			is_pr_item           BOOLEAN     NOT NULL DEFAULT FALSE,
			listing_house_name   TEXT        NOT NULL DEFAULT '',
			listing_house_price  BIGINT,
			manage_fee           BIGINT,
			sale_category        VARCHAR(32) NOT NULL,
			city                 VARCHAR(32) NOT NULL,
			is_available         BOOLEAN     NOT NULL DEFAULT TRUE,
			first_available_date DATE        NOT NULL,
			unavailable_date     DATE
		);

		CREATE INDEX IF NOT EXISTS idx_house_link_available
			ON house_link(is_available, sale_category, city);

		CREATE TABLE IF NOT EXISTS house_price_history (
			id         SERIAL PRIMARY KEY,
			house_id   TEXT   NOT NULL,
			price      BIGINT NOT NULL,
			price_date DATE   NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_price_history_house
			ON house_price_history(house_id, price_date);

		CREATE TABLE IF NOT EXISTS crawler_stats (
			crawl_date      DATE        NOT NULL,
			category        VARCHAR(32) NOT NULL,
			city            VARCHAR(32) NOT NULL,
			new_added       INT NOT NULL DEFAULT 0,
			reopened        INT NOT NULL DEFAULT 0,
			updated         INT NOT NULL DEFAULT 0,
			new_unavailable INT NOT NULL DEFAULT 0,
			PRIMARY KEY (crawl_date, category, city)
		);

		CREATE TABLE IF NOT EXISTS house_info (
			house_id            TEXT PRIMARY KEY,
			name                TEXT,
			room                TEXT,
			price               BIGINT NOT NULL DEFAULT 0,
			address             TEXT,
			district            TEXT NOT NULL DEFAULT '',
			money_kyoueki       INT NOT NULL DEFAULT 0,
			money_shuuzen       INT NOT NULL DEFAULT 0,
			build_date          DATE,
			age                 INT,
			window_angle        TEXT,
			house_area          DOUBLE PRECISION NOT NULL DEFAULT 0,
			balcony_area        DOUBLE PRECISION NOT NULL DEFAULT 0,
			has_balcony         BOOLEAN NOT NULL DEFAULT FALSE,
			floor_plan          TEXT,
			feature_comment     TEXT,
			register_date       DATE,
			has_elevator        BOOLEAN NOT NULL DEFAULT FALSE,
			note                TEXT,
			has_special_note    BOOLEAN NOT NULL DEFAULT FALSE,
			unit_num            INT NOT NULL DEFAULT 0,
			floor_num           INT,
			num_total_floor     INT,
			structure           TEXT,
			land_usage          TEXT,
			land_position       TEXT,
			land_right          TEXT,
			land_money_shakuchi INT,
			land_term           TEXT,
			land_kokudoho       TEXT,
			other_fee_details   TEXT,
			total_other_fee     INT NOT NULL DEFAULT 0,
			manage_details      TEXT,
			latest_rent_status  TEXT,
			trade_method        TEXT,
			num_null_fields     INT NOT NULL DEFAULT 0,
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS rent_info (
			house_id         TEXT PRIMARY KEY,
			name             TEXT,
			room             TEXT,
			rent             DOUBLE PRECISION NOT NULL DEFAULT 0,
			manage_fee       DOUBLE PRECISION NOT NULL DEFAULT 0,
			deposit_months   DOUBLE PRECISION NOT NULL DEFAULT 0,
			gift_months      DOUBLE PRECISION NOT NULL DEFAULT 0,
			guarantee_months DOUBLE PRECISION NOT NULL DEFAULT 0,
			shokyaku_months  DOUBLE PRECISION NOT NULL DEFAULT 0,
			address          TEXT,
			district         TEXT NOT NULL DEFAULT '',
			build_date       DATE,
			age              INT,
			num_null_fields  INT NOT NULL DEFAULT 0,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS stations_near_house (
			house_id     TEXT NOT NULL,
			line_name    TEXT NOT NULL,
			station_name TEXT NOT NULL,
			walk_minutes INT  NOT NULL,
			PRIMARY KEY (house_id, line_name, station_name)
		);
	`)
	return err
}

// HouseLinks returns the listing-state repository.
func (s *Store) HouseLinks() *HouseLinkRepo {
	return &HouseLinkRepo{db: s.db}
}

// Prices returns the price-history repository.
func (s *Store) Prices() *PriceHistoryRepo {
	return &PriceHistoryRepo{db: s.db}
}

// Stats returns the crawl-stats repository.
func (s *Store) Stats() *StatsRepo {
	return &StatsRepo{db: s.db}
}

// HouseInfos returns the detail-page repository.
func (s *Store) HouseInfos() *HouseInfoRepo {
	return &HouseInfoRepo{db: s.db}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
