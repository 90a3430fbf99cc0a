package storage

import (
	"database/sql"
	"fmt"
	"time"

	"houspider/models"
)

// StatsRepo persists the per-run aggregate counters.
type StatsRepo struct {
	db *sql.DB
}

// UpsertRunStats records one reconciliation run's counters for its scope.
// added/reopened/updated are authoritative per run and overwritten;
// new_unavailable is additive because the detail-crawl 404 pass
// contributes to the same logical run later.
func (r *StatsRepo) UpsertRunStats(st *models.CrawlStats) error {
	if _, err := r.db.Exec(`
		INSERT INTO crawler_stats (crawl_date, category, city, new_added, reopened, updated, new_unavailable)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (crawl_date, category, city) DO UPDATE SET
			new_added       = EXCLUDED.new_added,
			reopened        = EXCLUDED.reopened,
			updated         = EXCLUDED.updated,
			new_unavailable = crawler_stats.new_unavailable + EXCLUDED.new_unavailable
	`, st.CrawlDate, string(st.Category), string(st.City),
		st.NewAdded, st.Reopened, st.Updated, st.NewUnavailable); err != nil {
		return fmt.Errorf("crawler_stats: upsert: %w", err)
	}
	return nil
}

// AddUnavailable adds the detail phase's newly-unavailable count to the
// scope's counters, creating the row if the reconciliation phase has not
// written it yet.
func (r *StatsRepo) AddUnavailable(crawlDate time.Time, category models.Category, city models.City, n int) error {
	if _, err := r.db.Exec(`
		INSERT INTO crawler_stats (crawl_date, category, city, new_unavailable)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (crawl_date, category, city) DO UPDATE SET
			new_unavailable = crawler_stats.new_unavailable + EXCLUDED.new_unavailable
	`, crawlDate, string(category), string(city), n); err != nil {
		return fmt.Errorf("crawler_stats: add unavailable: %w", err)
	}
	return nil
}

// ForDate returns every scope's counters for one crawl date, ordered for
// the summary mail.
func (r *StatsRepo) ForDate(crawlDate time.Time) ([]*models.CrawlStats, error) {
	rows, err := r.db.Query(`
		SELECT crawl_date, category, city, new_added, reopened, updated, new_unavailable
		FROM crawler_stats
		WHERE crawl_date = $1
		ORDER BY city, category
	`, crawlDate)
	if err != nil {
		return nil, fmt.Errorf("crawler_stats: for date: %w", err)
	}
	defer rows.Close()

	var stats []*models.CrawlStats
	for rows.Next() {
		st := &models.CrawlStats{}
		if err := rows.Scan(&st.CrawlDate, &st.Category, &st.City,
			&st.NewAdded, &st.Reopened, &st.Updated, &st.NewUnavailable); err != nil {
			return nil, fmt.Errorf("crawler_stats: scan: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
