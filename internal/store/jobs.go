// Package store is the sqlite archive of every job the engine has ever
// seen, browsable through the status API long after a posting leaves the
// history window.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobradar-engine/internal/domain"
)

// sqliteTime matches the text form sqlite's own datetime('now') emits, so
// stored timestamps and window bounds collate lexicographically. RFC3339
// would not: its 'T' separator sorts after datetime()'s space.
const sqliteTime = "2006-01-02 15:04:05"

type ArchivedJob struct {
	ID        int64  `json:"id"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	URL       string `json:"url"`
	EmpType   string `json:"employment_type"`
	Posted    string `json:"date_posted"`
	Source    string `json:"source"`
	DateFound string `json:"date_found"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL,
  url TEXT NOT NULL,
  employment_type TEXT NOT NULL DEFAULT '',
  date_posted TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  date_found TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_url
ON jobs(url)
WHERE url != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_date_found
ON jobs(date_found);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertJobIgnore archives a job, keyed by URL; re-seeing a posting is a
// no-op. Returns whether a row was actually added.
func InsertJobIgnore(ctx context.Context, db *sql.DB, j domain.Job, source string) (bool, error) {
	if j.URL == "" {
		return false, nil
	}
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (company, title, location, url, employment_type, date_posted, source, date_found)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		j.Company, j.Title, j.Location, j.URL, j.EmploymentType, j.DatePosted,
		source, time.Now().UTC().Format(sqliteTime),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListJobs returns archived jobs inside a time window, newest first.
// Window is "24h", "7d", or "all".
func ListJobs(ctx context.Context, db *sql.DB, window string, limit int) ([]ArchivedJob, error) {
	if limit <= 0 || limit > 2000 {
		limit = 500
	}

	where := ""
	switch window {
	case "24h":
		where = "WHERE date_found >= datetime('now','-24 hours')"
	case "all":
	default:
		where = "WHERE date_found >= datetime('now','-7 days')"
	}

	query := fmt.Sprintf(`
SELECT id, company, title, location, url, employment_type, date_posted, source, date_found
FROM jobs
%s
ORDER BY date_found DESC
LIMIT ?;`, where)

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchivedJob
	for rows.Next() {
		var j ArchivedJob
		if err := rows.Scan(&j.ID, &j.Company, &j.Title, &j.Location, &j.URL,
			&j.EmpType, &j.Posted, &j.Source, &j.DateFound); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// CleanupOldJobs drops archive rows older than three months.
func CleanupOldJobs(db *sql.DB) (int64, error) {
	res, err := db.Exec(`
DELETE FROM jobs
WHERE date_found < datetime('now', '-3 months');
`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
