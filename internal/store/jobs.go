package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

// InsertJobIgnore inserts a record unless its source_id already exists.
// Returns whether a new row was added.
func InsertJobIgnore(ctx context.Context, db *sql.DB, rec domain.JobRecord) (added bool, err error) {
	var postedAt any
	if rec.PostedAt != nil {
		postedAt = rec.PostedAt.UTC().Format(time.RFC3339)
	}

	// relies on unique index on source_id WHERE source_id != ''
	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (title, company, location, url, source, remote, experience, description, posted_at, source_id, first_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.Title, rec.Company, rec.Location, rec.URL, rec.Source,
		boolToInt(rec.Remote), rec.Experience, rec.Description, postedAt,
		rec.SourceID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// ListRecent returns jobs first seen within the window, newest first.
func ListRecent(ctx context.Context, db *sql.DB, window time.Duration, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	cutoff := time.Now().Add(-window).UTC().Format(time.RFC3339)

	rows, err := db.QueryContext(ctx, `
SELECT title, company, location, url, source, remote, experience, description, posted_at, source_id
FROM jobs
WHERE first_seen >= ?
ORDER BY first_seen DESC
LIMIT ?;`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		var rec domain.JobRecord
		var remote int
		var postedAt sql.NullString
		if err := rows.Scan(&rec.Title, &rec.Company, &rec.Location, &rec.URL,
			&rec.Source, &remote, &rec.Experience, &rec.Description, &postedAt, &rec.SourceID); err != nil {
			return nil, err
		}
		rec.Remote = remote != 0
		if postedAt.Valid {
			if t, err := time.Parse(time.RFC3339, postedAt.String); err == nil {
				rec.PostedAt = &t
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
