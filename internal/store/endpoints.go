package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

// GetEndpoint returns the cached resolution for a company, or ok=false
// when none is cached.
func GetEndpoint(ctx context.Context, db *sql.DB, company string) (domain.VerifiedEndpoint, bool, error) {
	company = normalizeCompanyKey(company)
	if company == "" {
		return domain.VerifiedEndpoint{}, false, nil
	}

	var ep domain.VerifiedEndpoint
	var atsType string
	var verified int
	err := db.QueryRowContext(ctx, `
SELECT ats_type, slug, direct_url, job_count, verified
FROM ats_endpoints WHERE company = ? LIMIT 1;`, company).
		Scan(&atsType, &ep.Slug, &ep.DirectURL, &ep.JobCount, &verified)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.VerifiedEndpoint{}, false, nil
	}
	if err != nil {
		return domain.VerifiedEndpoint{}, false, err
	}

	ep.Backend = domain.BackendType(atsType)
	ep.Verified = verified != 0
	return ep, true, nil
}

func UpsertEndpoint(ctx context.Context, db *sql.DB, company string, ep domain.VerifiedEndpoint) error {
	company = normalizeCompanyKey(company)
	if company == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO ats_endpoints(company, ats_type, slug, direct_url, job_count, verified, resolved_at)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(company) DO UPDATE SET
  ats_type = excluded.ats_type,
  slug = excluded.slug,
  direct_url = excluded.direct_url,
  job_count = excluded.job_count,
  verified = excluded.verified,
  resolved_at = excluded.resolved_at;
`, company, string(ep.Backend), ep.Slug, ep.DirectURL, ep.JobCount,
		boolToInt(ep.Verified), time.Now().UTC().Format(time.RFC3339))

	return err
}

func normalizeCompanyKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
