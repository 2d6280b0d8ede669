package types

import (
	"context"

	"jobscout-engine/internal/domain"
)

type ScrapeResult struct {
	Source  string
	Records []domain.JobRecord
}

// Fetcher is one job source: a vendor board fetcher, the aggregator API or
// the email ingest. Filters are read-only; a Fetcher returns partial results
// plus nil error when individual boards fail.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, filters domain.SearchFilters) (ScrapeResult, error)
}

// Board is one verified tenant board a vendor fetcher should pull.
type Board struct {
	Slug string
	Name string // company display name
}
