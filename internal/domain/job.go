package domain

import "time"

// JobRecord is the normalized unit every extraction path produces.
// Source always names the concrete producing path (vendor name, "jsearch",
// "email" or "crawler"); downstream dedupe keys off SourceID which embeds it.
type JobRecord struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Source      string
	Remote      bool
	Experience  string // "", "entry", "mid", "senior"
	Description string
	PostedAt    *time.Time
	SourceID    string // e.g. "greenhouse:<slug>:<id>"
}

// SearchFilters is supplied by the caller and read-only throughout a run.
type SearchFilters struct {
	Query      string
	Location   string
	RemoteOnly bool
	Experience string
	DaysAgo    int
	Limit      int
}

const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)
