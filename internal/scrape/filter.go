package scrape

import (
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

// MatchesQuery accepts a title containing any whitespace-split query term,
// substring match, not whole-word. An empty query matches everything.
func MatchesQuery(title, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}
	t := strings.ToLower(title)
	for _, term := range terms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}

// PassesRemoteLocation is the crawler-path rule. Remote-only is a strict
// precondition when no location filter is set; a configured location filter
// that matches the extracted location rescues a non-remote job even under
// remote-only. That asymmetry is observed production behavior and kept
// deliberately (see DESIGN.md).
func PassesRemoteLocation(f domain.SearchFilters, location string, remote bool) bool {
	if !f.RemoteOnly || remote {
		return true
	}
	if f.Location == "" || location == "" {
		return false
	}
	return strings.Contains(strings.ToLower(location), strings.ToLower(f.Location))
}

// PassesStrictRemoteLocation is the vendor-path rule: remote-only and the
// location substring are independent hard requirements.
func PassesStrictRemoteLocation(f domain.SearchFilters, location string, remote bool) bool {
	if f.RemoteOnly && !remote {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(location), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

// PassesExperience rejects only when both sides declare a level and they
// disagree; records with unknown seniority always pass.
func PassesExperience(f domain.SearchFilters, level string) bool {
	if f.Experience == "" || level == "" {
		return true
	}
	return f.Experience == level
}

// WithinRecency keeps records without a posting date; the window only
// applies where the source reported one.
func WithinRecency(f domain.SearchFilters, postedAt *time.Time) bool {
	if f.DaysAgo <= 0 || postedAt == nil || postedAt.IsZero() {
		return true
	}
	cutoff := time.Now().AddDate(0, 0, -f.DaysAgo)
	return !postedAt.Before(cutoff)
}
