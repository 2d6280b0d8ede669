package util

import "strings"

var (
	seniorCues = []string{"senior", "sr.", "sr ", "staff", "principal", "lead", " iv", " v"}
	entryCues  = []string{"junior", "jr.", "jr ", "entry", "associate", "new grad", " i ", " 1 "}
	midCues    = []string{" ii", " 2", " iii", " 3", "mid"}
)

// InferExperienceLevel guesses a seniority tier from a job title. Tiers are
// checked senior, then entry, then mid, so "Senior Engineer II" lands on
// senior. Returns "" when no cue matches.
func InferExperienceLevel(title string) string {
	t := strings.ToLower(title)
	for _, cue := range seniorCues {
		if strings.Contains(t, cue) {
			return "senior"
		}
	}
	for _, cue := range entryCues {
		if strings.Contains(t, cue) {
			return "entry"
		}
	}
	for _, cue := range midCues {
		if strings.Contains(t, cue) {
			return "mid"
		}
	}
	return ""
}

// NormalizeExperienceLevel maps a vendor-supplied level string ("Mid-Senior
// level", "Entry level", ...) onto the same tiers as InferExperienceLevel.
func NormalizeExperienceLevel(level string) string {
	l := strings.ToLower(level)
	switch {
	case containsAny(l, "entry", "junior", "associate", "i ", " 1", "new grad"):
		return "entry"
	case containsAny(l, "senior", "sr", "lead", "principal", "staff"):
		return "senior"
	case containsAny(l, "mid", "intermediate", "ii ", " 2"):
		return "mid"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
