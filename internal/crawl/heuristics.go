package crawl

import (
	"regexp"
	"strings"
)

// URL shapes that mark a link as a job posting. A known ATS host counts even
// when the path is unfamiliar.
var jobURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/jobs?/`),
	regexp.MustCompile(`/careers?/`),
	regexp.MustCompile(`/positions?/`),
	regexp.MustCompile(`/openings?/`),
	regexp.MustCompile(`/opportunities?/`),
	regexp.MustCompile(`/details/`),
	regexp.MustCompile(`/job-details/`),
	regexp.MustCompile(`/apply/`),
	regexp.MustCompile(`/requisition/`),
	regexp.MustCompile(`/posting/`),
	regexp.MustCompile(`greenhouse\.io/.*jobs`),
	regexp.MustCompile(`lever\.co/`),
	regexp.MustCompile(`ashbyhq\.com/`),
	regexp.MustCompile(`workable\.com/`),
	regexp.MustCompile(`smartrecruiters\.com/`),
	regexp.MustCompile(`myworkday`),
	regexp.MustCompile(`icims\.com/`),
}

// Navigational paths that are never postings. Checked first and
// authoritative: a URL matching both lists is rejected.
var excludeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/search`),
	regexp.MustCompile(`/filter`),
	regexp.MustCompile(`/category`),
	regexp.MustCompile(`/team`),
	regexp.MustCompile(`/location`),
	regexp.MustCompile(`/department`),
	regexp.MustCompile(`/login`),
	regexp.MustCompile(`/signin`),
	regexp.MustCompile(`/about`),
	regexp.MustCompile(`/blog`),
	regexp.MustCompile(`/news`),
	regexp.MustCompile(`#`),
	regexp.MustCompile(`javascript:`),
}

func IsJobURL(href string) bool {
	low := strings.ToLower(href)
	for _, re := range excludeURLPatterns {
		if re.MatchString(low) {
			return false
		}
	}
	for _, re := range jobURLPatterns {
		if re.MatchString(low) {
			return true
		}
	}
	return false
}

// phrases that mark link text as navigation chrome rather than a title
var titleSkipWords = []string{
	"apply", "view all", "see all", "load more", "show more", "back", "next", "previous",
}

// PlausibleTitle takes the first non-empty line of link text and accepts it
// as a job title when it sits in a plausible length band and carries no
// navigation phrase.
func PlausibleTitle(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !withinTitleBand(line) {
			return "", false
		}
		low := strings.ToLower(line)
		for _, skip := range titleSkipWords {
			if strings.Contains(low, skip) {
				return "", false
			}
		}
		return line, true
	}
	return "", false
}

func withinTitleBand(s string) bool {
	return len(s) > 10 && len(s) < 150
}

// tokens that mark a text line as a probable location
var locationCues = []string{",", "Remote", "USA", "US", "UK", "CA", "San", "New York", "London"}

func LooksLikeLocationLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) >= 100 {
		return false
	}
	for _, cue := range locationCues {
		if strings.Contains(line, cue) {
			return true
		}
	}
	return false
}
