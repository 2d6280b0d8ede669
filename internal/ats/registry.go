package ats

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"jobscout-engine/internal/domain"
)

// The registries are ordered data, first match wins. Within a backend the
// more specific pattern comes first; across backends insertion order decides,
// though the vendor domains are disjoint so ties do not occur in practice.

type urlPattern struct {
	backend domain.BackendType
	re      *regexp.Regexp
}

var urlPatterns = []urlPattern{
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)job-boards\.greenhouse\.io/(\w+)`)},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)boards\.greenhouse\.io/(\w+)`)},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)api\.greenhouse\.io`)},
	{domain.BackendLever, regexp.MustCompile(`(?i)jobs\.lever\.co/(\w+)`)},
	{domain.BackendAshby, regexp.MustCompile(`(?i)jobs\.ashbyhq\.com/(\w+)`)},
	{domain.BackendWorkday, regexp.MustCompile(`(?i)(\w+)\.wd\d+\.myworkdayjobs\.com`)},
	{domain.BackendWorkday, regexp.MustCompile(`(?i)(\w+)\.myworkdaysite\.com`)},
}

type markupPattern struct {
	backend domain.BackendType
	re      *regexp.Regexp
	kind    string // iframe/script/embed/link/api/config
}

var markupPatterns = []markupPattern{
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)<iframe[^>]+src=["']([^"']*greenhouse\.io[^"']*)["']`), "iframe"},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)<script[^>]+src=["']([^"']*greenhouse\.io[^"']*)["']`), "script"},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)data-greenhouse-embed[^>]*["']([^"']+)["']`), "embed"},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)boards\.greenhouse\.io/(\w+)`), "link"},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)job-boards\.greenhouse\.io/(\w+)`), "link"},
	{domain.BackendGreenhouse, regexp.MustCompile(`(?i)"greenhouse":\s*{\s*"board_token":\s*"(\w+)"`), "config"},
	{domain.BackendLever, regexp.MustCompile(`(?i)<iframe[^>]+src=["']([^"']*lever\.co[^"']*)["']`), "iframe"},
	{domain.BackendLever, regexp.MustCompile(`(?i)jobs\.lever\.co/(\w+)`), "link"},
	{domain.BackendLever, regexp.MustCompile(`(?i)api\.lever\.co/v0/postings/(\w+)`), "api"},
	{domain.BackendAshby, regexp.MustCompile(`(?i)<iframe[^>]+src=["']([^"']*ashbyhq\.com[^"']*)["']`), "iframe"},
	{domain.BackendAshby, regexp.MustCompile(`(?i)jobs\.ashbyhq\.com/(\w+)`), "link"},
	{domain.BackendWorkday, regexp.MustCompile(`(?i)<iframe[^>]+src=["']([^"']*workday[^"']*)["']`), "iframe"},
	{domain.BackendWorkday, regexp.MustCompile(`(?i)(\w+)\.wd\d+\.myworkdayjobs\.com`), "link"},
}

// ClassifyURL matches a career URL against the backend patterns and returns
// the backend plus captured tenant slug. Patterns without a capture group
// (api.greenhouse.io) classify the backend with an empty slug.
func ClassifyURL(raw string) (domain.ATSCandidate, bool) {
	for _, p := range urlPatterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		slug := ""
		if len(m) > 1 {
			slug = m[1]
		}
		return domain.ATSCandidate{Backend: p.backend, Slug: slug}, true
	}
	return domain.ATSCandidate{}, false
}

// ClassifyMarkup scans raw page markup for embedded-board indicators. The
// returned Slug may be either a bare slug or a full URL (iframe/script
// sources); callers derive the slug with SlugFromURL when it looks like one.
func ClassifyMarkup(html string) (domain.ATSCandidate, bool) {
	for _, p := range markupPatterns {
		m := p.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		val := ""
		if len(m) > 1 {
			val = m[1]
		}
		return domain.ATSCandidate{Backend: p.backend, Slug: val}, true
	}
	return domain.ATSCandidate{}, false
}

// SlugFromURL takes the first non-empty path segment of an ATS URL.
func SlugFromURL(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// BoardURL builds the public board URL for the REST-style backends. Workday
// boards have no single canonical shape, so it returns "" there.
func BoardURL(backend domain.BackendType, slug string) string {
	switch backend {
	case domain.BackendGreenhouse:
		return fmt.Sprintf("https://boards.greenhouse.io/%s", slug)
	case domain.BackendLever:
		return fmt.Sprintf("https://jobs.lever.co/%s", slug)
	case domain.BackendAshby:
		return fmt.Sprintf("https://jobs.ashbyhq.com/%s", slug)
	}
	return ""
}
