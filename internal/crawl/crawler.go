package crawl

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/util"
)

// Waits tunes the fixed settle delays the crawl protocol relies on. These
// are empirical defaults, not readiness signals.
type Waits struct {
	NavTimeout  time.Duration
	Settle      time.Duration
	AfterSearch time.Duration
	ScrollPause time.Duration
	Scrolls     int
}

func DefaultWaits() Waits {
	return Waits{
		NavTimeout:  90 * time.Second,
		Settle:      3 * time.Second,
		AfterSearch: 3 * time.Second,
		ScrollPause: time.Second,
		Scrolls:     3,
	}
}

// Crawler is the fallback extraction path for companies with no resolvable
// backend. It drives a fixed navigation protocol over live pages and applies
// structural heuristics to anchor elements; every step is best effort and a
// failed step never aborts the ones after it.
type Crawler struct {
	engine *Engine
	waits  Waits
}

func New(engine *Engine, waits Waits) *Crawler {
	d := DefaultWaits()
	if waits.NavTimeout <= 0 {
		waits.NavTimeout = d.NavTimeout
	}
	if waits.Settle <= 0 {
		waits.Settle = d.Settle
	}
	if waits.AfterSearch <= 0 {
		waits.AfterSearch = d.AfterSearch
	}
	if waits.ScrollPause <= 0 {
		waits.ScrollPause = d.ScrollPause
	}
	if waits.Scrolls <= 0 {
		waits.Scrolls = d.Scrolls
	}
	return &Crawler{engine: engine, waits: waits}
}

// Crawl runs the six-step protocol against one career page and returns
// whatever postings it could extract, possibly none. The browser context is
// torn down on every exit path.
func (c *Crawler) Crawl(companyName, careerURL string, filters domain.SearchFilters) []domain.JobRecord {
	s, err := c.engine.newSession()
	if err != nil {
		log.Printf("[crawl] company=%q session err=%v", companyName, err)
		return nil
	}
	defer s.close()

	page := s.page

	// step 1: initial navigation; if this fails we have nothing to harvest
	if err := c.goTo(page, careerURL); err != nil {
		log.Printf("[crawl] company=%q goto %s err=%v", companyName, careerURL, err)
		return nil
	}
	time.Sleep(c.waits.Settle)

	// step 2: many landing pages only link to the real listing page
	if jobsURL := c.findJobsPageLink(page, careerURL); jobsURL != "" && jobsURL != careerURL {
		if err := c.goTo(page, jobsURL); err == nil {
			time.Sleep(c.waits.Settle)
		}
	}

	// step 3: search, if the page has something searchable
	if c.trySearch(page, filters.Query) {
		time.Sleep(c.waits.AfterSearch)
	}

	// step 4: nudge lazy/infinite-scroll listings
	c.scrollPage(page)

	// steps 5+6: harvest anchors and sieve them
	return c.extractJobs(page, companyName, filters)
}

func (c *Crawler) goTo(page playwright.Page, rawURL string) error {
	_, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(c.waits.NavTimeout.Milliseconds())),
	})
	return err
}

var jobsLinkSelectors = []string{
	`a[href*="/jobs"]`,
	`a[href*="/openings"]`,
	`a[href*="/positions"]`,
	`a:has-text("View all jobs")`,
	`a:has-text("See all jobs")`,
	`a:has-text("Open roles")`,
	`a:has-text("Explore roles")`,
	`a:has-text("View openings")`,
	`a:has-text("Browse jobs")`,
}

func (c *Crawler) findJobsPageLink(page playwright.Page, baseURL string) string {
	for _, sel := range jobsLinkSelectors {
		link := page.Locator(sel).First()
		if n, err := link.Count(); err != nil || n == 0 {
			continue
		}
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		low := strings.ToLower(href)
		if strings.Contains(low, "login") || strings.Contains(low, "signin") ||
			strings.Contains(low, "#") || strings.Contains(low, "javascript") {
			continue
		}
		return resolveURL(baseURL, href)
	}
	return ""
}

var searchInputSelectors = []string{
	`input[type="search"]`,
	`input[placeholder*="search" i]`,
	`input[placeholder*="keyword" i]`,
	`input[name*="search" i]`,
	`input[name*="query" i]`,
	`input[name*="keyword" i]`,
	`input[id*="search" i]`,
	`input[class*="search" i]`,
	`input[aria-label*="search" i]`,
}

var searchButtonSelectors = []string{
	`button[type="submit"]`,
	`button[aria-label*="search" i]`,
	`button[class*="search" i]`,
	`[role="button"][class*="search" i]`,
}

func (c *Crawler) trySearch(page playwright.Page, query string) bool {
	for _, sel := range searchInputSelectors {
		input := page.Locator(sel).First()
		if n, err := input.Count(); err != nil || n == 0 {
			continue
		}
		if visible, err := input.IsVisible(); err != nil || !visible {
			continue
		}
		if err := input.Fill(query); err != nil {
			continue
		}
		time.Sleep(500 * time.Millisecond)

		// submit twice: Enter always, plus a button when one is around,
		// since plenty of pages wire only one of the two
		_ = input.Press("Enter")
		time.Sleep(time.Second)

		for _, btnSel := range searchButtonSelectors {
			btn := page.Locator(btnSel).First()
			if n, err := btn.Count(); err != nil || n == 0 {
				continue
			}
			if visible, err := btn.IsVisible(); err != nil || !visible {
				continue
			}
			if err := btn.Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(2000),
			}); err == nil {
				break
			}
		}
		return true
	}
	return false
}

func (c *Crawler) scrollPage(page playwright.Page) {
	for i := 0; i < c.waits.Scrolls; i++ {
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return
		}
		time.Sleep(c.waits.ScrollPause)
	}
}

func (c *Crawler) extractJobs(page playwright.Page, companyName string, filters domain.SearchFilters) []domain.JobRecord {
	var jobs []domain.JobRecord
	seen := map[string]bool{}
	baseURL := page.URL()

	links, err := page.Locator("a[href]").All()
	if err != nil {
		log.Printf("[crawl] company=%q collect links err=%v", companyName, err)
		return jobs
	}

	for _, link := range links {
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		if !IsJobURL(href) {
			continue
		}

		fullURL := resolveURL(baseURL, href)
		key := util.DedupeKey(fullURL)
		if seen[key] {
			continue
		}
		seen[key] = true

		title := c.extractTitle(link)
		if title == "" {
			continue
		}
		if !scrape.MatchesQuery(title, filters.Query) {
			continue
		}

		location := c.extractLocation(link)
		remote := util.IsRemoteLocation(location)
		if !scrape.PassesRemoteLocation(filters, location, remote) {
			continue
		}

		jobs = append(jobs, domain.JobRecord{
			Title:      title,
			Company:    companyName,
			Location:   location,
			URL:        fullURL,
			Source:     "crawler",
			Remote:     remote,
			Experience: util.InferExperienceLevel(title),
			SourceID:   "crawler:" + key,
		})

		if filters.Limit > 0 && len(jobs) >= filters.Limit {
			break
		}
	}

	return jobs
}

var titleChildSelectors = []string{"h1", "h2", "h3", "h4", `[class*="title"]`, `[class*="name"]`}

func (c *Crawler) extractTitle(link playwright.Locator) string {
	text, err := link.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(1000),
	})
	if err == nil {
		if title, ok := PlausibleTitle(text); ok {
			return title
		}
	}

	for _, sel := range titleChildSelectors {
		child := link.Locator(sel).First()
		if n, err := child.Count(); err != nil || n == 0 {
			continue
		}
		text, err := child.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(500),
		})
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if withinTitleBand(text) {
			return text
		}
	}
	return ""
}

var locationChildSelectors = []string{
	`[class*="location"]`,
	`[class*="Location"]`,
	`[class*="place"]`,
}

func (c *Crawler) extractLocation(link playwright.Locator) string {
	parent := link.Locator("xpath=..")
	if n, err := parent.Count(); err != nil || n == 0 {
		return ""
	}

	for _, sel := range locationChildSelectors {
		el := parent.Locator(sel).First()
		if n, err := el.Count(); err != nil || n == 0 {
			continue
		}
		text, err := el.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(500),
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return util.CleanText(text)
		}
	}

	// fall back to any parent text line that reads like a location
	text, err := parent.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(500),
	})
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		if LooksLikeLocationLine(line) {
			return util.CleanText(line)
		}
	}
	return ""
}

func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
