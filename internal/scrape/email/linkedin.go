package email

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/scrape/util"
)

var reJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

type alertJob struct {
	Title    string
	Company  string
	Location string
	URL      string
	SourceID string
}

// parseLinkedInAlert merges the multiple anchors an alert template emits
// for the same job id (logo anchor, title anchor, card anchor) into one
// entry, so a title-less logo link seen first cannot shadow the real one.
func parseLinkedInAlert(body string) ([]alertJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	byID := map[string]*alertJob{}
	order := []string{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		lh := strings.ToLower(href)
		if !strings.Contains(lh, "linkedin.com") || !strings.Contains(lh, "/jobs/view/") {
			return
		}

		jobURL := unwrapRedirect(href)
		if jobURL == "" {
			return
		}
		jobURL = util.CanonicalizeURL(jobURL)

		sourceID := ""
		if m := reJobID.FindStringSubmatch(jobURL); len(m) == 2 {
			sourceID = "email:linkedin:" + m[1]
		}
		key := sourceID
		if key == "" {
			key = jobURL
		}

		j, ok := byID[key]
		if !ok {
			j = &alertJob{URL: jobURL, SourceID: sourceID}
			byID[key] = j
			order = append(order, key)
		}

		if t := plausibleTitle(a.Text()); t != "" && j.Title == "" {
			j.Title = t
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}

		// "Company · Location" lives in a <p> next to the title anchor.
		card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			t := util.CleanText(p.Text())
			if t == "" || !strings.Contains(t, " · ") {
				return true
			}
			parts := strings.SplitN(t, " · ", 2)
			if j.Company == "" {
				j.Company = strings.TrimSpace(parts[0])
			}
			if j.Location == "" {
				j.Location = util.NormalizeLocation(parts[1])
			}
			return false
		})
	})

	out := make([]alertJob, 0, len(byID))
	for _, key := range order {
		j := byID[key]
		if j.Title == "" || j.URL == "" {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

var titleJunk = []string{"Actively recruiting", "Easy Apply", "Promoted"}

func plausibleTitle(s string) string {
	s = util.CleanText(s)
	for _, junk := range titleJunk {
		s = strings.TrimSpace(strings.ReplaceAll(s, junk, ""))
	}
	if len(s) < 4 || len(s) > 150 {
		return ""
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "connections") || strings.Contains(low, "applicants") ||
		strings.Contains(low, "see all jobs") || strings.Contains(low, "unsubscribe") {
		return ""
	}
	return s
}

func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	if u.Host != "" {
		return u.String()
	}
	return ""
}
