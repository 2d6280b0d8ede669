package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

// Scraper queries the JSearch RapidAPI aggregator (LinkedIn, Indeed,
// Glassdoor, ZipRecruiter). Runs only when an API key is available.
type Scraper struct {
	hc     *http.Client
	apiKey string

	apiBase string
}

func New(apiKey string) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		apiBase: "https://jsearch.p.rapidapi.com",
	}
}

func (s *Scraper) Name() string { return "jsearch" }

type jsJob struct {
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city"`
	Country     string `json:"job_country"`
	Description string `json:"job_description"`
	ApplyLink   string `json:"job_apply_link"`
	GoogleLink  string `json:"job_google_link"`
	PostedAt    string `json:"job_posted_at_datetime_utc"`
	IsRemote    bool   `json:"job_is_remote"`
	Required    *struct {
		ExperienceLevel string `json:"experience_level"`
	} `json:"job_required_experience"`
	ID string `json:"job_id"`
}

type jsResponse struct {
	Data []jsJob `json:"data"`
}

func (s *Scraper) Fetch(ctx context.Context, filters domain.SearchFilters) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: "jsearch"}
	if s.apiKey == "" {
		log.Printf("[jsearch] skipping: no RapidAPI key")
		return res, nil
	}

	query := filters.Query
	if filters.Location != "" {
		query = query + " in " + filters.Location
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", datePosted(filters.DaysAgo))
	if filters.RemoteOnly {
		params.Set("remote_jobs_only", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/search?"+params.Encode(), nil)
	if err != nil {
		return res, err
	}
	req.Header.Set("X-RapidAPI-Key", s.apiKey)
	req.Header.Set("X-RapidAPI-Host", "jsearch.p.rapidapi.com")

	resp, err := s.hc.Do(req)
	if err != nil {
		return res, fmt.Errorf("jsearch get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("jsearch status %d", resp.StatusCode)
	}

	var decoded jsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return res, fmt.Errorf("jsearch decode: %w", err)
	}

	for _, item := range decoded.Data {
		title := strings.TrimSpace(item.Title)
		jobURL := firstNonEmpty(item.ApplyLink, item.GoogleLink)
		if title == "" || jobURL == "" {
			continue
		}

		loc := util.NormalizeLocation(firstNonEmpty(item.City, item.Country))

		level := ""
		if item.Required != nil {
			level = util.NormalizeExperienceLevel(item.Required.ExperienceLevel)
		}
		if level == "" {
			level = util.InferExperienceLevel(title)
		}
		if !scrape.PassesExperience(filters, level) {
			continue
		}

		var postedAt *time.Time
		if t, err := time.Parse(time.RFC3339, item.PostedAt); err == nil {
			postedAt = &t
		}

		desc := item.Description
		if len(desc) > 2000 {
			desc = desc[:2000]
		}

		sourceID := item.ID
		if sourceID == "" {
			sourceID = util.HashString("url:" + jobURL)
		}

		res.Records = append(res.Records, domain.JobRecord{
			Title:       title,
			Company:     strings.TrimSpace(item.Employer),
			Location:    loc,
			URL:         jobURL,
			Source:      "jsearch",
			Remote:      item.IsRemote,
			Experience:  level,
			Description: desc,
			PostedAt:    postedAt,
			SourceID:    "jsearch:" + sourceID,
		})

		if filters.Limit > 0 && len(res.Records) >= filters.Limit {
			break
		}
	}

	log.Printf("[jsearch] records=%d", len(res.Records))
	return res, nil
}

func datePosted(daysAgo int) string {
	switch {
	case daysAgo <= 1:
		return "today"
	case daysAgo <= 3:
		return "3days"
	case daysAgo <= 7:
		return "week"
	default:
		return "month"
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
