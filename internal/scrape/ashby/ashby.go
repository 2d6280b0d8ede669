package ashby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

const boardQuery = `query ApiJobBoardWithTeams($organizationHostedJobsPageName: String!) {
  jobBoard: jobBoardWithTeams(organizationHostedJobsPageName: $organizationHostedJobsPageName) {
    jobPostings { id title locationName employmentType isRemote }
  }
}`

type Config struct {
	Boards []types.Board // jobs.ashbyhq.com/<slug>
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter

	apiURL string
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		apiURL:  "https://jobs.ashbyhq.com/api/non-user-graphql?op=ApiJobBoardWithTeams",
	}
}

func (s *Scraper) Name() string { return "ashby" }

type ashbyPosting struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	LocationName   string `json:"locationName"`
	EmploymentType string `json:"employmentType"`
	IsRemote       bool   `json:"isRemote"`
}

type ashbyResponse struct {
	Data struct {
		JobBoard *struct {
			JobPostings []ashbyPosting `json:"jobPostings"`
		} `json:"jobBoard"`
	} `json:"data"`
}

func (s *Scraper) Fetch(ctx context.Context, filters domain.SearchFilters) (types.ScrapeResult, error) {
	const workers = 8

	boards := s.cfg.Boards
	jobsCh := make(chan []domain.JobRecord, len(boards))
	workCh := make(chan types.Board)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for b := range workCh {
				bctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				jobs, err := s.fetchBoard(bctx, b, filters)
				cancel()

				if err != nil {
					log.Printf("[ats:ashby] board=%q err=%v", b.Slug, err)
					continue
				}
				if len(jobs) > 0 {
					jobsCh <- jobs
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, b := range boards {
			select {
			case <-ctx.Done():
				return
			case workCh <- b:
			}
		}
	}()

	wg.Wait()
	close(jobsCh)

	var out []domain.JobRecord
	for batch := range jobsCh {
		out = append(out, batch...)
	}

	log.Printf("[ats:ashby] boards=%d records=%d", len(boards), len(out))
	return types.ScrapeResult{Source: "ashby", Records: out}, nil
}

func (s *Scraper) fetchBoard(ctx context.Context, b types.Board, filters domain.SearchFilters) ([]domain.JobRecord, error) {
	payload := map[string]any{
		"operationName": "ApiJobBoardWithTeams",
		"query":         boardQuery,
		"variables": map[string]string{
			"organizationHostedJobsPageName": b.Slug,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ashby marshal: %w", err)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, s.apiURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ashby post: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("ashby status %d", res.StatusCode)
	}

	var decoded ashbyResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ashby decode: %w", err)
	}
	if decoded.Data.JobBoard == nil {
		return nil, fmt.Errorf("ashby board %q not found", b.Slug)
	}

	postings := decoded.Data.JobBoard.JobPostings
	out := make([]domain.JobRecord, 0, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.Title)
		if p.ID == "" || title == "" {
			continue
		}
		if !scrape.MatchesQuery(title, filters.Query) {
			continue
		}

		loc := util.NormalizeLocation(p.LocationName)
		remote := p.IsRemote || util.IsRemoteLocation(loc)
		if !scrape.PassesStrictRemoteLocation(filters, loc, remote) {
			continue
		}

		level := util.InferExperienceLevel(title)
		if !scrape.PassesExperience(filters, level) {
			continue
		}

		out = append(out, domain.JobRecord{
			Title:      title,
			Company:    b.Name,
			Location:   loc,
			URL:        fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", b.Slug, p.ID),
			Source:     "ashby",
			Remote:     remote,
			Experience: level,
			SourceID:   fmt.Sprintf("ashby:%s:%s", b.Slug, p.ID),
		})

		if filters.Limit > 0 && len(out) >= filters.Limit {
			break
		}
	}

	return out, nil
}
