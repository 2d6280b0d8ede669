package lever

import (
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

type Config struct {
	Boards []types.Board // api.lever.co/v0/postings/<slug>
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter

	apiBase string
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		apiBase: "https://api.lever.co/v0/postings",
	}
}

func (s *Scraper) Name() string { return "lever" }

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	DescriptionPlain string `json:"descriptionPlain"`
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
					log.Printf("[ats:lever] board=%q err=%v", b.Slug, err)
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

	log.Printf("[ats:lever] boards=%d records=%d", len(boards), len(out))
	return types.ScrapeResult{Source: "lever", Records: out}, nil
}

func (s *Scraper) fetchBoard(ctx context.Context, b types.Board, filters domain.SearchFilters) ([]domain.JobRecord, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", s.apiBase, b.Slug)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("lever status %d", res.StatusCode)
	}

	var postings []leverPosting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	out := make([]domain.JobRecord, 0, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.Text)
		if p.ID == "" || p.HostedURL == "" || title == "" {
			continue
		}
		if !scrape.MatchesQuery(title, filters.Query) {
			continue
		}

		loc := util.NormalizeLocation(p.Categories.Location)
		remote := util.IsRemoteLocation(loc)
		if !scrape.PassesStrictRemoteLocation(filters, loc, remote) {
			continue
		}

		level := util.InferExperienceLevel(title)
		if !scrape.PassesExperience(filters, level) {
			continue
		}

		var postedAt *time.Time
		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt)
			postedAt = &t
		}
		if !scrape.WithinRecency(filters, postedAt) {
			continue
		}

		desc := p.DescriptionPlain
		if len(desc) > 2000 {
			desc = desc[:2000]
		}

		out = append(out, domain.JobRecord{
			Title:       title,
			Company:     b.Name,
			Location:    loc,
			URL:         p.HostedURL,
			Source:      "lever",
			Remote:      remote,
			Experience:  level,
			Description: desc,
			PostedAt:    postedAt,
			SourceID:    fmt.Sprintf("lever:%s:%s", b.Slug, p.ID),
		})

		if filters.Limit > 0 && len(out) >= filters.Limit {
			break
		}
	}

	return out, nil
}
