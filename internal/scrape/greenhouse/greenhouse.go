package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

type Config struct {
	Boards []types.Board // boards-api.greenhouse.io/v1/boards/<slug>
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
		apiBase: "https://boards-api.greenhouse.io/v1/boards",
	}
}

func (s *Scraper) Name() string { return "greenhouse" }

type ghJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

type ghResponse struct {
	Jobs []ghJob `json:"jobs"`
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
				bctx, cancel := context.WithTimeout(ctx, 30*time.Second)
				jobs, err := s.fetchBoard(bctx, b, filters)
				cancel()

				if err != nil {
					log.Printf("[ats:greenhouse] board=%q err=%v", b.Slug, err)
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

	log.Printf("[ats:greenhouse] boards=%d records=%d", len(boards), len(out))
	return types.ScrapeResult{Source: "greenhouse", Records: out}, nil
}

func (s *Scraper) fetchBoard(ctx context.Context, b types.Board, filters domain.SearchFilters) ([]domain.JobRecord, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs", s.apiBase, b.Slug)

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
		return nil, fmt.Errorf("greenhouse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("greenhouse status %d", res.StatusCode)
	}

	var resp ghResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	out := make([]domain.JobRecord, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		title := strings.TrimSpace(j.Title)
		if title == "" || j.AbsoluteURL == "" {
			continue
		}
		if !scrape.MatchesQuery(title, filters.Query) {
			continue
		}

		loc := util.NormalizeLocation(j.Location.Name)
		remote := util.IsRemoteLocation(loc)
		if !scrape.PassesStrictRemoteLocation(filters, loc, remote) {
			continue
		}

		level := util.InferExperienceLevel(title)
		if !scrape.PassesExperience(filters, level) {
			continue
		}

		var postedAt *time.Time
		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			postedAt = &t
		}
		if !scrape.WithinRecency(filters, postedAt) {
			continue
		}

		out = append(out, domain.JobRecord{
			Title:      title,
			Company:    b.Name,
			Location:   loc,
			URL:        j.AbsoluteURL,
			Source:     "greenhouse",
			Remote:     remote,
			Experience: level,
			PostedAt:   postedAt,
			SourceID:   fmt.Sprintf("greenhouse:%s:%d", b.Slug, j.ID),
		})

		if filters.Limit > 0 && len(out) >= filters.Limit {
			break
		}
	}

	// the boards API often omits location on older postings
	for i := range out {
		if out[i].Location == "" {
			_ = s.hydrateLocation(ctx, &out[i])
		}
	}

	return out, nil
}

func (s *Scraper) hydrateLocation(ctx context.Context, rec *domain.JobRecord) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, rec.URL, nil)
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, rec.URL); err != nil {
			return err
		}
	}
	res, err := s.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("job page status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return err
	}

	if loc := util.FindLocation(doc); loc != "" {
		rec.Location = loc
		rec.Remote = util.IsRemoteLocation(loc)
	}
	return nil
}
