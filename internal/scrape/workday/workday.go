package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

type Config struct {
	Boards []types.Board // Slug holds the full board URL, e.g. https://acme.wd5.myworkdayjobs.com/careers
}

type Scraper struct {
	cfg     Config
	limiter *util.HostLimiter

	mu          sync.Mutex
	blockedHost map[string]bool
}

type board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:         cfg,
		limiter:     limiter,
		blockedHost: map[string]bool{},
	}
}

func (s *Scraper) Name() string { return "workday" }

var ErrBlocked = errors.New("workday blocked by cloudflare")

type wdRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type wdResponse struct {
	Total       int         `json:"total"`
	JobPostings []wdPosting `json:"jobPostings"`
}

type wdPosting struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ExternalPath  string `json:"externalPath"`
	ExternalURL   string `json:"externalUrl"`
	LocationsText string `json:"locationsText"`
	Location      string `json:"location"`
	PostedOnDate  string `json:"postedOnDate"`
	JobReqID      string `json:"jobRequisitionId"`
}

// Each board gets its own client so the CXS session cookies stay isolated.
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:     jar,
		Timeout: 30 * time.Second,
	}
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
					if errors.Is(err, ErrBlocked) {
						log.Printf("[ats:workday] host blocked by Cloudflare, skipping")
						continue
					}
					log.Printf("[ats:workday] board=%q err=%v", b.Slug, err)
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

	log.Printf("[ats:workday] boards=%d records=%d", len(boards), len(out))
	return types.ScrapeResult{Source: "workday", Records: out}, nil
}

func parseBoardURL(raw string) (board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return board{}, fmt.Errorf("missing host in %q", raw)
	}

	parts := strings.Split(u.Host, ".")
	if len(parts) < 3 {
		return board{}, fmt.Errorf("unexpected host %q", u.Host)
	}
	tenant := parts[0]

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return board{}, fmt.Errorf("unexpected path %q", u.Path)
	}

	locale := ""
	if len(segs) >= 2 && looksLikeLocale(segs[0]) {
		locale = normalizeLocale(segs[0])
		segs = segs[1:]
	}

	site := segs[len(segs)-1]
	if site == "" {
		return board{}, fmt.Errorf("could not derive site from path %q", u.Path)
	}

	return board{
		Scheme: u.Scheme,
		Host:   u.Host,
		Tenant: tenant,
		Site:   site,
		Locale: locale,
	}, nil
}

// accepts en-US, en-us, etc.
func looksLikeLocale(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	return isAlpha(s[0:2]) && isAlpha(s[3:5])
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 && s[2] == '-' {
		return strings.ToLower(s[0:2]) + "-" + strings.ToUpper(s[3:5])
	}
	return s
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func (b board) jobsEndpoint() string {
	base := fmt.Sprintf("%s://%s/wday/cxs/%s/%s/jobs", b.Scheme, b.Host, b.Tenant, b.Site)
	if b.Locale == "" {
		return base
	}
	return base + "?locale=" + url.QueryEscape(b.Locale)
}

func (b board) absoluteJobURL(p wdPosting) string {
	if p.ExternalURL != "" {
		return strings.TrimSpace(p.ExternalURL)
	}
	path := strings.TrimSpace(p.ExternalPath)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s", b.Scheme, b.Host, path)
}

func (s *Scraper) fetchBoard(ctx context.Context, bd types.Board, filters domain.SearchFilters) ([]domain.JobRecord, error) {
	b, err := parseBoardURL(bd.Slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.blockedHost[b.Host] {
		s.mu.Unlock()
		return nil, ErrBlocked
	}
	s.mu.Unlock()

	hc := newClient()
	endpoint := b.jobsEndpoint()

	// Some tenants require CALYPSO_CSRF_TOKEN + CXS_SESSION cookies before
	// the jobs endpoint answers.
	csrf, bootErr := bootstrapSession(ctx, hc, bd.Slug)
	if errors.Is(bootErr, ErrBlocked) {
		s.mu.Lock()
		s.blockedHost[b.Host] = true
		s.mu.Unlock()
		return nil, ErrBlocked
	}

	limit := 50
	offset := 0
	var out []domain.JobRecord

	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		payload, _ := json.Marshal(wdRequest{
			AppliedFacets: map[string]any{},
			Limit:         limit,
			Offset:        offset,
			SearchText:    filters.Query,
		})

		data, status, err := s.postJobs(ctx, hc, b, bd.Slug, endpoint, csrf, payload)
		if err != nil {
			return out, err
		}
		if status >= 400 {
			if bootErr == nil {
				return out, fmt.Errorf("workday status %d body=%s", status, truncate(string(data), 240))
			}
			// Bootstrap failed earlier; try once more with a fresh session.
			csrf2, err2 := bootstrapSession(ctx, hc, bd.Slug)
			if errors.Is(err2, ErrBlocked) {
				s.mu.Lock()
				s.blockedHost[b.Host] = true
				s.mu.Unlock()
				return out, ErrBlocked
			}
			bootErr = nil
			csrf = csrf2

			data, status, err = s.postJobs(ctx, hc, b, bd.Slug, endpoint, csrf, payload)
			if err != nil {
				return out, err
			}
			if status >= 400 {
				return out, fmt.Errorf("workday status %d body=%s", status, truncate(string(data), 240))
			}
		}

		var jr wdResponse
		if err := json.Unmarshal(data, &jr); err != nil {
			return out, fmt.Errorf("workday decode: %w body=%s", err, truncate(string(data), 240))
		}
		if len(jr.JobPostings) == 0 {
			break
		}

		for _, p := range jr.JobPostings {
			title := strings.TrimSpace(p.Title)
			jobURL := b.absoluteJobURL(p)
			if title == "" || jobURL == "" {
				continue
			}
			if !scrape.MatchesQuery(title, filters.Query) {
				continue
			}

			loc := util.NormalizeLocation(firstNonEmpty(p.LocationsText, p.Location))
			remote := util.IsRemoteLocation(loc)
			if !scrape.PassesStrictRemoteLocation(filters, loc, remote) {
				continue
			}

			level := util.InferExperienceLevel(title)
			if !scrape.PassesExperience(filters, level) {
				continue
			}

			postedAt := parsePostedAt(p.PostedOnDate)
			if !scrape.WithinRecency(filters, postedAt) {
				continue
			}

			jobID := strings.TrimSpace(firstNonEmpty(p.JobReqID, p.ID))
			if jobID == "" {
				jobID = util.HashString("url:" + jobURL)
			}

			out = append(out, domain.JobRecord{
				Title:      title,
				Company:    bd.Name,
				Location:   loc,
				URL:        jobURL,
				Source:     "workday",
				Remote:     remote,
				Experience: level,
				PostedAt:   postedAt,
				SourceID:   fmt.Sprintf("workday:%s:%s:%s", b.Tenant, b.Site, jobID),
			})

			if filters.Limit > 0 && len(out) >= filters.Limit {
				return out, nil
			}
		}

		offset += limit
		if jr.Total > 0 && offset >= jr.Total {
			break
		}
		if offset > 5000 {
			break
		}
	}

	return out, nil
}

func (s *Scraper) postJobs(ctx context.Context, hc *http.Client, b board, boardURL, endpoint, csrf string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", fmt.Sprintf("%s://%s", b.Scheme, b.Host))
	req.Header.Set("Referer", strings.TrimRight(boardURL, "/"))
	req.Header.Set("Accept-Language", firstNonEmpty(b.Locale, "en-US"))
	if csrf != "" {
		req.Header.Set("x-calypso-csrf-token", csrf)
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, endpoint); err != nil {
			return nil, 0, err
		}
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("workday post jobs: %w", err)
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	return data, res.StatusCode, nil
}

func bootstrapSession(ctx context.Context, client *http.Client, boardURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	previewBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	io.Copy(io.Discard, resp.Body)

	if looksLikeCloudflareBlock(resp, string(previewBytes)) {
		return "", ErrBlocked
	}

	u, _ := url.Parse(boardURL)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "CALYPSO_CSRF_TOKEN" && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("workday bootstrap: missing CALYPSO_CSRF_TOKEN cookie (status=%d)", resp.StatusCode)
}

func parsePostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func looksLikeCloudflareBlock(resp *http.Response, bodyPreview string) bool {
	server := strings.ToLower(resp.Header.Get("Server"))
	if strings.Contains(server, "cloudflare") && resp.Header.Get("CF-RAY") != "" {
		return true
	}

	low := strings.ToLower(bodyPreview)
	if strings.Contains(low, "/cdn-cgi/") ||
		(strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser")) {
		return true
	}

	return resp.StatusCode == 403 || resp.StatusCode == 429
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
