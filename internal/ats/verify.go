package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/util"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Verifier performs one live request against a backend's public listing
// endpoint to confirm a (backend, slug) candidate. It never returns an
// error: any network or parse failure reads as (false, 0) and the caller's
// search loop moves on.
type Verifier struct {
	hc      *http.Client
	limiter *util.HostLimiter

	// endpoint templates, swappable in tests
	greenhouseAPI string // + "/<slug>/jobs"
	leverAPI      string // + "/<slug>"
	ashbyAPI      string
	workdayBoards []string // fmt templates taking the slug twice
}

func NewVerifier(limiter *util.HostLimiter) *Verifier {
	return &Verifier{
		hc:            &http.Client{Timeout: 20 * time.Second},
		limiter:       limiter,
		greenhouseAPI: "https://boards-api.greenhouse.io/v1/boards",
		leverAPI:      "https://api.lever.co/v0/postings",
		ashbyAPI:      "https://jobs.ashbyhq.com/api/non-user-graphql",
		workdayBoards: []string{
			"https://%s.wd5.myworkdayjobs.com/%s",
			"https://%s.wd1.myworkdayjobs.com/%s",
			"https://%s.wd3.myworkdayjobs.com/%s",
		},
	}
}

// Verify reports whether the endpoint for (backend, slug) resolves and how
// many postings it currently lists. A zero count with ok=true means the
// board exists but is empty; workday reports domain.CountUnknown.
func (v *Verifier) Verify(ctx context.Context, backend domain.BackendType, slug string) (bool, int) {
	if slug == "" {
		return false, 0
	}
	switch backend {
	case domain.BackendGreenhouse:
		return v.verifyGreenhouse(ctx, slug)
	case domain.BackendLever:
		return v.verifyLever(ctx, slug)
	case domain.BackendAshby:
		return v.verifyAshby(ctx, slug)
	case domain.BackendWorkday:
		return v.verifyWorkday(ctx, slug)
	}
	return false, 0
}

func (v *Verifier) verifyGreenhouse(ctx context.Context, slug string) (bool, int) {
	apiURL := fmt.Sprintf("%s/%s/jobs", v.greenhouseAPI, slug)

	body, ok := v.get(ctx, apiURL)
	if !ok {
		return false, 0
	}

	var resp struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, 0
	}
	return true, len(resp.Jobs)
}

func (v *Verifier) verifyLever(ctx context.Context, slug string) (bool, int) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", v.leverAPI, slug)

	body, ok := v.get(ctx, apiURL)
	if !ok {
		return false, 0
	}

	// the postings endpoint returns a bare array; anything else is an error page
	var postings []json.RawMessage
	if err := json.Unmarshal(body, &postings); err != nil {
		return false, 0
	}
	return true, len(postings)
}

const ashbyBoardQuery = `query ApiJobBoardWithTeams($organizationHostedJobsPageName: String!) {
  jobBoard: jobBoardWithTeams(organizationHostedJobsPageName: $organizationHostedJobsPageName) {
    jobPostings { id }
  }
}`

func (v *Verifier) verifyAshby(ctx context.Context, slug string) (bool, int) {
	payload, _ := json.Marshal(map[string]any{
		"operationName": "ApiJobBoardWithTeams",
		"variables":     map[string]string{"organizationHostedJobsPageName": slug},
		"query":         ashbyBoardQuery,
	})

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, v.ashbyAPI, bytes.NewReader(payload))
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Content-Type", "application/json")

	if v.limiter != nil {
		if err := v.limiter.WaitURL(ctx, v.ashbyAPI); err != nil {
			return false, 0
		}
	}
	res, err := v.hc.Do(req)
	if err != nil {
		return false, 0
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return false, 0
	}

	var resp struct {
		Data struct {
			JobBoard *struct {
				JobPostings []json.RawMessage `json:"jobPostings"`
			} `json:"jobBoard"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil || resp.Data.JobBoard == nil {
		return false, 0
	}
	return true, len(resp.Data.JobBoard.JobPostings)
}

// verifyWorkday has no countable listing API to probe anonymously, so
// existence is inferred from the board page carrying the workday marker.
func (v *Verifier) verifyWorkday(ctx context.Context, slug string) (bool, int) {
	for _, tmpl := range v.workdayBoards {
		boardURL := tmpl
		if strings.Contains(tmpl, "%s") {
			boardURL = fmt.Sprintf(tmpl, slug, slug)
		}
		body, ok := v.get(ctx, boardURL)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(string(body)), "workday") {
			return true, domain.CountUnknown
		}
	}
	return false, 0
}

func (v *Verifier) get(ctx context.Context, rawURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	if v.limiter != nil {
		if err := v.limiter.WaitURL(ctx, rawURL); err != nil {
			return nil, false
		}
	}
	res, err := v.hc.Do(req)
	if err != nil {
		return nil, false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, false
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, false
	}
	return body, true
}
