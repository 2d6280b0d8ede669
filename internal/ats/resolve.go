package ats

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

// endpointVerifier lets tests drive the resolver's stage machine with a stub.
type endpointVerifier interface {
	Verify(ctx context.Context, backend domain.BackendType, slug string) (bool, int)
}

// guess-stage backends; workday is excluded because its probe cannot count
// postings, and a guessed slug without a posting count proves nothing.
var guessBackends = []domain.BackendType{
	domain.BackendGreenhouse,
	domain.BackendLever,
	domain.BackendAshby,
}

// Resolver determines which ATS backend serves a company's jobs and finds
// the stable direct endpoint for it, confirming every candidate against the
// live API before accepting it.
type Resolver struct {
	hc       *http.Client
	verifier endpointVerifier
}

func NewResolver(verifier endpointVerifier) *Resolver {
	return &Resolver{
		hc: &http.Client{
			Timeout: 20 * time.Second,
		},
		verifier: verifier,
	}
}

// Resolve runs four ordered stages, first verified hit wins:
//  1. classify the career URL itself
//  2. fetch the page and classify its markup
//  3. name-derived slug guesses against the REST backends (count > 0 only)
//  4. give up: return the declared backend unverified, which tells the
//     caller "needs custom handling", not that something failed
func (r *Resolver) Resolve(ctx context.Context, companyName, careerURL string, current domain.BackendType) domain.VerifiedEndpoint {
	if cand, ok := ClassifyURL(careerURL); ok && cand.Slug != "" {
		if verified, count := r.verifier.Verify(ctx, cand.Backend, cand.Slug); verified {
			return r.verifiedEndpoint(cand.Backend, cand.Slug, careerURL, count)
		}
	}

	if html, ok := r.fetchPage(ctx, careerURL); ok {
		if cand, found := ClassifyMarkup(html); found {
			slug := cand.Slug
			// iframe/script indicators capture a URL, not a slug
			if strings.Contains(slug, ".") {
				slug = SlugFromURL(slug)
			}
			if slug != "" {
				if verified, count := r.verifier.Verify(ctx, cand.Backend, slug); verified {
					return r.verifiedEndpoint(cand.Backend, slug, careerURL, count)
				}
			}
		}
	}

	for _, backend := range guessBackends {
		for _, slug := range SlugVariations(companyName) {
			verified, count := r.verifier.Verify(ctx, backend, slug)
			// an empty board under a guessed slug is not trustworthy confirmation
			if verified && count > 0 {
				return r.verifiedEndpoint(backend, slug, careerURL, count)
			}
		}
	}

	return domain.VerifiedEndpoint{
		Backend:   current,
		DirectURL: careerURL,
	}
}

func (r *Resolver) verifiedEndpoint(backend domain.BackendType, slug, careerURL string, count int) domain.VerifiedEndpoint {
	direct := BoardURL(backend, slug)
	if direct == "" {
		direct = careerURL
	}
	return domain.VerifiedEndpoint{
		Backend:   backend,
		Slug:      slug,
		DirectURL: direct,
		JobCount:  count,
		Verified:  true,
	}
}

func (r *Resolver) fetchPage(ctx context.Context, rawURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", browserUA)

	res, err := r.hc.Do(req)
	if err != nil {
		log.Printf("[ats:resolve] fetch %s err=%v", rawURL, err)
		return "", false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", false
	}
	return string(body), true
}
