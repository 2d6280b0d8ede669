package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		backend domain.BackendType
		slug    string
		ok      bool
	}{
		{"greenhouse new domain", "https://job-boards.greenhouse.io/acme", domain.BackendGreenhouse, "acme", true},
		{"greenhouse classic", "https://boards.greenhouse.io/figma/jobs/123", domain.BackendGreenhouse, "figma", true},
		{"greenhouse api no slug", "https://api.greenhouse.io/v1/boards", domain.BackendGreenhouse, "", true},
		{"lever", "https://jobs.lever.co/ramp", domain.BackendLever, "ramp", true},
		{"ashby", "https://jobs.ashbyhq.com/linear/posting", domain.BackendAshby, "linear", true},
		{"workday wd5", "https://acme.wd5.myworkdayjobs.com/careers", domain.BackendWorkday, "acme", true},
		{"workday site", "https://acme.myworkdaysite.com/recruiting", domain.BackendWorkday, "acme", true},
		{"case insensitive", "https://Boards.Greenhouse.IO/acme", domain.BackendGreenhouse, "acme", true},
		{"plain career page", "https://stripe.com/jobs", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, ok := ClassifyURL(tt.url)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.backend, cand.Backend)
			assert.Equal(t, tt.slug, cand.Slug)
		})
	}
}

func TestClassifyMarkup(t *testing.T) {
	t.Run("greenhouse iframe captures url not slug", func(t *testing.T) {
		html := `<html><body><iframe src="https://boards.greenhouse.io/embed/job_board?for=acme"></iframe></body></html>`
		cand, ok := ClassifyMarkup(html)
		require.True(t, ok)
		assert.Equal(t, domain.BackendGreenhouse, cand.Backend)
		assert.Contains(t, cand.Slug, "greenhouse.io")
	})

	t.Run("greenhouse board token config", func(t *testing.T) {
		html := `<script>window.__cfg = {"greenhouse": {"board_token": "acme"}};</script>`
		cand, ok := ClassifyMarkup(html)
		require.True(t, ok)
		assert.Equal(t, domain.BackendGreenhouse, cand.Backend)
		assert.Equal(t, "acme", cand.Slug)
	})

	t.Run("lever api reference", func(t *testing.T) {
		html := `<script>fetch("https://api.lever.co/v0/postings/ramp?mode=json")</script>`
		cand, ok := ClassifyMarkup(html)
		require.True(t, ok)
		assert.Equal(t, domain.BackendLever, cand.Backend)
		assert.Equal(t, "ramp", cand.Slug)
	})

	t.Run("ashby link", func(t *testing.T) {
		html := `<a href="https://jobs.ashbyhq.com/linear">Open roles</a>`
		cand, ok := ClassifyMarkup(html)
		require.True(t, ok)
		assert.Equal(t, domain.BackendAshby, cand.Backend)
		assert.Equal(t, "linear", cand.Slug)
	})

	t.Run("workday host", func(t *testing.T) {
		html := `<a href="https://acme.wd3.myworkdayjobs.com/External">Jobs</a>`
		cand, ok := ClassifyMarkup(html)
		require.True(t, ok)
		assert.Equal(t, domain.BackendWorkday, cand.Backend)
		assert.Equal(t, "acme", cand.Slug)
	})

	t.Run("plain html", func(t *testing.T) {
		_, ok := ClassifyMarkup(`<html><body><h1>Careers</h1></body></html>`)
		assert.False(t, ok)
	})
}

func TestSlugFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://boards.greenhouse.io/acme", "acme"},
		{"https://boards.greenhouse.io/acme/jobs/123", "acme"},
		{"boards.greenhouse.io/acme", "acme"},
		{"https://jobs.lever.co/ramp/", "ramp"},
		{"https://example.com", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugFromURL(tt.url), tt.url)
	}
}

func TestBoardURL(t *testing.T) {
	assert.Equal(t, "https://boards.greenhouse.io/acme", BoardURL(domain.BackendGreenhouse, "acme"))
	assert.Equal(t, "https://jobs.lever.co/acme", BoardURL(domain.BackendLever, "acme"))
	assert.Equal(t, "https://jobs.ashbyhq.com/acme", BoardURL(domain.BackendAshby, "acme"))
	assert.Equal(t, "", BoardURL(domain.BackendWorkday, "acme"))
}

func TestClassifyRoundTrip(t *testing.T) {
	// a board URL built for a REST backend classifies back to the same pair
	for _, backend := range []domain.BackendType{
		domain.BackendGreenhouse, domain.BackendLever, domain.BackendAshby,
	} {
		cand, ok := ClassifyURL(BoardURL(backend, "acme"))
		require.True(t, ok, backend)
		assert.Equal(t, backend, cand.Backend)
		assert.Equal(t, "acme", cand.Slug)
	}
}
