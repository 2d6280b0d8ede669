package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJobURL(t *testing.T) {
	tests := []struct {
		name string
		href string
		want bool
	}{
		{"jobs path", "https://example.com/jobs/backend-engineer", true},
		{"careers path", "https://example.com/careers/123", true},
		{"openings path", "https://example.com/openings/eng", true},
		{"greenhouse hosted", "https://boards.greenhouse.io/acme/jobs/42", true},
		{"lever hosted", "https://jobs.lever.co/acme/uuid", true},
		{"workday hosted", "https://acme.wd5.myworkdayjobs.com/ext/job/123", true},
		{"search page", "https://example.com/jobs/search", false},
		{"team filter", "https://example.com/jobs/team/design", false},
		{"anchor link", "https://example.com/careers#openings", false},
		{"javascript href", "javascript:void(0)", false},
		{"login on ats host", "https://jobs.lever.co/login", false},
		{"marketing page", "https://example.com/product", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJobURL(tt.href))
		})
	}
}

func TestExclusionBeatsInclusion(t *testing.T) {
	// matches /jobs/ and /search at once: exclusion is authoritative
	assert.False(t, IsJobURL("https://example.com/jobs/search?q=engineer"))
}

func TestPlausibleTitle(t *testing.T) {
	t.Run("plain title", func(t *testing.T) {
		title, ok := PlausibleTitle("Senior Backend Engineer")
		require.True(t, ok)
		assert.Equal(t, "Senior Backend Engineer", title)
	})

	t.Run("first non-empty line", func(t *testing.T) {
		title, ok := PlausibleTitle("\n\n  Staff Software Engineer  \nRemote - US\n")
		require.True(t, ok)
		assert.Equal(t, "Staff Software Engineer", title)
	})

	t.Run("too short", func(t *testing.T) {
		_, ok := PlausibleTitle("Engineer")
		assert.False(t, ok)
	})

	t.Run("navigation text", func(t *testing.T) {
		for _, text := range []string{"View all open positions", "Apply for this role now", "Load more job listings"} {
			_, ok := PlausibleTitle(text)
			assert.False(t, ok, text)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := PlausibleTitle("  \n ")
		assert.False(t, ok)
	})
}

func TestLooksLikeLocationLine(t *testing.T) {
	assert.True(t, LooksLikeLocationLine("New York, NY"))
	assert.True(t, LooksLikeLocationLine("Remote"))
	assert.True(t, LooksLikeLocationLine("London"))
	assert.False(t, LooksLikeLocationLine(""))
	assert.False(t, LooksLikeLocationLine("We are building the future of payments infrastructure for ambitious companies all over the world today"))
}
