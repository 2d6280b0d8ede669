package ashby

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/types"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			OperationName string `json:"operationName"`
			Variables     struct {
				Slug string `json:"organizationHostedJobsPageName"`
			} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ApiJobBoardWithTeams", payload.OperationName)
		assert.Equal(t, "linear", payload.Variables.Slug)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"jobBoard": map[string]any{
					"jobPostings": []map[string]any{
						{"id": "j1", "title": "Software Engineer, Sync", "locationName": "North America", "isRemote": true},
						{"id": "j2", "title": "Product Designer", "locationName": "Remote", "isRemote": true},
						{"id": "j3", "title": "Senior Software Engineer", "locationName": "London, UK", "isRemote": false},
					},
				},
			},
		})
	}))
	defer srv.Close()

	s := New(Config{Boards: []types.Board{{Slug: "linear", Name: "Linear"}}}, nil)
	s.apiURL = srv.URL

	res, err := s.Fetch(context.Background(), domain.SearchFilters{
		Query:      "engineer",
		RemoteOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ashby", res.Source)

	// j2 fails the query, j3 the remote rule
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "Software Engineer, Sync", rec.Title)
	assert.Equal(t, "ashby:linear:j1", rec.SourceID)
	assert.Equal(t, "https://jobs.ashbyhq.com/linear/j1", rec.URL)
	assert.True(t, rec.Remote)
}

func TestFetchMissingBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"jobBoard": nil}})
	}))
	defer srv.Close()

	s := New(Config{Boards: []types.Board{{Slug: "nobody", Name: "Nobody"}}}, nil)
	s.apiURL = srv.URL

	// the per-board error is logged and swallowed
	res, err := s.Fetch(context.Background(), domain.SearchFilters{Query: "engineer"})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}
