package ats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func testVerifier(t *testing.T, handler http.Handler) (*Verifier, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewVerifier(nil)
	v.greenhouseAPI = srv.URL + "/v1/boards"
	v.leverAPI = srv.URL + "/v0/postings"
	v.ashbyAPI = srv.URL + "/api/non-user-graphql"
	v.workdayBoards = []string{srv.URL + "/board"}
	return v, srv
}

func TestVerifyGreenhouse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/boards/acme/jobs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jobs": []map[string]any{{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}},
		})
	})
	mux.HandleFunc("/v1/boards/empty/jobs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"jobs": []map[string]any{}})
	})
	v, _ := testVerifier(t, mux)

	ok, count := v.Verify(context.Background(), domain.BackendGreenhouse, "acme")
	require.True(t, ok)
	assert.Equal(t, 5, count)

	ok, count = v.Verify(context.Background(), domain.BackendGreenhouse, "empty")
	require.True(t, ok)
	assert.Equal(t, 0, count)

	ok, _ = v.Verify(context.Background(), domain.BackendGreenhouse, "missing")
	assert.False(t, ok)
}

func TestVerifyLever(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/postings/ramp", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"id": "a"}, {"id": "b"}, {"id": "c"}})
	})
	mux.HandleFunc("/v0/postings/notjson", func(w http.ResponseWriter, r *http.Request) {
		// error pages come back as an object, not the bare postings array
		json.NewEncoder(w).Encode(map[string]string{"ok": "false"})
	})
	v, _ := testVerifier(t, mux)

	ok, count := v.Verify(context.Background(), domain.BackendLever, "ramp")
	require.True(t, ok)
	assert.Equal(t, 3, count)

	ok, _ = v.Verify(context.Background(), domain.BackendLever, "notjson")
	assert.False(t, ok)

	ok, _ = v.Verify(context.Background(), domain.BackendLever, "gone")
	assert.False(t, ok)
}

func TestVerifyAshby(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/non-user-graphql", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			OperationName string `json:"operationName"`
			Variables     struct {
				Slug string `json:"organizationHostedJobsPageName"`
			} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ApiJobBoardWithTeams", payload.OperationName)

		if payload.Variables.Slug != "linear" {
			// unknown boards come back with a null jobBoard, still HTTP 200
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"jobBoard": nil}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"jobBoard": map[string]any{
					"jobPostings": []map[string]any{{"id": "1"}, {"id": "2"}},
				},
			},
		})
	})
	v, _ := testVerifier(t, mux)

	ok, count := v.Verify(context.Background(), domain.BackendAshby, "linear")
	require.True(t, ok)
	assert.Equal(t, 2, count)

	ok, _ = v.Verify(context.Background(), domain.BackendAshby, "nobody")
	assert.False(t, ok)
}

func TestVerifyWorkday(t *testing.T) {
	t.Run("marker present", func(t *testing.T) {
		v, _ := testVerifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><title>Careers - Workday</title></head></html>`))
		}))
		ok, count := v.Verify(context.Background(), domain.BackendWorkday, "acme")
		require.True(t, ok)
		assert.Equal(t, domain.CountUnknown, count)
	})

	t.Run("marker absent", func(t *testing.T) {
		v, _ := testVerifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body>nothing here</body></html>`))
		}))
		ok, _ := v.Verify(context.Background(), domain.BackendWorkday, "acme")
		assert.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		v, _ := testVerifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		ok, _ := v.Verify(context.Background(), domain.BackendWorkday, "acme")
		assert.False(t, ok)
	})
}

func TestVerifyEmptySlug(t *testing.T) {
	v := NewVerifier(nil)
	ok, count := v.Verify(context.Background(), domain.BackendGreenhouse, "")
	assert.False(t, ok)
	assert.Equal(t, 0, count)
}
