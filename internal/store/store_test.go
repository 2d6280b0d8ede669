package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestInsertJobIgnore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	posted := time.Now().Add(-24 * time.Hour)
	rec := domain.JobRecord{
		Title:    "Senior Backend Engineer",
		Company:  "Acme",
		Location: "Remote, US",
		URL:      "https://boards.greenhouse.io/acme/jobs/1",
		Source:   "greenhouse",
		Remote:   true,
		PostedAt: &posted,
		SourceID: "greenhouse:acme:1",
	}

	added, err := InsertJobIgnore(ctx, db.Pool, rec)
	require.NoError(t, err)
	assert.True(t, added)

	// same source_id again is a no-op
	added, err = InsertJobIgnore(ctx, db.Pool, rec)
	require.NoError(t, err)
	assert.False(t, added)

	// different source_id inserts
	rec.SourceID = "greenhouse:acme:2"
	rec.URL = "https://boards.greenhouse.io/acme/jobs/2"
	added, err = InsertJobIgnore(ctx, db.Pool, rec)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestListRecent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		_, err := InsertJobIgnore(ctx, db.Pool, domain.JobRecord{
			Title:    "Engineer " + id,
			Company:  "Acme",
			URL:      "https://example.com/jobs/" + id,
			Source:   "crawler",
			Remote:   i%2 == 0,
			SourceID: "crawler:" + id,
		})
		require.NoError(t, err)
	}

	jobs, err := ListRecent(ctx, db.Pool, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
	for _, j := range jobs {
		assert.Equal(t, "Acme", j.Company)
		assert.Equal(t, "crawler", j.Source)
	}
}

func TestEndpointCache(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, ok, err := GetEndpoint(ctx, db.Pool, "Acme")
	require.NoError(t, err)
	assert.False(t, ok)

	ep := domain.VerifiedEndpoint{
		Backend:   domain.BackendGreenhouse,
		Slug:      "acme",
		DirectURL: "https://boards.greenhouse.io/acme",
		JobCount:  17,
		Verified:  true,
	}
	require.NoError(t, UpsertEndpoint(ctx, db.Pool, "Acme", ep))

	// company key lookup is case and whitespace insensitive
	got, ok, err := GetEndpoint(ctx, db.Pool, "  acme ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ep, got)

	// upsert replaces the previous resolution
	ep.Backend = domain.BackendLever
	ep.Slug = "acme-corp"
	require.NoError(t, UpsertEndpoint(ctx, db.Pool, "Acme", ep))

	got, ok, err = GetEndpoint(ctx, db.Pool, "Acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.BackendLever, got.Backend)
	assert.Equal(t, "acme-corp", got.Slug)
}

func TestWorkdayCountSentinel(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	ep := domain.VerifiedEndpoint{
		Backend:   domain.BackendWorkday,
		Slug:      "acme",
		DirectURL: "https://acme.wd5.myworkdayjobs.com/acme",
		JobCount:  domain.CountUnknown,
		Verified:  true,
	}
	require.NoError(t, UpsertEndpoint(ctx, db.Pool, "Acme", ep))

	got, ok, err := GetEndpoint(ctx, db.Pool, "Acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.CountUnknown, got.JobCount)
}
