package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnscrape/article"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite3", filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSaveRun_RoundTrip verifies a run and its articles can be read back
func TestSaveRun_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("https://vnexpress.net/thoi-su")
	run.FinishedAt = run.StartedAt.Add(12 * time.Second)
	run.Found, run.Accepted, run.Skipped = 3, 2, 1
	run.Output = "vnexpress_articles.csv"

	records := []article.Record{
		{Title: "Tin một", PublishTime: "1 giờ trước", Link: "https://vnexpress.net/1.html"},
		{Title: "Tin hai", PublishTime: article.NoTime, Link: "https://vnexpress.net/2.html"},
	}
	require.NoError(t, store.SaveRun(ctx, run, records))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 2, runs[0].Accepted)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, "vnexpress_articles.csv", runs[0].Output)
	assert.WithinDuration(t, run.StartedAt, runs[0].StartedAt, time.Second)

	got, err := store.RunArticles(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

// TestSaveRun_NoRecords verifies empty runs are still recorded
func TestSaveRun_NoRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("https://vnexpress.net/thoi-su")
	run.FinishedAt = time.Now()
	require.NoError(t, store.SaveRun(ctx, run, nil))

	got, err := store.RunArticles(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestRecentRuns_NewestFirst verifies ordering and limit
func TestRecentRuns_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run := NewRun("https://vnexpress.net/thoi-su")
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run.FinishedAt = run.StartedAt.Add(time.Minute)
		require.NoError(t, store.SaveRun(ctx, run, nil))
		ids = append(ids, run.ID)
	}

	runs, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

// TestSaveRun_DuplicateID verifies a failed run insert leaves nothing behind
func TestSaveRun_DuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("https://vnexpress.net/thoi-su")
	run.FinishedAt = time.Now()
	require.NoError(t, store.SaveRun(ctx, run, nil))

	err := store.SaveRun(ctx, run, []article.Record{{Title: "x", Link: "https://x"}})
	require.Error(t, err)

	got, err := store.RunArticles(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got, "articles from the failed transaction must not persist")
}

// TestOpen_UnsupportedDriver verifies unknown drivers are refused
func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "root@/news")
	assert.Error(t, err)
}
