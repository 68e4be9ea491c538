// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shelf

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-shelf/internal/cache"
	"github.com/pdiddy/paper-shelf/internal/config"
	"github.com/pdiddy/paper-shelf/internal/favorites"
	"github.com/pdiddy/paper-shelf/internal/fetch"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

// fakeFetcher returns canned batches with a configurable artificial
// latency and failure. The call counter is guarded because the refresh
// timer drives fetches from its own goroutine.
type fakeFetcher struct {
	papers []types.Paper
	err    error
	delay  time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) FetchByCategory(ctx context.Context, _ types.Category, _ int) ([]types.Paper, error) {
	return f.respond(ctx)
}

func (f *fakeFetcher) Search(ctx context.Context, _ string, _ int, _ types.Category, _ bool) ([]types.Paper, error) {
	return f.respond(ctx)
}

func (f *fakeFetcher) DownloadPDF(_ context.Context, paper types.Paper) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("pdf for " + paper.ID), nil
}

func (f *fakeFetcher) respond(ctx context.Context) ([]types.Paper, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.Paper, len(f.papers))
	copy(out, f.papers)
	return out, nil
}

func testController(t *testing.T, fetcher Fetcher, pdfCache *cache.Cache) (*Controller, *favorites.Index, *favorites.WorkingSets) {
	t.Helper()
	sets := favorites.NewWorkingSets()
	index := favorites.NewIndex(nil, sets)
	settings := config.New(viper.New())
	ctrl := New(fetcher, index, sets, pdfCache, settings)
	ctrl.LoadFloor = 50 * time.Millisecond
	return ctrl, index, sets
}

func TestLoadCategoryInstallsReconciledBatch(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}, {ID: "B"}}}
	ctrl, _, sets := testController(t, fetcher, nil)

	// "A" is already favorited; the fresh batch must come up flagged.
	fav := types.Paper{ID: "A"}
	fav.Favorite(time.Now())
	sets.Replace(types.CategoryFavorite, []types.Paper{fav})

	papers, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.True(t, papers[0].IsFavorite)
	assert.False(t, papers[1].IsFavorite)

	assert.Equal(t, papers, ctrl.Papers(types.CategoryCS))
	assert.False(t, ctrl.Loading(types.CategoryCS))
	assert.Empty(t, ctrl.LastError(types.CategoryCS))
}

func TestLoadCategoryRejectsUnfetchable(t *testing.T) {
	ctrl, _, _ := testController(t, &fakeFetcher{}, nil)
	_, err := ctrl.LoadCategory(context.Background(), types.CategoryFavorite)
	assert.Error(t, err)
}

func TestLoadCategoryFailureKeepsPriorContents(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}}
	ctrl, _, _ := testController(t, fetcher, nil)

	_, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.NoError(t, err)

	fetcher.err = &fetch.NetworkError{Op: "fetch cs", Status: 502}
	_, err = ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.Error(t, err)

	// Error recorded, previous working set intact, loading flag reset.
	assert.Contains(t, ctrl.LastError(types.CategoryCS), "502")
	assert.Len(t, ctrl.Papers(types.CategoryCS), 1)
	assert.False(t, ctrl.Loading(types.CategoryCS))
}

func TestLoadFloorPadsFastFetch(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}}
	ctrl, _, _ := testController(t, fetcher, nil)
	ctrl.LoadFloor = 150 * time.Millisecond

	start := time.Now()
	_, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestLoadFloorPadsFailedFetchToo(t *testing.T) {
	fetcher := &fakeFetcher{err: &fetch.NetworkError{Op: "fetch cs", Status: 500}}
	ctrl, _, _ := testController(t, fetcher, nil)
	ctrl.LoadFloor = 150 * time.Millisecond

	start := time.Now()
	_, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestLoadFloorAddsNothingToSlowFetch(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}, delay: 120 * time.Millisecond}
	ctrl, _, _ := testController(t, fetcher, nil)
	ctrl.LoadFloor = 50 * time.Millisecond

	start := time.Now()
	_, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
	assert.Less(t, elapsed, 240*time.Millisecond)
}

func TestSearchInstallsSearchSet(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "S1"}}}
	ctrl, _, _ := testController(t, fetcher, nil)

	papers, err := ctrl.SearchPapers(context.Background(), "attention", types.CategoryCS, true)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, papers, ctrl.Papers(types.CategorySearch))
}

func TestToggleThroughController(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}}
	ctrl, _, _ := testController(t, fetcher, nil)

	_, err := ctrl.LoadCategory(context.Background(), types.CategoryCS)
	require.NoError(t, err)

	updated, err := ctrl.ToggleFavorite(ctrl.Papers(types.CategoryCS)[0])
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)

	// The category copy was updated in place.
	assert.True(t, ctrl.Papers(types.CategoryCS)[0].IsFavorite)
	require.Len(t, ctrl.Favorites(), 1)
}

func TestDownloadPDFCaches(t *testing.T) {
	fetcher := &fakeFetcher{}
	pdfCache := cache.New(t.TempDir())
	ctrl, _, _ := testController(t, fetcher, pdfCache)

	data, path, err := ctrl.DownloadPDF(context.Background(), types.Paper{ID: "A", PDFURL: "http://example.invalid/a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf for A"), data)
	assert.NotEmpty(t, path)

	got, ok := ctrl.CachedPDF("A")
	require.True(t, ok)
	assert.Equal(t, path, got)
	assert.Positive(t, ctrl.CacheSize())

	require.NoError(t, ctrl.ClearCache())
	_, ok = ctrl.CachedPDF("A")
	assert.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	fetcher := &fakeFetcher{}
	ctrl, _, _ := testController(t, fetcher, nil)

	data, path, err := ctrl.DownloadPDF(context.Background(), types.Paper{ID: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Empty(t, path)

	_, ok := ctrl.CachedPDF("A")
	assert.False(t, ok)
	assert.Zero(t, ctrl.CacheSize())
	assert.NoError(t, ctrl.ClearCache())
}

func TestAutoRefreshStartStop(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}}
	ctrl, _, _ := testController(t, fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl.StartAutoRefresh(ctx, testWriter{t})
	// Restart replaces the previous timer without leaking it.
	ctrl.StartAutoRefresh(ctx, testWriter{t})
	ctrl.StopAutoRefresh()
	// Stopping twice is safe.
	ctrl.StopAutoRefresh()
}

func TestAutoRefreshTickReloadsDefaultCategory(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}}
	ctrl, _, _ := testController(t, fetcher, nil)
	ctrl.LoadFloor = time.Millisecond
	ctrl.RefreshEvery = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// io.Discard: the timer goroutine may still be mid-load when the
	// test returns, so it must not touch t.
	ctrl.StartAutoRefresh(ctx, io.Discard)
	defer ctrl.StopAutoRefresh()

	require.Eventually(t, func() bool {
		return len(ctrl.Papers(types.CategoryLatest)) == 1
	}, time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, fetcher.callCount(), 1)
}

func TestAutoRefreshSkipsTickWhileLoading(t *testing.T) {
	fetcher := &fakeFetcher{papers: []types.Paper{{ID: "A"}}, delay: 400 * time.Millisecond}
	ctrl, _, _ := testController(t, fetcher, nil)
	ctrl.LoadFloor = time.Millisecond
	ctrl.RefreshEvery = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hold a load for the default category in flight, then let several
	// ticks fire against it. Each one must be skipped, not queued.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.LoadCategory(context.Background(), types.CategoryLatest)
	}()
	require.Eventually(t, func() bool {
		return ctrl.Loading(types.CategoryLatest)
	}, time.Second, 5*time.Millisecond)

	ctrl.StartAutoRefresh(ctx, io.Discard)
	time.Sleep(150 * time.Millisecond)
	ctrl.StopAutoRefresh()

	assert.Equal(t, 1, fetcher.callCount())
	<-done
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
