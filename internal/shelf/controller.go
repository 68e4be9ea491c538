// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shelf coordinates the working sets: it runs category and search
// loads against the remote client, reconciles fetched batches with the
// favorites index, and exposes the state the CLI and HTTP surfaces read.
package shelf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/paper-shelf/internal/cache"
	"github.com/pdiddy/paper-shelf/internal/config"
	"github.com/pdiddy/paper-shelf/internal/favorites"
	"github.com/pdiddy/paper-shelf/pkg/types"
)

// Fetcher is the remote literature collaborator.
type Fetcher interface {
	FetchByCategory(ctx context.Context, cat types.Category, limit int) ([]types.Paper, error)
	Search(ctx context.Context, query string, limit int, filter types.Category, byRelevance bool) ([]types.Paper, error)
	DownloadPDF(ctx context.Context, paper types.Paper) ([]byte, error)
}

// DefaultLoadFloor is the minimum observable duration of a load. Fast
// fetches are padded up to it so the UI's loading state does not flicker;
// slow fetches gain nothing.
const DefaultLoadFloor = time.Second

// Controller owns the working sets and serializes every mutation of them
// behind one mutex, so callers on any goroutine (CLI, HTTP handlers, the
// refresh timer) see consistent state. Fetches and file I/O run outside
// the lock.
type Controller struct {
	fetcher  Fetcher
	index    *favorites.Index
	sets     *favorites.WorkingSets
	cache    *cache.Cache // nil when caching is disabled
	settings *config.Store

	// LoadFloor is the minimum-duration floor applied to every load,
	// success or failure. Tests shrink it.
	LoadFloor time.Duration

	// RefreshEvery, when set, overrides the configured refresh interval
	// for the auto-refresh timer. Tests shrink it.
	RefreshEvery time.Duration

	mu      sync.Mutex
	loading map[types.Category]bool
	loadErr map[types.Category]string
	stop    chan struct{}
}

// New builds a controller. pdfCache may be nil to disable caching.
func New(fetcher Fetcher, index *favorites.Index, sets *favorites.WorkingSets, pdfCache *cache.Cache, settings *config.Store) *Controller {
	return &Controller{
		fetcher:   fetcher,
		index:     index,
		sets:      sets,
		cache:     pdfCache,
		settings:  settings,
		LoadFloor: DefaultLoadFloor,
		loading:   make(map[types.Category]bool),
		loadErr:   make(map[types.Category]string),
	}
}

// Papers returns a copy of the working set for cat.
func (c *Controller) Papers(cat types.Category) []types.Paper {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets.Get(cat)
}

// Loading reports whether a load for cat is in flight.
func (c *Controller) Loading(cat types.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[cat]
}

// LastError returns the message of the most recent failed load for cat,
// or "" after a successful one.
func (c *Controller) LastError(cat types.Category) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr[cat]
}

// LoadCategory fetches a fresh batch for cat, stamps favorite state onto
// it, and installs it as the category's working set. The loading flag for
// cat goes false, true, false around exactly one fetch.
//
// On failure the previous working set contents are kept and the error is
// recorded for the category. Overlapping loads for the same category are
// not coalesced; the later completion wins.
func (c *Controller) LoadCategory(ctx context.Context, cat types.Category) ([]types.Paper, error) {
	if _, ok := cat.Query(); !ok {
		return nil, fmt.Errorf("category %q is not fetchable", cat)
	}

	c.mu.Lock()
	c.loading[cat] = true
	limit := c.settings.Shelf().MaxPapers
	c.mu.Unlock()

	start := time.Now()
	papers, err := c.fetcher.FetchByCategory(ctx, cat, limit)
	c.waitFloor(ctx, start)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[cat] = false
	if err != nil {
		c.loadErr[cat] = err.Error()
		return nil, err
	}
	c.loadErr[cat] = ""

	papers = c.index.Synchronize(papers)
	c.sets.Replace(cat, papers)
	return c.sets.Get(cat), nil
}

// SearchPapers runs a free-text query and installs the reconciled results
// as the search working set. Same floor and failure semantics as
// LoadCategory.
func (c *Controller) SearchPapers(ctx context.Context, query string, filter types.Category, byRelevance bool) ([]types.Paper, error) {
	c.mu.Lock()
	c.loading[types.CategorySearch] = true
	limit := c.settings.Shelf().MaxPapers
	c.mu.Unlock()

	start := time.Now()
	papers, err := c.fetcher.Search(ctx, query, limit, filter, byRelevance)
	c.waitFloor(ctx, start)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[types.CategorySearch] = false
	if err != nil {
		c.loadErr[types.CategorySearch] = err.Error()
		return nil, err
	}
	c.loadErr[types.CategorySearch] = ""

	papers = c.index.Synchronize(papers)
	c.sets.Replace(types.CategorySearch, papers)
	return c.sets.Get(types.CategorySearch), nil
}

// waitFloor pads the elapsed time since start up to LoadFloor. Applied on
// success and failure alike so error states are as stable as loaded ones.
func (c *Controller) waitFloor(ctx context.Context, start time.Time) {
	remaining := c.LoadFloor - time.Since(start)
	if remaining <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(remaining):
	}
}

// ToggleFavorite flips the paper's favorite state through the index. The
// in-memory flip always lands; a *favorites.PersistenceError is returned
// alongside the updated paper when the durable write failed.
func (c *Controller) ToggleFavorite(paper types.Paper) (types.Paper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Toggle(paper)
}

// LoadFavorites rebuilds the favorites working set from the durable store.
func (c *Controller) LoadFavorites() ([]types.Paper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.LoadFavorites()
}

// Favorites returns a copy of the favorites working set.
func (c *Controller) Favorites() []types.Paper {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Favorites()
}

// DownloadPDF fetches the paper's PDF and, when caching is enabled, stores
// it. It returns the payload and the cache path ("" when not cached).
func (c *Controller) DownloadPDF(ctx context.Context, paper types.Paper) ([]byte, string, error) {
	data, err := c.fetcher.DownloadPDF(ctx, paper)
	if err != nil {
		return nil, "", err
	}
	if c.cache == nil {
		return data, "", nil
	}
	path, err := c.cache.Put(paper.ID, data)
	if err != nil {
		// The payload is still usable; the caller decides whether a
		// failed cache write matters.
		return data, "", err
	}
	return data, path, nil
}

// CachedPDF returns the cached blob location for id, if any.
func (c *Controller) CachedPDF(id string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	return c.cache.Get(id)
}

// CacheSize reports the total on-disk size of cached PDFs.
func (c *Controller) CacheSize() int64 {
	if c.cache == nil {
		return 0
	}
	return c.cache.TotalSize()
}

// ClearCache removes every cached PDF.
func (c *Controller) ClearCache() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.ClearAll()
}
