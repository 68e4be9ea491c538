// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package favorites

import (
	"sort"
	"time"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

// WorkingSets holds the in-memory ordered paper lists, one per category
// plus search results and favorites. A paper ID may appear in several sets
// at once; each set holds its own copy, and the index keeps those copies
// informationally consistent when favorite state changes.
//
// WorkingSets is not safe for concurrent use; the owning controller
// serializes access.
type WorkingSets struct {
	sets map[types.Category][]types.Paper
}

// NewWorkingSets returns an empty set collection.
func NewWorkingSets() *WorkingSets {
	return &WorkingSets{sets: make(map[types.Category][]types.Paper)}
}

// Get returns a copy of the working set for cat. Absent categories yield
// an empty slice.
func (w *WorkingSets) Get(cat types.Category) []types.Paper {
	out := make([]types.Paper, len(w.sets[cat]))
	copy(out, w.sets[cat])
	return out
}

// Replace installs papers as the new contents of the working set for cat.
func (w *WorkingSets) Replace(cat types.Category, papers []types.Paper) {
	w.sets[cat] = papers
}

// Index is the favorite-state authority. It funnels every favorite
// mutation through Toggle so the durable store and all working sets stay
// consistent. A nil durable store puts the index in memory-only mode:
// favorites last for the session and no persistence calls are attempted.
type Index struct {
	store DurableStore
	sets  *WorkingSets

	now func() time.Time
}

// NewIndex builds an index over the given working sets. store may be nil
// for memory-only operation.
func NewIndex(store DurableStore, sets *WorkingSets) *Index {
	return &Index{store: store, sets: sets, now: time.Now}
}

// Persistent reports whether a durable store is configured.
func (ix *Index) Persistent() bool { return ix.store != nil }

// Favorites returns a copy of the favorites working set.
func (ix *Index) Favorites() []types.Paper {
	return ix.sets.Get(types.CategoryFavorite)
}

// Toggle flips the paper's favorite state and propagates it everywhere:
// the durable store (insert-or-replace when favoriting, delete when not),
// the favorites working set, and every category set holding the same ID.
//
// The in-memory transition always completes. A durable-store failure is
// returned as a *PersistenceError after the fact so the caller can warn
// or retry; it is never rolled back.
func (ix *Index) Toggle(paper types.Paper) (types.Paper, error) {
	if paper.IsFavorite {
		paper.Unfavorite()
	} else {
		paper.Favorite(ix.now())
	}

	var persistErr error
	if ix.store != nil {
		if paper.IsFavorite {
			persistErr = ix.store.Upsert(paper)
		} else {
			persistErr = ix.store.Delete(paper.ID)
		}
	}

	favs := ix.sets.sets[types.CategoryFavorite]
	if paper.IsFavorite {
		replaced := false
		for i := range favs {
			if favs[i].ID == paper.ID {
				favs[i] = paper
				replaced = true
				break
			}
		}
		if !replaced {
			favs = append(favs, paper)
		}
		sortByFavoritedDate(favs)
		ix.sets.sets[types.CategoryFavorite] = favs
	} else {
		kept := favs[:0]
		for _, p := range favs {
			if p.ID != paper.ID {
				kept = append(kept, p)
			}
		}
		ix.sets.sets[types.CategoryFavorite] = kept
	}

	// Update matching entries in place everywhere else. Membership and
	// ordering of those sets never change here.
	for cat, papers := range ix.sets.sets {
		if cat == types.CategoryFavorite {
			continue
		}
		for i := range papers {
			if papers[i].ID == paper.ID {
				papers[i] = paper
			}
		}
	}

	return paper, persistErr
}

// LoadFavorites rebuilds the favorites working set from the durable
// store: duplicate records are repaired first, the survivors are read
// back, deduplicated defensively (first occurrence wins), and sorted most
// recently favorited first. In memory-only mode the current in-memory set
// is returned unchanged.
func (ix *Index) LoadFavorites() ([]types.Paper, error) {
	if ix.store == nil {
		return ix.Favorites(), nil
	}

	// Repair is best-effort; the in-memory dedup below covers a failed
	// cleanup, and the next load retries it.
	_ = ix.store.DeleteDuplicates()

	records, err := ix.store.ListFavorites()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	papers := make([]types.Paper, 0, len(records))
	for _, p := range records {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		papers = append(papers, p)
	}
	sortByFavoritedDate(papers)

	ix.sets.Replace(types.CategoryFavorite, papers)
	return ix.Favorites(), nil
}

// Synchronize stamps each paper in batch with the authoritative favorite
// state from the favorites working set and returns the updated batch. No
// other working set is touched. Call it on every freshly fetched batch
// before installing it, or already-favorited papers come up unflagged.
func (ix *Index) Synchronize(batch []types.Paper) []types.Paper {
	favs := ix.sets.sets[types.CategoryFavorite]
	byID := make(map[string]types.Paper, len(favs))
	for _, f := range favs {
		byID[f.ID] = f
	}

	for i := range batch {
		if f, ok := byID[batch[i].ID]; ok {
			batch[i].Favorite(f.FavoritedDate)
		} else {
			batch[i].Unfavorite()
		}
	}
	return batch
}

// CleanupDuplicates repairs duplicate durable records, keeping the
// first-seen record per ID. A no-op in memory-only mode.
func (ix *Index) CleanupDuplicates() error {
	if ix.store == nil {
		return nil
	}
	return ix.store.DeleteDuplicates()
}

// sortByFavoritedDate orders papers most recently favorited first, with
// zero dates last. The sort is stable so equal dates keep their relative
// order.
func sortByFavoritedDate(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		di, dj := papers[i].FavoritedDate, papers[j].FavoritedDate
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.After(dj)
	})
}
