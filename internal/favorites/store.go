// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package favorites keeps one logical favorite state per paper ID,
// consistent across a durable store and the in-memory working sets.
package favorites

import (
	"fmt"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

// DurableStore persists favorited papers across restarts. Implementations
// must tolerate duplicate records for the same ID: callers treat them as a
// recoverable anomaly and repair them through DeleteDuplicates.
type DurableStore interface {
	// Upsert inserts or replaces the record for paper.ID.
	Upsert(paper types.Paper) error

	// Delete removes every record with the given ID. Deleting an absent
	// ID is not an error.
	Delete(id string) error

	// ListFavorites returns all records in first-inserted order.
	ListFavorites() ([]types.Paper, error)

	// DeleteDuplicates removes all but the first-seen record for every ID
	// that has more than one.
	DeleteDuplicates() error

	// Close releases the underlying storage.
	Close() error
}

// PersistenceError reports a failed durable-store operation. The in-memory
// state transition that triggered it has already been applied and is not
// rolled back; the caller decides whether to retry or warn the user.
type PersistenceError struct {
	Op  string
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("favorites %s for %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("favorites %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
