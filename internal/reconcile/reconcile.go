// Package reconcile computes and applies the write-or-delete set that
// brings a site-packages directory in line with the in-memory tree.
package reconcile

import (
	"fmt"

	"pthman/internal/model"
)

// Store is the subset of the path-file store the engine drives.
type Store interface {
	Persist(location string, lines []string) error
	Remove(location string) error
}

// Failure records one file that could not be written or deleted. A save
// never aborts on the first bad file; callers receive the whole list and
// can retry just the failed subset.
type Failure struct {
	Location string
	Op       string // "persist" or "remove"
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Location, f.Err)
}

// Save persists the tree. Files with entries are written with their
// normalized values; a file with zero entries is deleted from disk, never
// written empty, whether or not it previously existed. Files removed
// wholesale from the tree are deleted through their tombstones. Nodes
// that reach disk are marked clean; everything else stays dirty for the
// next attempt.
func Save(tree *model.Tree, store Store) []Failure {
	var failures []Failure

	for _, snap := range tree.Snapshot() {
		location := snap.File.Location
		if len(snap.Entries) == 0 {
			if err := store.Remove(location); err != nil {
				failures = append(failures, Failure{Location: location, Op: "remove", Err: err})
				continue
			}
			snap.File.Dirty = false
			continue
		}

		values := make([]string, len(snap.Entries))
		for i, e := range snap.Entries {
			values[i] = e.Value
		}
		if err := store.Persist(location, values); err != nil {
			failures = append(failures, Failure{Location: location, Op: "persist", Err: err})
			continue
		}
		snap.File.Dirty = false
		for _, e := range snap.Entries {
			e.Dirty = false
		}
	}

	for _, tomb := range tree.RemovedFiles() {
		if err := store.Remove(tomb.Location); err != nil {
			failures = append(failures, Failure{Location: tomb.Location, Op: "remove", Err: err})
			continue
		}
		tree.ForgetRemoved(tomb.ID)
	}

	if len(failures) == 0 {
		tree.ClearDeletionLog()
	}
	return failures
}
