package model

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an operation that referenced an unknown node id.
var ErrNotFound = errors.New("node not found")

// RawFile is one .pth file as read from disk: its absolute location and
// its lines, uninterpreted.
type RawFile struct {
	Location string
	Lines    []string
}

// FileSnapshot pairs a live file node with its entries, materialized for
// reconciliation.
type FileSnapshot struct {
	File    *PathFile
	Entries []*PathEntry
}

// RemovedFile is the tombstone of a file node that was removed from the
// live tree but whose on-disk counterpart may still exist.
type RemovedFile struct {
	ID       string
	Location string
}

// Tree is the aggregate root mirroring one site-packages directory: a
// two-level hierarchy of file and entry nodes indexed by opaque id.
// Selection events and all mutation commands resolve their node through
// the id map in constant time, never by structural traversal.
type Tree struct {
	nodes      map[string]Node
	fileOrder  []string // file ids in insertion order, keeps snapshots stable
	deleted    []string // deletion log, append-only within one version
	deletedSet map[string]struct{}
	tombstones []RemovedFile
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	t := &Tree{}
	t.Reset()
	return t
}

// Reset clears the node map, the deletion log and the tombstones in one
// step. There is no partial-version state.
func (t *Tree) Reset() {
	t.nodes = make(map[string]Node)
	t.fileOrder = nil
	t.deleted = nil
	t.deletedSet = make(map[string]struct{})
	t.tombstones = nil
}

// Load rebuilds the tree wholesale from raw disk files. Entries and files
// start clean because they mirror disk state exactly at load time.
func (t *Tree) Load(files []RawFile) {
	t.Reset()
	for _, raw := range files {
		entries := make([]*PathEntry, 0, len(raw.Lines))
		for _, line := range raw.Lines {
			entries = append(entries, newPathEntry(line))
		}
		t.index(newPathFile(raw.Location, entries))
	}
}

func (t *Tree) index(f *PathFile) {
	t.nodes[f.NodeID()] = f
	t.fileOrder = append(t.fileOrder, f.NodeID())
	for _, e := range f.Entries {
		t.nodes[e.NodeID()] = e
	}
}

// Node resolves an id to its live node.
func (t *Tree) Node(id string) (Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len is the number of live nodes, files and entries combined.
func (t *Tree) Len() int { return len(t.nodes) }

// AddFile creates an empty file node for location. The node is dirty: it
// exists in the tree but not yet on disk.
func (t *Tree) AddFile(location string) *PathFile {
	f := newPathFile(location, nil)
	f.Dirty = true
	t.index(f)
	return f
}

// AddEntry appends a new entry with the given value under the file
// identified by fileID. Adding a value already present among that file's
// entries is a silent no-op: the existing entry is returned and created
// is false. Returns ErrNotFound if fileID does not resolve to a file.
func (t *Tree) AddEntry(fileID, value string) (entry *PathEntry, created bool, err error) {
	f, ok := t.nodes[fileID].(*PathFile)
	if !ok {
		return nil, false, fmt.Errorf("add entry %q: %w", fileID, ErrNotFound)
	}
	for _, e := range f.Entries {
		if e.Value == value {
			return e, false, nil
		}
	}
	e := newPathEntry(value)
	e.parentID = f.NodeID()
	e.Dirty = true
	f.Entries = append(f.Entries, e)
	f.Dirty = true
	t.nodes[e.NodeID()] = e
	return e, true, nil
}

// SetEntryValue renames an entry in place and marks it and its file
// dirty. Returns ErrNotFound if id does not resolve to an entry.
func (t *Tree) SetEntryValue(id, value string) error {
	e, ok := t.nodes[id].(*PathEntry)
	if !ok {
		return fmt.Errorf("set entry %q: %w", id, ErrNotFound)
	}
	e.Value = value
	e.Dirty = true
	if f, ok := t.nodes[e.parentID].(*PathFile); ok {
		f.Dirty = true
	}
	return nil
}

// Remove evicts the node and all of its descendants from the live tree.
// A file takes every contained entry with it; an entry is detached from
// its parent's sequence and the parent becomes dirty. All evicted ids are
// appended to the deletion log exactly once.
func (t *Tree) Remove(id string) ([]string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}

	var removed []string
	switch n := n.(type) {
	case *PathFile:
		removed = append(removed, n.NodeID())
		for _, e := range n.Entries {
			removed = append(removed, e.NodeID())
		}
		t.tombstones = append(t.tombstones, RemovedFile{ID: n.NodeID(), Location: n.Location})
		t.dropFileOrder(n.NodeID())
	case *PathEntry:
		removed = append(removed, n.NodeID())
		if f, ok := t.nodes[n.parentID].(*PathFile); ok {
			f.Entries = detach(f.Entries, n.NodeID())
			f.Dirty = true
		}
	}

	for _, rid := range removed {
		delete(t.nodes, rid)
		if _, seen := t.deletedSet[rid]; seen {
			continue
		}
		t.deletedSet[rid] = struct{}{}
		t.deleted = append(t.deleted, rid)
	}
	return removed, nil
}

func detach(entries []*PathEntry, id string) []*PathEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.NodeID() != id {
			out = append(out, e)
		}
	}
	return out
}

func (t *Tree) dropFileOrder(id string) {
	out := t.fileOrder[:0]
	for _, fid := range t.fileOrder {
		if fid != id {
			out = append(out, fid)
		}
	}
	t.fileOrder = out
}

// ChildrenOf returns the entries under fileID in order. The result is
// empty, not an error, when fileID is an entry or unknown.
func (t *Tree) ChildrenOf(fileID string) []*PathEntry {
	f, ok := t.nodes[fileID].(*PathFile)
	if !ok {
		return nil
	}
	out := make([]*PathEntry, len(f.Entries))
	copy(out, f.Entries)
	return out
}

// Snapshot materializes the live files and their entries in insertion
// order. Anything pending deletion is already evicted and does not appear.
func (t *Tree) Snapshot() []FileSnapshot {
	out := make([]FileSnapshot, 0, len(t.fileOrder))
	for _, fid := range t.fileOrder {
		f, ok := t.nodes[fid].(*PathFile)
		if !ok {
			continue
		}
		entries := make([]*PathEntry, len(f.Entries))
		copy(entries, f.Entries)
		out = append(out, FileSnapshot{File: f, Entries: entries})
	}
	return out
}

// DeletedIDs is the deletion log: every id removed from the live tree
// since the last load, each exactly once, in removal order. Informational
// for the presentation layer.
func (t *Tree) DeletedIDs() []string {
	out := make([]string, len(t.deleted))
	copy(out, t.deleted)
	return out
}

// ClearDeletionLog empties the deletion log once every pending deletion
// has been reflected on disk.
func (t *Tree) ClearDeletionLog() {
	t.deleted = nil
	t.deletedSet = make(map[string]struct{})
}

// RemovedFiles lists tombstones of files removed wholesale from the tree.
// Their on-disk counterparts still need an explicit delete on save.
func (t *Tree) RemovedFiles() []RemovedFile {
	out := make([]RemovedFile, len(t.tombstones))
	copy(out, t.tombstones)
	return out
}

// ForgetRemoved drops the tombstone for a file id once its on-disk
// counterpart has been deleted.
func (t *Tree) ForgetRemoved(id string) {
	out := t.tombstones[:0]
	for _, tb := range t.tombstones {
		if tb.ID != id {
			out = append(out, tb)
		}
	}
	t.tombstones = out
}

// Dirty reports whether the tree holds unsaved work: a dirty node, a
// pending deletion, or an undeleted tombstone.
func (t *Tree) Dirty() bool {
	if len(t.deleted) > 0 || len(t.tombstones) > 0 {
		return true
	}
	for _, n := range t.nodes {
		if n.IsDirty() {
			return true
		}
	}
	return false
}
