package model

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Node is either a *PathFile or a *PathEntry. Files and entries share one
// id space so that the lookup map and the deletion log stay single-typed;
// callers type-switch on the concrete kind.
type Node interface {
	NodeID() string
	IsDirty() bool
	node()
}

// PathEntry is one line inside a .pth file.
type PathEntry struct {
	id       string
	parentID string
	Value    string
	Dirty    bool
}

func (e *PathEntry) NodeID() string   { return e.id }
func (e *PathEntry) ParentID() string { return e.parentID }
func (e *PathEntry) IsDirty() bool    { return e.Dirty }
func (e *PathEntry) node()            {}

// PathFile is one on-disk .pth file and its ordered entries.
type PathFile struct {
	id       string
	Location string
	Entries  []*PathEntry
	Dirty    bool
}

func (f *PathFile) NodeID() string { return f.id }
func (f *PathFile) IsDirty() bool  { return f.Dirty }
func (f *PathFile) node()          {}

// Name is the file name without its directory, for display.
func (f *PathFile) Name() string { return filepath.Base(f.Location) }

// newPathFile builds a file node and stamps every entry's parent id at
// construction time. Ids are assigned exactly once here; there is no
// post-hoc re-parenting of children.
func newPathFile(location string, entries []*PathEntry) *PathFile {
	f := &PathFile{
		id:       uuid.New().String(),
		Location: location,
		Entries:  entries,
	}
	for _, e := range f.Entries {
		e.parentID = f.id
	}
	return f
}

func newPathEntry(value string) *PathEntry {
	return &PathEntry{id: uuid.New().String(), Value: value}
}
