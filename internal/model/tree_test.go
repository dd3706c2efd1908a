package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoFiles() []RawFile {
	return []RawFile{
		{Location: "/site/a.pth", Lines: []string{"C:/libs/one", "C:/libs/two"}},
		{Location: "/site/b.pth", Lines: nil},
	}
}

func TestTree_LoadStartsClean(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())

	snaps := tree.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, "/site/a.pth", snaps[0].File.Location)
	assert.Equal(t, "/site/b.pth", snaps[1].File.Location)
	require.Len(t, snaps[0].Entries, 2)
	assert.Empty(t, snaps[1].Entries)

	assert.False(t, snaps[0].File.Dirty)
	for _, e := range snaps[0].Entries {
		assert.False(t, e.Dirty)
		assert.Equal(t, snaps[0].File.NodeID(), e.ParentID())
	}
	assert.False(t, tree.Dirty())
	// 2 files + 2 entries share one id space
	assert.Equal(t, 4, tree.Len())
}

func TestTree_LoadEmptyFileHasZeroEntries(t *testing.T) {
	tree := NewTree()
	tree.Load([]RawFile{{Location: "/site/empty.pth"}})

	snaps := tree.Snapshot()
	require.Len(t, snaps, 1)
	assert.Empty(t, snaps[0].Entries)
	assert.Empty(t, tree.ChildrenOf(snaps[0].File.NodeID()))
}

func TestTree_AddFile(t *testing.T) {
	tree := NewTree()
	f := tree.AddFile("/site/new.pth")

	assert.True(t, f.Dirty)
	assert.Empty(t, f.Entries)
	got, ok := tree.Node(f.NodeID())
	require.True(t, ok)
	assert.Same(t, f, got)
	assert.True(t, tree.Dirty())
}

func TestTree_AddEntry(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	fileID := tree.Snapshot()[1].File.NodeID()

	e, created, err := tree.AddEntry(fileID, "C:/libs/three")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, e.Dirty)
	assert.Equal(t, fileID, e.ParentID())

	f, _ := tree.Node(fileID)
	assert.True(t, f.IsDirty())
	assert.Len(t, tree.ChildrenOf(fileID), 1)
}

func TestTree_AddEntryDuplicateIsNoOp(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	fileID := tree.Snapshot()[0].File.NodeID()

	before := len(tree.ChildrenOf(fileID))
	e, created, err := tree.AddEntry(fileID, "C:/libs/one")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "C:/libs/one", e.Value)
	assert.Equal(t, before, len(tree.ChildrenOf(fileID)))
}

func TestTree_AddEntryUnknownParent(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())

	_, _, err := tree.AddEntry("no-such-id", "C:/libs/x")
	assert.ErrorIs(t, err, ErrNotFound)

	// An entry id is not a valid parent either.
	entryID := tree.Snapshot()[0].Entries[0].NodeID()
	_, _, err = tree.AddEntry(entryID, "C:/libs/x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_RemoveFileCascades(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	snap := tree.Snapshot()[0]
	fileID := snap.File.NodeID()

	removed, err := tree.Remove(fileID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	for _, id := range removed {
		_, ok := tree.Node(id)
		assert.False(t, ok, "id %s still resolvable", id)
	}

	log := tree.DeletedIDs()
	assert.ElementsMatch(t, removed, log)
	seen := map[string]int{}
	for _, id := range log {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s logged %d times", id, n)
	}

	tombs := tree.RemovedFiles()
	require.Len(t, tombs, 1)
	assert.Equal(t, "/site/a.pth", tombs[0].Location)
	assert.Len(t, tree.Snapshot(), 1)
}

func TestTree_RemoveEntryDetachesAndDirtiesParent(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	snap := tree.Snapshot()[0]
	entryID := snap.Entries[0].NodeID()

	removed, err := tree.Remove(entryID)
	require.NoError(t, err)
	assert.Equal(t, []string{entryID}, removed)

	assert.True(t, snap.File.Dirty)
	children := tree.ChildrenOf(snap.File.NodeID())
	require.Len(t, children, 1)
	assert.Equal(t, "C:/libs/two", children[0].Value)
	assert.Empty(t, tree.RemovedFiles())
}

func TestTree_RemoveUnknown(t *testing.T) {
	tree := NewTree()
	_, err := tree.Remove("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_ChildrenOfNonFile(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	entryID := tree.Snapshot()[0].Entries[0].NodeID()

	assert.Empty(t, tree.ChildrenOf(entryID))
	assert.Empty(t, tree.ChildrenOf("unknown"))
}

func TestTree_SetEntryValue(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	snap := tree.Snapshot()[0]
	entryID := snap.Entries[0].NodeID()

	require.NoError(t, tree.SetEntryValue(entryID, "C:/libs/renamed"))
	assert.Equal(t, "C:/libs/renamed", snap.Entries[0].Value)
	assert.True(t, snap.Entries[0].Dirty)
	assert.True(t, snap.File.Dirty)

	err := tree.SetEntryValue(snap.File.NodeID(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_ResetClearsEverything(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	fileID := tree.Snapshot()[0].File.NodeID()
	_, err := tree.Remove(fileID)
	require.NoError(t, err)

	tree.Reset()
	assert.Zero(t, tree.Len())
	assert.Empty(t, tree.DeletedIDs())
	assert.Empty(t, tree.RemovedFiles())
	_, ok := tree.Node(fileID)
	assert.False(t, ok)
	assert.False(t, tree.Dirty())
}

func TestTree_LoadDiscardsPreviousState(t *testing.T) {
	tree := NewTree()
	tree.Load(twoFiles())
	oldID := tree.Snapshot()[0].File.NodeID()
	_, err := tree.Remove(oldID)
	require.NoError(t, err)

	tree.Load([]RawFile{{Location: "/other/c.pth", Lines: []string{"C:/x"}}})
	assert.Empty(t, tree.DeletedIDs())
	_, ok := tree.Node(oldID)
	assert.False(t, ok)
	require.Len(t, tree.Snapshot(), 1)
}
