package session

import (
	"pthman/internal/catalog"
	"pthman/internal/model"
)

// Notifier dispatches structural notifications to presentation-layer
// listeners. Registration is scoped to one Session: a new session starts
// with an empty listener set, so nothing leaks across sessions.
type Notifier struct {
	versionChanged []func(catalog.Record)
	nodesAdded     []func(parentID string, nodes []model.Node)
	nodesRemoved   []func(ids []string)
}

// OnVersionChanged registers fn for active-version switches. It fires
// after the tree has been rebuilt for the new version.
func (n *Notifier) OnVersionChanged(fn func(catalog.Record)) {
	n.versionChanged = append(n.versionChanged, fn)
}

// OnNodesAdded registers fn for added nodes. parentID is empty for new
// files and the file id for new entries.
func (n *Notifier) OnNodesAdded(fn func(parentID string, nodes []model.Node)) {
	n.nodesAdded = append(n.nodesAdded, fn)
}

// OnNodesRemoved registers fn for removed node ids, so a visual tree can
// evict its rows.
func (n *Notifier) OnNodesRemoved(fn func(ids []string)) {
	n.nodesRemoved = append(n.nodesRemoved, fn)
}

func (n *Notifier) fireVersionChanged(rec catalog.Record) {
	for _, fn := range n.versionChanged {
		fn(rec)
	}
}

func (n *Notifier) fireNodesAdded(parentID string, nodes []model.Node) {
	for _, fn := range n.nodesAdded {
		fn(parentID, nodes)
	}
}

func (n *Notifier) fireNodesRemoved(ids []string) {
	for _, fn := range n.nodesRemoved {
		fn(ids)
	}
}
