// Package session owns the active configuration: the resolved
// distribution, its config tree, and the commands the presentation layer
// issues against it. Commands run synchronously, one at a time; the
// caller enforces that there is at most one in flight.
package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"pthman/internal/catalog"
	"pthman/internal/config"
	"pthman/internal/model"
	"pthman/internal/reconcile"
	"pthman/internal/store"
)

// Session is the aggregate the presentation layer talks to. It exclusively
// owns its Tree; switching the active version discards the tree wholesale
// rather than merging.
type Session struct {
	Events Notifier

	cfg    config.Config
	store  *store.Store
	tree   *model.Tree
	active *catalog.Record
	log    zerolog.Logger
}

// New creates a session with no active version.
func New(cfg config.Config, log zerolog.Logger) *Session {
	return &Session{
		cfg:   cfg,
		store: store.New(log),
		tree:  model.NewTree(),
		log:   log,
	}
}

// Tree exposes the live config tree for read access by the presentation
// layer. Mutations go through the session commands.
func (s *Session) Tree() *model.Tree { return s.tree }

// Active returns the current version record, or nil before the first
// successful Select.
func (s *Session) Active() *catalog.Record { return s.active }

// SiteDir is the site-packages directory of the active version, empty
// when no version is active.
func (s *Session) SiteDir() string {
	if s.active == nil {
		return ""
	}
	return s.active.SitePackagesDir(s.cfg.SiteRoot)
}

// Discover lists the distributions found in the configured archive
// directory, in discovery order.
func (s *Session) Discover() ([]catalog.Record, error) {
	return catalog.Discover(s.cfg.DistDir)
}

// Versions lists the display names of all discovered distributions.
func (s *Session) Versions() ([]string, error) {
	records, err := s.Discover()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.DisplayName()
	}
	return names, nil
}

// Select resolves name to a distribution and rebuilds the tree from its
// site-packages directory. Selecting the already-active version is a
// no-op that keeps unsaved edits. Any other switch discards the previous
// tree and deletion log atomically; unsaved work is lost, which is why
// the presentation layer checks Unsaved first.
func (s *Session) Select(name string) error {
	if strings.TrimSpace(name) == "" {
		// A blank name never resolves; don't bother scanning.
		return fmt.Errorf("resolve blank name: %w", catalog.ErrNotFound)
	}
	records, err := s.Discover()
	if err != nil {
		return err
	}
	rec, ok := catalog.ResolveByDisplayName(name, records)
	if !ok {
		return fmt.Errorf("resolve %q: %w", name, catalog.ErrNotFound)
	}
	if s.active != nil && s.active.Equal(rec) {
		return nil
	}
	// Load before touching any session state: a failed switch must leave
	// the previous version fully intact, never version B over version A's
	// tree.
	raw, err := s.store.Load(rec.SitePackagesDir(s.cfg.SiteRoot), "")
	if err != nil {
		return err
	}
	s.active = &rec
	s.tree.Load(raw)
	s.log.Info().Str("version", rec.DisplayName()).Msg("version selected")
	s.Events.fireVersionChanged(rec)
	return nil
}

// Reload rebuilds the tree from disk for the active version, discarding
// unsaved edits. Used when path files change externally.
func (s *Session) Reload() error {
	if s.active == nil {
		return nil
	}
	if err := s.reload(); err != nil {
		return err
	}
	s.Events.fireVersionChanged(*s.active)
	return nil
}

func (s *Session) reload() error {
	raw, err := s.store.Load(s.SiteDir(), "")
	if err != nil {
		return err
	}
	s.tree.Load(raw)
	return nil
}

// AddFile creates an empty path file named name (".pth" appended when
// missing) in the active site-packages directory.
func (s *Session) AddFile(name string) (*model.PathFile, error) {
	if s.active == nil {
		return nil, fmt.Errorf("add file: no active version")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("add file: empty name")
	}
	if !strings.HasSuffix(name, ".pth") {
		name += ".pth"
	}
	location := filepath.Join(s.SiteDir(), name)
	f := s.tree.AddFile(location)
	s.log.Info().Str("file", location).Msg("path file added")
	s.Events.fireNodesAdded("", []model.Node{f})
	return f, nil
}

// AddEntry appends path under the file that id resolves to. When id names
// an entry, the new value goes to that entry's file, so "add next to my
// selection" works no matter which row is selected. Re-adding a value the
// file already holds is a silent no-op.
func (s *Session) AddEntry(id, path string) (*model.PathEntry, error) {
	fileID, err := s.fileIDFor(id)
	if err != nil {
		return nil, err
	}
	entry, created, err := s.tree.AddEntry(fileID, path)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info().Str("path", path).Msg("entry added")
		s.Events.fireNodesAdded(fileID, []model.Node{entry})
	}
	return entry, nil
}

// fileIDFor maps a selection id to the file it belongs to.
func (s *Session) fileIDFor(id string) (string, error) {
	n, ok := s.tree.Node(id)
	if !ok {
		return "", fmt.Errorf("resolve %q: %w", id, model.ErrNotFound)
	}
	if e, ok := n.(*model.PathEntry); ok {
		return e.ParentID(), nil
	}
	return id, nil
}

// SetEntryValue renames an entry in place.
func (s *Session) SetEntryValue(id, value string) error {
	return s.tree.SetEntryValue(id, value)
}

// Remove evicts the node and its descendants and reports the removed ids.
func (s *Session) Remove(id string) ([]string, error) {
	removed, err := s.tree.Remove(id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Strs("ids", removed).Msg("nodes removed")
	s.Events.fireNodesRemoved(removed)
	return removed, nil
}

// Unsaved reports whether the tree holds edits not yet on disk.
func (s *Session) Unsaved() bool { return s.tree.Dirty() }

// Save reconciles the tree against disk. Failures are per file; the
// caller reports them and the user retries the failed subset with a
// later save.
func (s *Session) Save() []reconcile.Failure {
	if s.active == nil {
		return nil
	}
	failures := reconcile.Save(s.tree, s.store)
	for _, f := range failures {
		s.log.Error().Err(f.Err).Str("file", f.Location).Str("op", f.Op).Msg("save failure")
	}
	if len(failures) == 0 {
		s.log.Info().Msg("site package saved")
	}
	return failures
}
