package session

import (
	"fmt"
	"strings"

	"pthman/internal/model"
)

// SiteState is the JSON-mode projection of the session: the discovered
// distributions plus the active site package, if any.
type SiteState struct {
	Versions []string    `json:"versions"`
	Active   string      `json:"active,omitempty"`
	SiteDir  string      `json:"siteDir,omitempty"`
	Files    []FileState `json:"files,omitempty"`
}

// FileState is one path file and its entries.
type FileState struct {
	ID       string       `json:"id"`
	Location string       `json:"location"`
	Dirty    bool         `json:"dirty"`
	Entries  []EntryState `json:"entries"`
}

// EntryState is one path entry.
type EntryState struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Dirty bool   `json:"dirty"`
}

// State materializes the session for JSON output and the web API.
func (s *Session) State() (SiteState, error) {
	versions, err := s.Versions()
	if err != nil {
		return SiteState{}, err
	}
	state := SiteState{Versions: versions}
	if s.active != nil {
		state.Active = s.active.DisplayName()
		state.SiteDir = s.SiteDir()
	}
	for _, snap := range s.tree.Snapshot() {
		fs := FileState{
			ID:       snap.File.NodeID(),
			Location: snap.File.Location,
			Dirty:    snap.File.Dirty,
			Entries:  make([]EntryState, 0, len(snap.Entries)),
		}
		for _, e := range snap.Entries {
			fs.Entries = append(fs.Entries, EntryState{
				ID:    e.NodeID(),
				Value: e.Value,
				Dirty: e.Dirty,
			})
		}
		state.Files = append(state.Files, fs)
	}
	return state, nil
}

// Report renders a plain-text summary for --report. Verbose adds node ids
// and the pending-deletion log.
func (s *Session) Report(verbose bool) (string, error) {
	state, err := s.State()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Embeddable distributions\n")
	b.WriteString("========================\n")
	if len(state.Versions) == 0 {
		b.WriteString("  (none found)\n")
	}
	for _, name := range state.Versions {
		marker := "  "
		if name == state.Active {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, model.IconVersion, name)
	}

	if state.Active == "" {
		return b.String(), nil
	}

	fmt.Fprintf(&b, "\nSite packages: %s\n", state.SiteDir)
	b.WriteString("========================\n")
	if len(state.Files) == 0 {
		b.WriteString("  (no path files)\n")
	}
	for _, f := range state.Files {
		dirty := ""
		if f.Dirty {
			dirty = " " + model.IconDirty
		}
		if len(f.Entries) == 0 {
			fmt.Fprintf(&b, "%s %s %s (empty, deleted on save)%s\n", model.IconFile, model.IconEmpty, f.Location, dirty)
		} else {
			fmt.Fprintf(&b, "%s %s%s\n", model.IconFile, f.Location, dirty)
		}
		for _, e := range f.Entries {
			entryDirty := ""
			if e.Dirty {
				entryDirty = " " + model.IconDirty
			}
			fmt.Fprintf(&b, "    %s %s%s\n", model.IconEntry, e.Value, entryDirty)
			if verbose {
				fmt.Fprintf(&b, "      id: %s\n", e.ID)
			}
		}
		if verbose {
			fmt.Fprintf(&b, "    id: %s\n", f.ID)
		}
	}

	if verbose {
		if deleted := s.tree.DeletedIDs(); len(deleted) > 0 {
			b.WriteString("\nPending deletions\n")
			for _, id := range deleted {
				fmt.Fprintf(&b, "  %s\n", id)
			}
		}
	}
	return b.String(), nil
}
