package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pthman/internal/reconcile"
	"pthman/internal/session"
	"pthman/internal/watch"
)

// MsgVersionsReady carries the discovered distribution names.
type MsgVersionsReady []string

// MsgError indicates an error occurred.
type MsgError error

// MsgSiteChanged reports an external change to a .pth file.
type MsgSiteChanged string

// LoadVersionsCmd discovers distributions in the background.
func LoadVersionsCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		versions, err := sess.Versions()
		if err != nil {
			return MsgError(err)
		}
		return MsgVersionsReady(versions)
	}
}

// watchCmd waits for the next external site change.
func watchCmd(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		name, ok := <-w.Events
		if !ok {
			return nil
		}
		return MsgSiteChanged(name)
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgVersionsReady:
		m.Loading = false
		m.Versions = msg
		if len(m.Versions) == 0 {
			m.Status = "No embeddable distributions found."
		}
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case MsgSiteChanged:
		m.Status = fmt.Sprintf("Changed on disk: %s (press r to reload)", string(msg))
		if m.watcher != nil {
			return m, watchCmd(m.watcher)
		}
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, cmd
}

func (m AppModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.Input.Value())
		m.InputMode = false
		m.Input.Blur()
		if value == "" {
			m.InputTarget = inputNone
			return m, nil
		}
		switch m.InputTarget {
		case inputNewFile:
			if _, err := m.Session.AddFile(value); err != nil {
				m.Status = err.Error()
			} else {
				m.Status = fmt.Sprintf("Added %s.pth", strings.TrimSuffix(value, ".pth"))
			}
		case inputNewEntry:
			if _, err := m.Session.AddEntry(m.TargetID, value); err != nil {
				m.Status = err.Error()
			} else {
				m.Status = "Added path entry."
			}
		}
		m.InputTarget = inputNone
		m.rebuildRows()
		return m, nil
	case tea.KeyEsc:
		m.InputMode = false
		m.InputTarget = inputNone
		m.Input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m AppModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.closeWatcher()
		return m, tea.Quit

	case "tab":
		if m.ActivePane == paneVersions {
			m.ActivePane = paneTree
		} else {
			m.ActivePane = paneVersions
		}

	case "up", "k":
		if m.ActivePane == paneVersions && m.VersionIdx > 0 {
			m.VersionIdx--
		} else if m.ActivePane == paneTree && m.RowIdx > 0 {
			m.RowIdx--
		}

	case "down", "j":
		if m.ActivePane == paneVersions && m.VersionIdx < len(m.Versions)-1 {
			m.VersionIdx++
		} else if m.ActivePane == paneTree && m.RowIdx < len(m.Rows)-1 {
			m.RowIdx++
		}

	case "enter":
		if m.ActivePane == paneVersions && m.VersionIdx < len(m.Versions) {
			return m.requestVersion(m.Versions[m.VersionIdx])
		}

	case "y":
		if m.ConfirmPending {
			name := m.PendingVersion
			m.ConfirmPending = false
			m.PendingVersion = ""
			return m.switchVersion(name)
		}

	case "esc":
		if m.ConfirmPending {
			m.ConfirmPending = false
			m.PendingVersion = ""
			m.Status = ""
		} else {
			m.Status = ""
		}

	case "a":
		return m.startAdd()

	case "n":
		if m.Session.Active() == nil {
			m.Status = "Select a version first."
			return m, nil
		}
		return m.startInput(inputNewFile, "File name (without .pth)...", "")

	case "x":
		m.removeSelected()

	case "s":
		if m.ConfirmPending {
			// Save first, then finish the pending switch.
			if m.reportSave(m.Session.Save()) {
				name := m.PendingVersion
				m.ConfirmPending = false
				m.PendingVersion = ""
				return m.switchVersion(name)
			}
			return m, nil
		}
		m.reportSave(m.Session.Save())

	case "r":
		if err := m.Session.Reload(); err != nil {
			m.Status = err.Error()
		} else {
			m.Status = "Reloaded from disk."
			m.rebuildRows()
		}
	}

	return m, nil
}

// requestVersion starts a version switch, routing through the
// unsaved-changes guard first.
func (m AppModel) requestVersion(name string) (tea.Model, tea.Cmd) {
	if m.Session.Unsaved() {
		m.ConfirmPending = true
		m.PendingVersion = name
		m.Status = "Unsaved changes: y = discard and switch, s = save first, esc = stay."
		return m, nil
	}
	return m.switchVersion(name)
}

func (m AppModel) switchVersion(name string) (tea.Model, tea.Cmd) {
	if err := m.Session.Select(name); err != nil {
		m.Status = err.Error()
		return m, nil
	}
	m.rebuildRows()
	m.RowIdx = 0
	m.ActivePane = paneTree
	m.Status = fmt.Sprintf("Loaded %s", name)

	m.closeWatcher()
	if w, err := watch.New(m.Session.SiteDir(), m.log); err == nil {
		m.watcher = w
		return m, watchCmd(w)
	}
	// Missing site dir: nothing to watch until files are saved there.
	return m, nil
}

// startAdd dispatches on the current selection: an entry row or an empty
// file grows a new entry; anything else starts a new file.
func (m AppModel) startAdd() (tea.Model, tea.Cmd) {
	if m.Session.Active() == nil {
		m.Status = "Select a version first."
		return m, nil
	}
	r, ok := m.selectedRow()
	switch {
	case ok && !r.isFile:
		return m.startInput(inputNewEntry, "Directory path...", r.fileID)
	case ok && r.isFile && r.empty:
		return m.startInput(inputNewEntry, "Directory path...", r.id)
	default:
		return m.startInput(inputNewFile, "File name (without .pth)...", "")
	}
}

func (m AppModel) startInput(target inputTarget, placeholder, targetID string) (tea.Model, tea.Cmd) {
	m.InputMode = true
	m.InputTarget = target
	m.TargetID = targetID
	m.Input.Placeholder = placeholder
	m.Input.SetValue("")
	m.Input.Focus()
	return m, textinput.Blink
}

func (m *AppModel) removeSelected() {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	if _, err := m.Session.Remove(r.id); err != nil {
		m.Status = err.Error()
		return
	}
	m.Status = fmt.Sprintf("Removed %s", r.label)
	m.rebuildRows()
	if m.RowIdx >= len(m.Rows) && m.RowIdx > 0 {
		m.RowIdx = len(m.Rows) - 1
	}
}

// reportSave surfaces per-file failures and reports whether the save was
// clean.
func (m *AppModel) reportSave(failures []reconcile.Failure) bool {
	if len(failures) == 0 {
		m.Status = "Saved."
		m.rebuildRows()
		return true
	}
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.Error()
	}
	m.Status = fmt.Sprintf("Save failed for %d file(s): %s", len(failures), strings.Join(parts, "; "))
	m.rebuildRows()
	return false
}

func (m AppModel) selectedRow() (row, bool) {
	if m.RowIdx < 0 || m.RowIdx >= len(m.Rows) {
		return row{}, false
	}
	return m.Rows[m.RowIdx], true
}

// rebuildRows flattens the tree snapshot into display rows.
func (m *AppModel) rebuildRows() {
	var rows []row
	for _, snap := range m.Session.Tree().Snapshot() {
		rows = append(rows, row{
			id:     snap.File.NodeID(),
			fileID: snap.File.NodeID(),
			isFile: true,
			label:  snap.File.Name(),
			dirty:  snap.File.Dirty,
			empty:  len(snap.Entries) == 0,
		})
		for _, e := range snap.Entries {
			rows = append(rows, row{
				id:     e.NodeID(),
				fileID: e.ParentID(),
				label:  e.Value,
				dirty:  e.Dirty,
			})
		}
	}
	m.Rows = rows
	if m.RowIdx >= len(rows) {
		m.RowIdx = 0
	}
}

func (m *AppModel) closeWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}
