package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"pthman/internal/config"
	"pthman/internal/session"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	distDir := t.TempDir()
	siteRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(distDir, "python-3.9.12-embed-amd64.zip"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	siteDir := filepath.Join(siteRoot, "Python39", "site-packages")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		t.Fatalf("MkdirAll error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "a.pth"), []byte("C:/libs/one\nC:/libs/two\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "b.pth"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	sess := session.New(config.Config{DistDir: distDir, SiteRoot: siteRoot}, zerolog.Nop())
	m := InitialModel(sess, zerolog.Nop())
	m.Loading = false
	m.Versions = []string{"Python 3.9.12"}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m AppModel, s string) AppModel {
	t.Helper()
	next, _ := m.Update(key(s))
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", next)
	}
	return am
}

func selectVersion(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m = press(t, m, "enter")
	if m.Session.Active() == nil {
		t.Fatalf("version not selected: %s", m.Status)
	}
	m.closeWatcher()
	return m
}

func TestUpdate_SelectVersionBuildsRows(t *testing.T) {
	m := selectVersion(t, testModel(t))

	// a.pth + 2 entries + b.pth
	if len(m.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(m.Rows))
	}
	if !m.Rows[0].isFile || m.Rows[0].label != "a.pth" {
		t.Errorf("row 0 = %+v, want file a.pth", m.Rows[0])
	}
	if m.Rows[1].isFile || m.Rows[1].label != "C:/libs/one" {
		t.Errorf("row 1 = %+v, want entry C:/libs/one", m.Rows[1])
	}
	if !m.Rows[3].empty {
		t.Errorf("row 3 = %+v, want empty file b.pth", m.Rows[3])
	}
	if m.ActivePane != paneTree {
		t.Error("pane did not switch to tree after select")
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := selectVersion(t, testModel(t))

	m = press(t, m, "j")
	m = press(t, m, "j")
	if m.RowIdx != 2 {
		t.Errorf("RowIdx = %d, want 2", m.RowIdx)
	}
	m = press(t, m, "k")
	if m.RowIdx != 1 {
		t.Errorf("RowIdx = %d, want 1", m.RowIdx)
	}
	// Does not run past the end.
	for i := 0; i < 10; i++ {
		m = press(t, m, "j")
	}
	if m.RowIdx != len(m.Rows)-1 {
		t.Errorf("RowIdx = %d, want %d", m.RowIdx, len(m.Rows)-1)
	}
}

func TestUpdate_SmartAddDispatch(t *testing.T) {
	m := selectVersion(t, testModel(t))

	// Entry selected: the new entry goes to its file.
	m.RowIdx = 1
	m = press(t, m, "a")
	if !m.InputMode || m.InputTarget != inputNewEntry {
		t.Fatalf("entry selection: target = %v, want inputNewEntry", m.InputTarget)
	}
	if m.TargetID != m.Rows[1].fileID {
		t.Error("new entry not targeted at the owning file")
	}
	m = press(t, m, "esc")

	// Empty file selected: entry goes into it.
	m.RowIdx = 3
	m = press(t, m, "a")
	if m.InputTarget != inputNewEntry || m.TargetID != m.Rows[3].id {
		t.Fatalf("empty file selection: target = %v/%s", m.InputTarget, m.TargetID)
	}
	m = press(t, m, "esc")

	// Non-empty file selected: a new file is started.
	m.RowIdx = 0
	m = press(t, m, "a")
	if m.InputTarget != inputNewFile {
		t.Fatalf("file selection: target = %v, want inputNewFile", m.InputTarget)
	}
}

func TestUpdate_AddEntryThroughInput(t *testing.T) {
	m := selectVersion(t, testModel(t))
	m.RowIdx = 3 // empty b.pth
	m = press(t, m, "a")

	m.Input.SetValue(`C:\new\lib`)
	m = press(t, m, "enter")
	if m.InputMode {
		t.Fatal("still in input mode after enter")
	}
	if len(m.Rows) != 5 {
		t.Fatalf("len(Rows) = %d, want 5 after add", len(m.Rows))
	}
	if !m.Session.Unsaved() {
		t.Error("session not marked unsaved after add")
	}
}

func TestUpdate_RemoveSelected(t *testing.T) {
	m := selectVersion(t, testModel(t))
	m.RowIdx = 0 // a.pth with two entries
	m = press(t, m, "x")

	if len(m.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1 after removing a.pth", len(m.Rows))
	}
	if got := len(m.Session.Tree().DeletedIDs()); got != 3 {
		t.Errorf("deletion log has %d ids, want 3", got)
	}
}

func TestUpdate_UnsavedGuardOnVersionSwitch(t *testing.T) {
	m := selectVersion(t, testModel(t))
	m.RowIdx = 1
	m = press(t, m, "x") // edit pending

	m.ActivePane = paneVersions
	m = press(t, m, "enter")
	if !m.ConfirmPending {
		t.Fatal("expected unsaved-changes guard before switching")
	}

	m = press(t, m, "esc")
	if m.ConfirmPending {
		t.Error("esc did not cancel the pending switch")
	}
	if !m.Session.Unsaved() {
		t.Error("edits lost while staying on the active version")
	}
}

func TestUpdate_SaveClearsUnsaved(t *testing.T) {
	m := selectVersion(t, testModel(t))
	m.RowIdx = 1
	m = press(t, m, "x")
	m = press(t, m, "s")

	if m.Session.Unsaved() {
		t.Error("session still unsaved after save")
	}
	if m.Status != "Saved." {
		t.Errorf("Status = %q, want Saved.", m.Status)
	}
}
