package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"pthman/internal/session"
	"pthman/internal/watch"
)

type pane int

const (
	paneVersions pane = iota
	paneTree
)

type inputTarget int

const (
	inputNone inputTarget = iota
	inputNewFile
	inputNewEntry
)

// row is one rendered line of the tree pane. Selection resolves back to
// the domain node through the session's id map, never by walking the
// tree.
type row struct {
	id     string
	fileID string // owning file id; equals id for file rows
	isFile bool
	label  string
	dirty  bool
	empty  bool // file without entries, deleted on save
}

// AppModel holds the TUI state.
type AppModel struct {
	Session *session.Session

	// Data
	Versions []string
	Rows     []row
	Loading  bool
	Err      error
	Status   string

	// UI State
	ActivePane pane
	VersionIdx int
	RowIdx     int
	WindowSize tea.WindowSizeMsg

	// Input State
	InputMode   bool
	InputTarget inputTarget
	Input       textinput.Model
	TargetID    string // node receiving a new entry

	// Unsaved-changes guard before a version switch
	ConfirmPending bool
	PendingVersion string

	watcher *watch.Watcher
	log     zerolog.Logger
}

// InitialModel returns the initial state around a session.
func InitialModel(sess *session.Session, log zerolog.Logger) AppModel {
	ti := textinput.New()
	ti.CharLimit = 250
	ti.Width = 50

	return AppModel{
		Session: sess,
		Loading: true,
		Input:   ti,
		log:     log,
	}
}

// Init starts the version discovery.
func (m AppModel) Init() tea.Cmd {
	return LoadVersionsCmd(m.Session)
}
