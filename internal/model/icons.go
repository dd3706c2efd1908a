package model

// Version is the release version reported by --version and the update check.
const Version = "0.1.0"

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconFile    = "▸" // path file row
	IconEntry   = "·" // entry row
	IconDirty   = "*" // unsaved changes marker
	IconEmpty   = "∅" // file with no entries (deleted on save)
	IconVersion = "◆" // embeddable distribution
	IconMissing = "✗" // entry directory missing on disk
)
