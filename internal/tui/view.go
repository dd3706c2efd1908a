package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pthman/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("205")) // Pinkish

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	paneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("63"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// View renders the two-pane layout: distributions on the left, path
// files and entries on the right, detail and status lines below.
func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning for embeddable distributions... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	width := m.WindowSize.Width
	if width < 40 {
		width = 80
	}
	height := m.WindowSize.Height
	if height < 12 {
		height = 24
	}

	netWidth := width - 6
	leftWidth := netWidth / 3
	rightWidth := netWidth - leftWidth
	boxHeight := height - 8
	if boxHeight < 4 {
		boxHeight = 4
	}

	left := m.renderVersions(leftWidth, boxHeight)
	right := m.renderTree(rightWidth, boxHeight)

	leftBox := m.paneBox(paneVersions, leftWidth, boxHeight).Render(left)
	rightBox := m.paneBox(paneTree, rightWidth, boxHeight).Render(right)

	var b strings.Builder
	b.WriteString(titleStyle.Render("pthman · embeddable Python path files"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox))
	b.WriteString("\n")
	b.WriteString(m.renderDetail(width - 4))
	b.WriteString("\n")

	if m.InputMode {
		b.WriteString("  " + m.Input.View())
	} else if m.Status != "" {
		b.WriteString("  " + statusStyle.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  tab: pane · enter: select version · a: add · n: new file · x: remove · s: save · r: reload · q: quit"))
	return b.String()
}

func (m AppModel) paneBox(p pane, width, height int) lipgloss.Style {
	style := paneStyle
	if m.ActivePane == p {
		style = activePaneStyle
	}
	return style.Width(width).Height(height)
}

func (m AppModel) renderVersions(width, height int) string {
	var lines []string
	lines = append(lines, dimStyle.Render("Distributions"))
	if len(m.Versions) == 0 {
		lines = append(lines, dimStyle.Render("  (none found)"))
	}
	for i, name := range m.Versions {
		label := model.IconVersion + " " + name
		active := m.Session.Active()
		if active != nil && active.DisplayName() == name {
			label += " (active)"
		}
		if i == m.VersionIdx && m.ActivePane == paneVersions {
			lines = append(lines, selectedItemStyle.Render("> "+label))
		} else {
			lines = append(lines, unselectedItemStyle.Render("  "+label))
		}
	}
	return clampLines(lines, height)
}

func (m AppModel) renderTree(width, height int) string {
	var lines []string
	header := "Path files"
	if dir := m.Session.SiteDir(); dir != "" {
		header = truncate("Path files: "+dir, width-2)
	}
	lines = append(lines, dimStyle.Render(header))

	if m.Session.Active() == nil {
		lines = append(lines, dimStyle.Render("  Select a distribution to load its .pth files."))
		return clampLines(lines, height)
	}
	if len(m.Rows) == 0 {
		lines = append(lines, dimStyle.Render("  (no path files — press a to add one)"))
	}

	for i, r := range m.Rows {
		label := m.rowLabel(r, width)
		if i == m.RowIdx && m.ActivePane == paneTree {
			lines = append(lines, selectedItemStyle.Render("> "+label))
		} else {
			lines = append(lines, unselectedItemStyle.Render("  "+label))
		}
	}
	return clampLines(lines, height)
}

func (m AppModel) rowLabel(r row, width int) string {
	var b strings.Builder
	if r.isFile {
		b.WriteString(model.IconFile + " ")
		b.WriteString(r.label)
		if r.empty {
			b.WriteString(" " + model.IconEmpty + dimStyle.Render(" (deleted on save)"))
		}
	} else {
		b.WriteString("   " + model.IconEntry + " ")
		b.WriteString(truncate(r.label, width-8))
	}
	if r.dirty {
		b.WriteString(" " + dirtyStyle.Render(model.IconDirty))
	}
	return b.String()
}

// renderDetail previews the selected entry's target directory.
func (m AppModel) renderDetail(width int) string {
	r, ok := m.selectedRow()
	if !ok || r.isFile || m.ActivePane != paneTree {
		return ""
	}
	preview := model.GetDirPreview(r.label)
	if preview.ErrorMsg != "" {
		return "  " + missingStyle.Render(preview.ErrorMsg)
	}
	if !preview.Exists {
		return "  " + missingStyle.Render(model.IconMissing+" directory does not exist")
	}
	if !preview.IsDir {
		return "  " + dimStyle.Render("not a directory")
	}
	names := strings.Join(preview.Names, "  ")
	if preview.Truncated {
		names += "  …"
	}
	return "  " + dimStyle.Render(truncate("contains: "+names, width))
}

func clampLines(lines []string, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	// Slice on runes; entry values are user paths and may be multi-byte.
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
