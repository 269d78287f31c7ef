package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Minimum terminal dimensions for usable rendering.
const (
	MinWidth  = 40
	MinHeight = 12
)

// Layout breakpoints for adaptive rendering.
const (
	// CompactWidth triggers compact mode for the status bar and footer.
	CompactWidth = 60
	// chromeHeight is the rows used by status bar, tabs, breadcrumb, info
	// line and footer.
	chromeHeight = 7
)

// cellAspect is how many layout units tall one terminal row is. Terminal
// cells are roughly twice as tall as they are wide, so laying out in a
// doubled height keeps treemap cells visually square.
const cellAspect = 2

// TruncateWithEllipsis truncates s to fit maxWidth display columns,
// appending "…" if truncated. Wide runes count as two columns.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return runewidth.Truncate(s, 1, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// padToWidth pads a rendered (possibly ANSI-styled) string with spaces to fill
// the given width, then applies a background color across the entire padded row.
func padToWidth(s string, width int, bg lipgloss.Color) string {
	visible := lipgloss.Width(s)
	if visible < width {
		s += strings.Repeat(" ", width-visible)
	}
	return lipgloss.NewStyle().Background(bg).Render(s)
}

// bodySize returns the columns and rows available to the active screen.
func bodySize(width, height int) (int, int) {
	return max(width, MinWidth), max(height-chromeHeight, 3)
}
