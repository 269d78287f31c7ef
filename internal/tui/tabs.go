package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/featuremap/internal/dashboard"
)

// tabLabels maps each screen to its display label.
var tabLabels = map[dashboard.ViewKind]string{
	dashboard.ViewTreemap: "treemap",
	dashboard.ViewYear:    "year",
	dashboard.ViewMonth:   "month",
}

// nextView cycles through dashboard.Views by step, wrapping around.
func nextView(v dashboard.ViewKind, step int) dashboard.ViewKind {
	n := len(dashboard.Views)
	for i, candidate := range dashboard.Views {
		if candidate == v {
			return dashboard.Views[((i+step)%n+n)%n]
		}
	}
	return dashboard.ViewTreemap
}

// TabBar renders a horizontal row of screen labels.
type TabBar struct {
	Active dashboard.ViewKind
	Width  int
}

// View renders the tab bar as a single styled line.
// The active tab is highlighted with the primary accent color and bold.
func (tb TabBar) View() string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(colorMuted)

	var parts []string
	for i, v := range dashboard.Views {
		label := fmt.Sprintf("[%d] %s", i+1, tabLabels[v])
		if v == tb.Active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().
		Width(tb.Width).
		PaddingLeft(2).
		Render(line)
}
