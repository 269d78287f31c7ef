package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
// In compact mode (narrow terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		var part string
		if compact {
			part = styleFooterKey.Render(help.Key)
		} else {
			part = styleFooterKey.Render(help.Key) + styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	line := strings.Join(parts, sep)
	return styleFooter.Width(f.Width).Render(line)
}

// TreemapFooterBindings returns footer bindings for the treemap screen.
func TreemapFooterBindings(km KeyMap, drilled, flex bool) []key.Binding {
	back := km.Back
	back.SetEnabled(drilled)
	scale := km.Scale
	scale.SetEnabled(flex)
	return []key.Binding{km.Right, km.Enter, back, km.Mode, km.Layout, scale, km.NextView, km.Quit}
}

// YearFooterBindings returns footer bindings for the year heat-map.
func YearFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Left, km.Right, km.Enter, km.PrevYear, km.NextYear, km.NextView, km.Quit}
}

// MonthFooterBindings returns footer bindings for the month calendar.
func MonthFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Left, km.Right, km.Enter, km.Back, km.PrevYear, km.NextYear, km.NextView, km.Quit}
}
