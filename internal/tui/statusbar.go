package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// StatusBar renders the persistent top bar with mode, data size, year and
// layout.
type StatusBar struct {
	Mode     string
	Features int
	Releases int
	Year     int
	Layout   string
	Loading  bool
	Width    int
}

// Logo returns the styled single-line logo for the status bar.
func Logo() string {
	return styleStatusLabel.Render("▦ featuremap")
}

// View renders the status bar as a single line.
// Adapts to narrow terminals by dropping low-priority segments
// (layout → releases → year) to guarantee single-line rendering.
func (s StatusBar) View() string {
	compact := s.Width < CompactWidth

	// The outer styleStatusBar applies Padding(0,1), consuming 2 columns.
	const barPadding = 2
	innerWidth := max(s.Width-barPadding, 0)

	barBg := lipgloss.NewStyle().Background(colorSurface)
	left := Logo()
	if s.Mode != "" {
		label := "  mode "
		if compact {
			label = "  "
		}
		left += styleStatusValue.Render(label) + styleStatusLabel.Render(s.Mode)
	}
	if s.Loading {
		left += styleStatusValue.Render("  loading…")
	}

	const minGap = 1
	leftWidth := lipgloss.Width(left)
	segments := s.buildRightSegments(compact)
	if leftWidth+totalWidth(segments)+minGap > innerWidth {
		segments = dropSegments(segments, innerWidth-leftWidth-minGap)
	}
	right := joinSegments(segments)

	gap := max(innerWidth-leftWidth-lipgloss.Width(right), 1)
	line := left + barBg.Render(strings.Repeat(" ", gap)) + right
	if lipgloss.Width(line) > innerWidth {
		line = truncateToWidth(line, innerWidth)
	}
	return styleStatusBar.Width(s.Width).Render(line)
}

// statusSegment represents a styled segment of the status bar with a drop priority.
// Lower priority values are dropped first when the terminal is too narrow.
type statusSegment struct {
	text     string
	priority int
}

func (s StatusBar) buildRightSegments(compact bool) []statusSegment {
	if s.Loading {
		return nil
	}
	var segments []statusSegment
	if s.Layout != "" && !compact {
		segments = append(segments, statusSegment{styleStatusValue.Render(s.Layout + "  "), 1})
	}
	if s.Releases > 0 {
		segments = append(segments, statusSegment{styleStatusValue.Render(humanize.Comma(int64(s.Releases)) + " releases  "), 2})
	}
	if s.Year > 0 {
		segments = append(segments, statusSegment{styleStatusLabel.Render(fmt.Sprintf("%d", s.Year)) + styleStatusValue.Render("  "), 3})
	}
	segments = append(segments, statusSegment{styleStatusValue.Render(humanize.Comma(int64(s.Features)) + " features"), 4})
	return segments
}

// joinSegments concatenates segment text with a trailing bar-colored space.
func joinSegments(segments []statusSegment) string {
	barBg := lipgloss.NewStyle().Background(colorSurface)
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.text)
	}
	b.WriteString(barBg.Render(" "))
	return b.String()
}

// dropSegments removes lowest-priority segments until the combined width fits within maxWidth.
func dropSegments(segments []statusSegment, maxWidth int) []statusSegment {
	result := make([]statusSegment, len(segments))
	copy(result, segments)

	for totalWidth(result) > maxWidth && len(result) > 0 {
		minIdx := 0
		minPri := result[0].priority
		for i, seg := range result {
			if seg.priority < minPri {
				minPri = seg.priority
				minIdx = i
			}
		}
		result = append(result[:minIdx], result[minIdx+1:]...)
	}
	return result
}

// totalWidth computes the rendered width of all segments plus trailing space.
func totalWidth(segments []statusSegment) int {
	w := 1
	for _, seg := range segments {
		w += lipgloss.Width(seg.text)
	}
	return w
}

// truncateToWidth cuts an ANSI-styled string to maxWidth visible columns,
// copying escape sequences through untouched.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	var b strings.Builder
	width := 0
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			b.WriteRune(r)
			continue
		}
		if inEscape {
			b.WriteRune(r)
			// ESC sequences end at a letter (A-Z, a-z).
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		rw := runewidth.RuneWidth(r)
		if width+rw > maxWidth {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	b.WriteString("\x1b[0m")
	return b.String()
}
