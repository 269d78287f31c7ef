package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/record"
)

// Year heat-map geometry: months are laid out as yearCols × yearRows cards.
const (
	yearCols = 4
	yearRows = 3
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// monthBase is the hue a month is shaded from.
func monthBase(quarters *palette.Resolver, month int) palette.Color {
	return quarters.Resolve(fmt.Sprintf("Q%d", record.Quarter(month)))
}

// renderYear draws the twelve month cards of y; the card at cursor is
// outlined.
func renderYear(y calendar.YearView, quarters *palette.Resolver, cols, rows, cursor int) string {
	cardW := max(cols/yearCols-2, 8)
	cardH := max(rows/yearRows-2, 2)

	var grid []string
	for r := 0; r < yearRows; r++ {
		var cards []string
		for c := 0; c < yearCols; c++ {
			m := y.Months[r*yearCols+c]
			fill := palette.Heat(monthBase(quarters, m.Month), calendar.Intensity(m.Count, y.MaxMonth))
			body := []string{
				TruncateWithEllipsis(calendar.MonthNames[m.Month], cardW),
				fmt.Sprintf("%d", m.Count),
			}
			if cardH >= 3 {
				body = append(body, sparkline(m.Weeks[:]))
			}
			content := cellStyle(fill, m.Month == cursor).
				Width(cardW).
				Height(cardH).
				Render(strings.Join(body, "\n"))
			border := styleCardBorder
			if m.Month == cursor {
				border = styleCursorBorder
			}
			cards = append(cards, border.Render(content))
		}
		grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid...)
}

// sparkline renders counts as block bars scaled to the largest.
func sparkline(counts []int) string {
	peak := 0
	for _, n := range counts {
		peak = max(peak, n)
	}
	var b strings.Builder
	for _, n := range counts {
		if n == 0 {
			b.WriteRune(' ')
			continue
		}
		level := int(calendar.Intensity(n, peak)*float64(len(sparkLevels)-1) + 0.5)
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

// renderMonth draws the calendar grid of v; cursor is a zero-based day
// index and selected a day of month or zero.
func renderMonth(v calendar.MonthView, base palette.Color, cols, cursor, selected int) string {
	cw := min(max(cols/7, 4), 10)
	var b strings.Builder

	b.WriteString(styleDetailTitle.Render(fmt.Sprintf("%s %d", calendar.MonthNames[v.Month], v.Year)))
	b.WriteString(styleInfo.Render(fmt.Sprintf("  %d features", v.Total)))
	b.WriteString("\n")
	for _, name := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(styleWeekday.Width(cw).Render(name))
	}
	for _, week := range v.Weeks() {
		b.WriteString("\n")
		for _, day := range week {
			if day == 0 {
				b.WriteString(strings.Repeat(" ", cw))
				continue
			}
			ds := v.Days[day-1]
			label := fmt.Sprintf("%2d", day)
			if ds.Count > 0 {
				label += fmt.Sprintf(" •%d", ds.Count)
			}
			style := cellStyle(palette.Heat(base, calendar.Intensity(ds.Count, v.MaxDay)), false)
			if day-1 == cursor {
				style = style.Foreground(colorAccent).Bold(true).Underline(true)
			}
			if day == selected {
				style = style.Reverse(true)
			}
			b.WriteString(style.Width(cw).Render(TruncateWithEllipsis(label, cw)))
		}
	}
	return b.String()
}
