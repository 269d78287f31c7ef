package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/treemap"
	"github.com/papapumpkin/featuremap/internal/view"
)

// Box-drawing sets for cell edges.
var (
	edgeRounded = [6]rune{'╭', '╮', '╰', '╯', '─', '│'}
	edgeCursor  = [6]rune{'╔', '╗', '╚', '╝', '═', '║'}
)

// continuation marks the column after a wide rune.
const continuation = rune(-1)

// grid is a character canvas where every position belongs to one cell.
type grid struct {
	w, h  int
	runes []rune
	owner []int
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([]rune, w*h), owner: make([]int, w*h)}
	for i := range g.runes {
		g.runes[i] = ' '
		g.owner[i] = -1
	}
	return g
}

func (g *grid) set(x, y int, r rune, owner int) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y*g.w+x] = r
	g.owner[y*g.w+x] = owner
}

// text writes s starting at x, clipped to maxWidth columns.
func (g *grid) text(x, y int, s string, maxWidth, owner int) {
	s = TruncateWithEllipsis(s, maxWidth)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		g.set(x, y, r, owner)
		if rw == 2 {
			g.set(x+1, y, continuation, owner)
		}
		x += rw
	}
}

// cellBounds maps a layout rectangle to inclusive-exclusive grid bounds.
// Layout y units are cellAspect times finer than rows.
func cellBounds(r treemap.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Round(r.X))
	x1 = int(math.Round(r.X + r.W))
	y0 = int(math.Round(r.Y / cellAspect))
	y1 = int(math.Round((r.Y + r.H) / cellAspect))
	return
}

// TreemapRect is the layout rectangle for a body of the given size.
func TreemapRect(cols, rows int) treemap.Rect {
	return treemap.Rect{W: float64(cols), H: float64(rows * cellAspect)}
}

// renderTreemap draws the cells of d into a cols×rows block. The cell at
// cursor is drawn with a double edge.
func renderTreemap(d view.Descriptor, cols, rows, cursor int) string {
	if len(d.Cells) == 0 {
		msg := styleInfo.Render("No features to show.")
		return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, msg)
	}

	g := newGrid(cols, rows)
	for i, c := range d.Cells {
		x0, y0, x1, y1 := cellBounds(c.Rect)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				g.set(x, y, ' ', i)
			}
		}
		w, h := x1-x0, y1-y0
		if w < 2 || h < 2 {
			continue
		}
		edge := edgeRounded
		if i == cursor {
			edge = edgeCursor
		}
		for x := x0 + 1; x < x1-1; x++ {
			g.set(x, y0, edge[4], i)
			g.set(x, y1-1, edge[4], i)
		}
		for y := y0 + 1; y < y1-1; y++ {
			g.set(x0, y, edge[5], i)
			g.set(x1-1, y, edge[5], i)
		}
		g.set(x0, y0, edge[0], i)
		g.set(x1-1, y0, edge[1], i)
		g.set(x0, y1-1, edge[2], i)
		g.set(x1-1, y1-1, edge[3], i)

		inner := w - 2
		if h >= 3 {
			g.text(x0+1, y0+1, c.Label, inner, i)
		}
		if h >= 4 {
			g.text(x0+1, y0+2, fmt.Sprintf("%d", c.Count), inner, i)
		}
		if h >= 5 && c.Inspected {
			g.text(x0+1, y0+3, "● inspected", inner, i)
		}
	}

	styles := make([]lipgloss.Style, len(d.Cells))
	for i, c := range d.Cells {
		styles[i] = cellStyle(c.RGB(), i == cursor)
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runOwner := -2
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runOwner >= 0 {
				b.WriteString(styles[runOwner].Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < cols; x++ {
			r, o := g.runes[y*cols+x], g.owner[y*cols+x]
			if r == continuation {
				continue
			}
			if o != runOwner {
				flush()
				runOwner = o
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}

// cellStyle fills with the cell color and picks legible ink.
func cellStyle(fill palette.Color, cursor bool) lipgloss.Style {
	s := lipgloss.NewStyle().Background(lipgloss.Color(fill.Hex()))
	if fill.Luminance() > 0.6 {
		s = s.Foreground(colorInk)
	} else {
		s = s.Foreground(colorBrightWhite)
	}
	if cursor {
		s = s.Bold(true)
	}
	return s
}

// cellDetail is the info line for the cell under the cursor.
func cellDetail(c view.CellView) string {
	lines := strings.Split(c.Tooltip(), "\n")
	line := strings.Join(lines, "  ")
	if len(c.TopContributors) > 0 {
		names := make([]string, len(c.TopContributors))
		for i, tc := range c.TopContributors {
			names[i] = fmt.Sprintf("%s (%d)", tc.Name, tc.Count)
		}
		line += "  · top: " + strings.Join(names, ", ")
	}
	return line
}
