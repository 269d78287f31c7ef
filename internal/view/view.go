// Package view binds navigator state, group summaries and laid-out cells
// into the descriptor every renderer draws from. Binding is a pure function.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/treemap"
)

// CellView is one treemap cell with the summary it represents.
type CellView struct {
	Label           string                       `json:"label"`
	Count           int                          `json:"count"`
	TotalBugs       int                          `json:"total_bugs"`
	BugRatio        float64                      `json:"bug_ratio"`
	AvgTime         int                          `json:"avg_time_to_release"`
	TopContributors []aggregate.ContributorCount `json:"top_contributors"`
	Color           string                       `json:"color"`
	Rect            treemap.Rect                 `json:"rect"`
	Inspected       bool                         `json:"inspected,omitempty"`

	color palette.Color
}

// RGB returns the cell's fill color.
func (c CellView) RGB() palette.Color { return c.color }

// Tooltip is the multi-line hover text for the cell.
func (c CellView) Tooltip() string {
	return fmt.Sprintf("%s: %d features\n🐞 %d bugs (%.1f per feature)\n⏱️ %d days avg time to release",
		c.Label, c.Count, c.TotalBugs, c.BugRatio, c.AvgTime)
}

// LegendEntry pairs a label with its color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`

	color palette.Color
}

// RGB returns the legend swatch color.
func (l LegendEntry) RGB() palette.Color { return l.color }

// Descriptor is everything a renderer needs for one treemap frame.
type Descriptor struct {
	Mode        navigator.Mode `json:"mode"`
	Title       string         `json:"title"`
	Breadcrumb  string         `json:"breadcrumb,omitempty"`
	BackVisible bool           `json:"back_visible"`
	BackLabel   string         `json:"back_label,omitempty"`
	Total       int            `json:"total"`
	Cells       []CellView     `json:"cells"`
	Legend      []LegendEntry  `json:"legend"`
}

// Bind builds the descriptor for the current navigator state. Groups supply
// the numbers behind each cell; cells supply geometry and color.
func Bind(state navigator.State, groups []aggregate.GroupSummary, cells []treemap.Cell) Descriptor {
	d := Descriptor{
		Mode:   state.Mode,
		Title:  Title(state),
		Total:  aggregate.Total(groups),
		Cells:  make([]CellView, 0, len(cells)),
		Legend: make([]LegendEntry, 0, len(groups)),
	}
	if state.Level == navigator.Drilled {
		d.Breadcrumb = fmt.Sprintf("%s / %s", rootName(state.Mode), state.Parent)
		d.BackVisible = true
		d.BackLabel = "← Back to " + rootName(state.Mode)
	}

	byLabel := make(map[string]aggregate.GroupSummary, len(groups))
	for _, g := range groups {
		byLabel[g.Label] = g
	}
	colors := make(map[string]palette.Color, len(cells))
	for _, c := range cells {
		g := byLabel[c.Item.Label]
		colors[c.Item.Label] = c.Item.Color
		d.Cells = append(d.Cells, CellView{
			Label:           c.Item.Label,
			Count:           g.Count,
			TotalBugs:       g.TotalBugs,
			BugRatio:        g.BugRatio(),
			AvgTime:         g.AvgTimeToRelease,
			TopContributors: g.TopContributors,
			Color:           c.Item.Color.Hex(),
			Rect:            c.Rect,
			Inspected:       state.Level == navigator.Drilled && state.Inspected == c.Item.Label,
			color:           c.Item.Color,
		})
	}

	for _, g := range groups {
		c, ok := colors[g.Label]
		if !ok {
			c = palette.Default
		}
		d.Legend = append(d.Legend, LegendEntry{Label: g.Label, Color: c.Hex(), color: c})
	}
	sort.SliceStable(d.Legend, func(i, j int) bool {
		a, b := strings.ToLower(d.Legend[i].Label), strings.ToLower(d.Legend[j].Label)
		if a != b {
			return a < b
		}
		return d.Legend[i].Label < d.Legend[j].Label
	})
	return d
}

// Title is the heading for a navigator state.
func Title(state navigator.State) string {
	switch {
	case state.Mode == navigator.ModeQuarter && state.Level == navigator.Drilled:
		return "Categories in " + state.Parent
	case state.Mode == navigator.ModeQuarter:
		return "Releases by Quarter"
	case state.Level == navigator.Drilled:
		return "Teams for " + state.Parent
	default:
		return "Feature Categories"
	}
}

func rootName(m navigator.Mode) string {
	if m == navigator.ModeQuarter {
		return "Quarters"
	}
	return "Categories"
}

// Inspected returns the cell the user picked for detail, if any.
func (d Descriptor) Inspected() (CellView, bool) {
	for _, c := range d.Cells {
		if c.Inspected {
			return c, true
		}
	}
	return CellView{}, false
}
