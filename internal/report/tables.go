package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/record"
)

// QuartersReport renders each quarter's share of all releases.
type QuartersReport struct{}

// Render produces a chronological table of quarters.
func (r *QuartersReport) Render(records []record.Feature) (string, error) {
	var b strings.Builder
	b.WriteString("# Releases by Quarter\n")
	if len(records) == 0 {
		b.WriteString(noData)
		return b.String(), nil
	}

	stats := aggregate.QuarterStats(records)
	peak := 0
	for _, q := range stats {
		peak = max(peak, q.Count)
	}
	b.WriteString("\n| Quarter | Features | Share | |\n")
	b.WriteString("|---------|----------|-------|-|\n")
	for _, q := range stats {
		fmt.Fprintf(&b, "| %s | %s | %.1f%% | %s |\n",
			q.Label, humanize.Comma(int64(q.Count)), q.Share*100, bar(q.Count, peak, 20))
	}
	return b.String(), nil
}

// CategoriesReport renders the busiest categories with their quality
// numbers.
type CategoriesReport struct {
	// Limit caps the rows; negative means all.
	Limit int
}

// Render produces a table of the top categories.
func (r *CategoriesReport) Render(records []record.Feature) (string, error) {
	var b strings.Builder
	b.WriteString("# Top Categories\n")
	if len(records) == 0 {
		b.WriteString(noData)
		return b.String(), nil
	}

	b.WriteString("\n| Category | Features | Bugs | Bugs / Feature | Avg Days | Top Teams |\n")
	b.WriteString("|----------|----------|------|----------------|----------|-----------|\n")
	for _, g := range aggregate.TopCategories(records, r.Limit) {
		fmt.Fprintf(&b, "| %s | %s | %d | %.1f | %d | %s |\n",
			g.Label, humanize.Comma(int64(g.Count)), g.TotalBugs, g.BugRatio(), g.AvgTimeToRelease, leaders(g.TopContributors))
	}
	return b.String(), nil
}

func leaders(top []aggregate.ContributorCount) string {
	if len(top) == 0 {
		return "—"
	}
	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = fmt.Sprintf("%s (%d)", c.Name, c.Count)
	}
	return strings.Join(parts, ", ")
}

// HeatmapReport renders a month × category table of release counts.
type HeatmapReport struct {
	// Columns is the number of busiest categories shown; the rest are
	// folded into "Other".
	Columns int
}

// Render produces the month by category table.
func (r *HeatmapReport) Render(records []record.Feature) (string, error) {
	var b strings.Builder
	b.WriteString("# Release Heatmap\n")
	if len(records) == 0 {
		b.WriteString(noData)
		return b.String(), nil
	}

	top := aggregate.TopCategories(records, r.Columns)
	cols := make([]string, 0, len(top)+1)
	index := make(map[string]int, len(top))
	for i, g := range top {
		cols = append(cols, g.Label)
		index[g.Label] = i
	}
	other := len(cols)
	hasOther := false

	rows := make(map[string][]int)
	for _, f := range records {
		month := f.Date.Format("2006-01")
		if rows[month] == nil {
			rows[month] = make([]int, len(cols)+1)
		}
		col, ok := index[f.Category]
		if !ok {
			col = other
			hasOther = true
		}
		rows[month][col]++
	}
	if hasOther {
		cols = append(cols, "Other")
	}
	months := make([]string, 0, len(rows))
	for m := range rows {
		months = append(months, m)
	}
	sort.Strings(months)

	b.WriteString("\n| Month | " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|-------|" + strings.Repeat("---|", len(cols)) + "\n")
	for _, m := range months {
		cells := make([]string, len(cols))
		for i := range cols {
			if n := rows[m][i]; n > 0 {
				cells[i] = fmt.Sprintf("%d", n)
			} else {
				cells[i] = "·"
			}
		}
		fmt.Fprintf(&b, "| %s | %s |\n", m, strings.Join(cells, " | "))
	}
	return b.String(), nil
}
