// Package aggregate groups feature records along one dimension and computes
// per-group summaries: count, total bugs, average time to release and the
// leading contributors.
package aggregate

import (
	"math"
	"sort"

	"github.com/papapumpkin/featuremap/internal/record"
)

// MaxTopContributors caps GroupSummary.TopContributors.
const MaxTopContributors = 3

// Dimension selects the grouping key of a record.
type Dimension string

// Grouping dimensions.
const (
	ByCategory    Dimension = "category"
	ByTeam        Dimension = "team"
	ByContributor Dimension = "contributor"
	ByQuarter     Dimension = "quarter"
)

// Key returns the group label of f under d.
func (d Dimension) Key(f record.Feature) string {
	switch d {
	case ByTeam:
		return f.Team
	case ByContributor:
		return f.Contributor
	case ByQuarter:
		return f.Quarter()
	default:
		return f.Category
	}
}

// contributorKey is what a group's top contributors rank: teams, except
// when the groups already are teams, where individual contributors rank.
func (d Dimension) contributorKey(f record.Feature) string {
	if d == ByTeam {
		return f.Contributor
	}
	return f.Team
}

// Predicate restricts the records an aggregation considers.
type Predicate func(record.Feature) bool

// All accepts every record.
func All(record.Feature) bool { return true }

// InCategory accepts records of one category.
func InCategory(category string) Predicate {
	return func(f record.Feature) bool { return f.Category == category }
}

// InQuarter accepts records released in one "{year} Q{n}" quarter.
func InQuarter(label string) Predicate {
	return func(f record.Feature) bool { return f.Quarter() == label }
}

// And accepts records every predicate accepts.
func And(preds ...Predicate) Predicate {
	return func(f record.Feature) bool {
		for _, p := range preds {
			if p != nil && !p(f) {
				return false
			}
		}
		return true
	}
}

// ContributorCount is one entry of a group's leaderboard.
type ContributorCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GroupSummary is the derived view of one group of records.
type GroupSummary struct {
	Label            string             `json:"label"`
	Count            int                `json:"count"`
	TotalBugs        int                `json:"total_bugs"`
	AvgTimeToRelease int                `json:"avg_time_to_release"`
	TopContributors  []ContributorCount `json:"top_contributors"`
}

// BugRatio returns bugs per feature, zero for an empty group.
func (g GroupSummary) BugRatio() float64 {
	if g.Count == 0 {
		return 0
	}
	return float64(g.TotalBugs) / float64(g.Count)
}

// Aggregate groups the records accepted by filter along dim. Groups appear in
// first-encountered order and are never empty.
func Aggregate(records []record.Feature, dim Dimension, filter Predicate) []GroupSummary {
	if filter == nil {
		filter = All
	}
	var order []string
	members := make(map[string][]record.Feature)
	for _, f := range records {
		if !filter(f) {
			continue
		}
		k := dim.Key(f)
		if _, ok := members[k]; !ok {
			order = append(order, k)
		}
		members[k] = append(members[k], f)
	}

	out := make([]GroupSummary, 0, len(order))
	for _, k := range order {
		g := summarize(members[k], dim)
		g.Label = k
		out = append(out, g)
	}
	return out
}

// Summarize computes the summary of one group with teams as contributors.
// An empty group yields all zeros.
func Summarize(records []record.Feature) GroupSummary {
	return summarize(records, ByCategory)
}

func summarize(records []record.Feature, dim Dimension) GroupSummary {
	g := GroupSummary{TopContributors: []ContributorCount{}}
	if len(records) == 0 {
		return g
	}

	totalTime := 0
	var names []string
	counts := make(map[string]int)
	for _, f := range records {
		g.Count++
		g.TotalBugs += f.BugCount
		totalTime += f.TimeToRelease

		name := dim.contributorKey(f)
		if name == "" {
			continue
		}
		if _, ok := counts[name]; !ok {
			names = append(names, name)
		}
		counts[name]++
	}
	g.AvgTimeToRelease = int(math.Round(float64(totalTime) / float64(g.Count)))

	// Stable sort keeps first-encountered order among equal counts.
	sort.SliceStable(names, func(i, j int) bool { return counts[names[i]] > counts[names[j]] })
	if len(names) > MaxTopContributors {
		names = names[:MaxTopContributors]
	}
	for _, n := range names {
		g.TopContributors = append(g.TopContributors, ContributorCount{Name: n, Count: counts[n]})
	}
	return g
}

// SortByCount orders groups by count descending, keeping the existing order
// among ties.
func SortByCount(groups []GroupSummary) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
}

// Total sums the counts of groups.
func Total(groups []GroupSummary) int {
	n := 0
	for _, g := range groups {
		n += g.Count
	}
	return n
}
