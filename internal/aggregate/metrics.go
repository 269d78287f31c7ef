package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/papapumpkin/featuremap/internal/record"
)

const (
	defaultCadenceDays = 14
	minCadenceDays     = 7
	daysPerMonth       = 30
	day                = 24 * time.Hour
)

// MonthCount is one point of the monthly release trend.
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// ReleaseMetrics summarizes release activity across a record set.
type ReleaseMetrics struct {
	TotalFeatures    int          `json:"total_features"`
	TotalReleases    int          `json:"total_releases"`
	AvgReleaseSize   float64      `json:"avg_release_size"`
	CadenceDays      int          `json:"cadence_days"`
	VelocityPerMonth float64      `json:"velocity_per_month"`
	First            time.Time    `json:"first,omitzero"`
	Last             time.Time    `json:"last,omitzero"`
	Trend            []MonthCount `json:"trend"`
}

// ReleaseDates returns the distinct release dates, ascending.
func ReleaseDates(records []record.Feature) []time.Time {
	seen := make(map[string]bool)
	var dates []time.Time
	for _, f := range records {
		y, m, d := f.Date.Date()
		k := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
		if seen[k] {
			continue
		}
		seen[k] = true
		dates = append(dates, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Cadence returns the mean gap in whole days between consecutive release
// dates. Fewer than two dates yield 14; the result never drops below 7.
func Cadence(dates []time.Time) int {
	if len(dates) < 2 {
		return defaultCadenceDays
	}
	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, math.Floor(dates[i].Sub(dates[i-1]).Hours()/24))
	}
	avg := int(math.Round(stat.Mean(gaps, nil)))
	if avg < minCadenceDays {
		return minCadenceDays
	}
	return avg
}

// Metrics computes the release metrics panel for records.
func Metrics(records []record.Feature) ReleaseMetrics {
	m := ReleaseMetrics{TotalFeatures: len(records), Trend: []MonthCount{}}
	dates := ReleaseDates(records)
	m.TotalReleases = len(dates)
	m.AvgReleaseSize = float64(len(records)) / float64(max(len(dates), 1))
	m.CadenceDays = Cadence(dates)
	if len(records) == 0 {
		return m
	}

	m.First, m.Last = records[0].Date, records[0].Date
	byMonth := make(map[string]int)
	for _, f := range records {
		if f.Date.Before(m.First) {
			m.First = f.Date
		}
		if f.Date.After(m.Last) {
			m.Last = f.Date
		}
		byMonth[f.Date.Format("2006-01")]++
	}
	months := math.Max(1, m.Last.Sub(m.First).Hours()/24/daysPerMonth)
	m.VelocityPerMonth = float64(len(records)) / months

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Trend = append(m.Trend, MonthCount{Month: k, Count: byMonth[k]})
	}
	return m
}

// QuarterStat is one quarter's share of all releases.
type QuarterStat struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// QuarterStats counts records per quarter, in chronological order.
func QuarterStats(records []record.Feature) []QuarterStat {
	groups := Aggregate(records, ByQuarter, All)
	// "YYYY Qn" labels sort chronologically as strings.
	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	out := make([]QuarterStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, QuarterStat{
			Label: g.Label,
			Count: g.Count,
			Share: float64(g.Count) / float64(len(records)),
		})
	}
	return out
}

// TopCategories returns up to n categories with the most records.
func TopCategories(records []record.Feature, n int) []GroupSummary {
	groups := Aggregate(records, ByCategory, All)
	SortByCount(groups)
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
