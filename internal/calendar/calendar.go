// Package calendar buckets feature records by month, week and day for the
// year heat-map and the month calendar.
package calendar

import (
	"sort"
	"time"

	"github.com/papapumpkin/featuremap/internal/record"
)

// WeeksPerMonth is the number of week buckets per month (days 1-6 fall in
// bucket 0, 7-13 in bucket 1, and so on).
const WeeksPerMonth = 5

// MonthNames are the English month names indexed by zero-based month.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthSummary is one card of the year heat-map.
type MonthSummary struct {
	Month      int                `json:"month"`
	Count      int                `json:"count"`
	Categories map[string]int     `json:"categories"`
	Weeks      [WeeksPerMonth]int `json:"weeks"`
}

// YearView is the heat-map of one calendar year.
type YearView struct {
	Year     int              `json:"year"`
	Months   [12]MonthSummary `json:"months"`
	MaxMonth int              `json:"max_month"`
	Total    int              `json:"total"`
}

// Year buckets the records released in year.
func Year(records []record.Feature, year int) YearView {
	v := YearView{Year: year}
	for m := range v.Months {
		v.Months[m] = MonthSummary{Month: m, Categories: map[string]int{}}
	}
	for _, f := range records {
		if f.Year() != year {
			continue
		}
		ms := &v.Months[f.Month()]
		ms.Count++
		ms.Categories[f.Category]++
		week := f.Day() / 7
		if week >= WeeksPerMonth {
			week = WeeksPerMonth - 1
		}
		ms.Weeks[week]++
		v.Total++
	}
	for _, ms := range v.Months {
		if ms.Count > v.MaxMonth {
			v.MaxMonth = ms.Count
		}
	}
	return v
}

// DaySummary is one cell of the month calendar.
type DaySummary struct {
	Day        int            `json:"day"`
	Count      int            `json:"count"`
	Categories map[string]int `json:"categories"`
}

// MonthView is the calendar grid of one month.
type MonthView struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	// Offset is the weekday (0 = Sunday) of the first day.
	Offset int          `json:"offset"`
	Days   []DaySummary `json:"days"`
	MaxDay int          `json:"max_day"`
	Total  int          `json:"total"`
}

// DaysIn returns the number of days in a zero-based month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Month buckets the records of one month by day.
func Month(records []record.Feature, year, month int) MonthView {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	v := MonthView{
		Year:   year,
		Month:  month,
		Offset: int(first.Weekday()),
		Days:   make([]DaySummary, DaysIn(year, month)),
	}
	for i := range v.Days {
		v.Days[i] = DaySummary{Day: i + 1, Categories: map[string]int{}}
	}
	for _, f := range records {
		if f.Year() != year || f.Month() != month {
			continue
		}
		d := &v.Days[f.Day()-1]
		d.Count++
		d.Categories[f.Category]++
		v.Total++
	}
	for _, d := range v.Days {
		if d.Count > v.MaxDay {
			v.MaxDay = d.Count
		}
	}
	return v
}

// Weeks returns the month laid out as calendar rows of seven day numbers,
// with zeros padding the days outside the month.
func (v MonthView) Weeks() [][7]int {
	var rows [][7]int
	var row [7]int
	col := v.Offset
	for day := 1; day <= len(v.Days); day++ {
		row[col] = day
		col++
		if col == 7 {
			rows = append(rows, row)
			row = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows
}

// FeaturesOn returns the records released on the given calendar date,
// most recent first.
func FeaturesOn(records []record.Feature, date time.Time) []record.Feature {
	var out []record.Feature
	for _, f := range records {
		if record.SameDay(f.Date, date) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// FeaturesIn returns the records of one month, most recent first.
func FeaturesIn(records []record.Feature, year, month int) []record.Feature {
	var out []record.Feature
	for _, f := range records {
		if f.Year() == year && f.Month() == month {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Intensity maps a count to [0,1] relative to the busiest bucket.
func Intensity(count, max int) float64 {
	if count <= 0 || max <= 0 {
		return 0
	}
	if count >= max {
		return 1
	}
	return float64(count) / float64(max)
}

// YearRange returns the first and last year present in records, or
// fallbackFrom..fallbackTo when there are none.
func YearRange(records []record.Feature, fallbackFrom, fallbackTo int) (from, to int) {
	if len(records) == 0 {
		return fallbackFrom, fallbackTo
	}
	from, to = records[0].Year(), records[0].Year()
	for _, f := range records[1:] {
		y := f.Year()
		if y < from {
			from = y
		}
		if y > to {
			to = y
		}
	}
	return from, to
}
