// Package record provides the feature record model shared by every other
// package: one shipped feature with its release date, category, ownership
// and delivery metrics. Records are created once at load time and never
// mutated afterwards.
package record

import (
	"fmt"
	"strings"
	"time"
)

// Level values shared by Impact and Complexity.
const (
	Low    = "Low"
	Medium = "Medium"
	High   = "High"
)

// Uncategorized is the category assigned to rows without one.
const Uncategorized = "Uncategorized"

// Meeting is the canonical category every meeting-related label collapses to.
const Meeting = "Meeting"

// Feature is a single released feature.
type Feature struct {
	Date        time.Time `json:"date" yaml:"date"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Impact      string    `json:"impact" yaml:"impact"`

	// Ownership.
	Team        string `json:"team" yaml:"team"`
	Contributor string `json:"contributor" yaml:"contributor"`

	// Delivery metrics.
	BugCount      int      `json:"bug_count" yaml:"bug_count"`
	Complexity    string   `json:"complexity" yaml:"complexity"`
	TimeToRelease int      `json:"time_to_release" yaml:"time_to_release"`
	Dependencies  []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Year returns the calendar year of the release date.
func (f Feature) Year() int { return f.Date.Year() }

// Month returns the zero-based month (0 = January) of the release date.
func (f Feature) Month() int { return int(f.Date.Month()) - 1 }

// Day returns the day of month of the release date.
func (f Feature) Day() int { return f.Date.Day() }

// Quarter returns the quarter label of the release date, e.g. "2023 Q2".
func (f Feature) Quarter() string { return QuarterLabel(f.Year(), f.Month()) }

// Quarter maps a zero-based month to its quarter number 1..4.
func Quarter(month int) int {
	return month/3 + 1
}

// QuarterLabel renders the "{year} Q{n}" label for a zero-based month.
func QuarterLabel(year, month int) string {
	return fmt.Sprintf("%d Q%d", year, Quarter(month))
}

// QuarterMonths returns the first and last zero-based month of quarter q.
func QuarterMonths(q int) (first, last int) {
	return 3*q - 3, 3*q - 1
}

// ParseQuarterLabel splits a "{year} Q{n}" label.
func ParseQuarterLabel(label string) (year, q int, err error) {
	if _, err := fmt.Sscanf(strings.TrimSpace(label), "%d Q%d", &year, &q); err != nil {
		return 0, 0, fmt.Errorf("parsing quarter label %q: %w", label, err)
	}
	if q < 1 || q > 4 {
		return 0, 0, fmt.Errorf("parsing quarter label %q: quarter %d out of range", label, q)
	}
	return year, q, nil
}

// NormalizeCategory trims the raw spreadsheet category, substitutes
// Uncategorized for blanks and folds every meeting-related label into Meeting.
func NormalizeCategory(raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return Uncategorized
	}
	if strings.Contains(strings.ToLower(c), "meeting") {
		return Meeting
	}
	return c
}

var (
	highImpactWords = []string{"major", "significant", "new", "revolutionary", "transform"}
	lowImpactWords  = []string{"minor", "small", "fix", "tweak"}
)

// InferImpact derives an impact level from keywords in a feature description.
// High-impact keywords win over low-impact ones.
func InferImpact(description string) string {
	d := strings.ToLower(description)
	for _, w := range highImpactWords {
		if strings.Contains(d, w) {
			return High
		}
	}
	for _, w := range lowImpactWords {
		if strings.Contains(d, w) {
			return Low
		}
	}
	return Medium
}

// ParseLevel canonicalizes a Low/Medium/High value. Unknown values report ok=false.
func ParseLevel(s string) (level string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, true
	case "medium", "med":
		return Medium, true
	case "high":
		return High, true
	}
	return "", false
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
