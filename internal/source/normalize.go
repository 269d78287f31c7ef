package source

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/papapumpkin/featuremap/internal/record"
)

// ErrInvalidDate marks rows whose release date is missing or unparseable.
// Such rows are skipped, not fatal.
var ErrInvalidDate = errors.New("invalid release date")

// Fields is a set of optional record fields.
type Fields uint8

// Optional fields an Enricher may fill in.
const (
	FieldTeam Fields = 1 << iota
	FieldContributor
	FieldBugCount
	FieldComplexity
	FieldTimeToRelease
	FieldDependencies
)

// Has reports whether x is in the set.
func (f Fields) Has(x Fields) bool { return f&x != 0 }

// excelEpoch is day zero of spreadsheet serial dates (1900 date system).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a release date and truncates it to the calendar day.
// Plain numbers are read as spreadsheet serial dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return time.Time{}, fmt.Errorf("%w: serial %v out of range", ErrInvalidDate, serial)
		}
		return excelEpoch.AddDate(0, 0, int(math.Floor(serial))), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Normalize converts a raw row into a feature record and reports which
// optional fields the row did not supply.
func Normalize(row Row) (record.Feature, Fields, error) {
	date, err := ParseDate(row[ColDate])
	if err != nil {
		return record.Feature{}, 0, err
	}

	f := record.Feature{
		Date:        date,
		Description: row[ColDescription],
		Category:    record.NormalizeCategory(row[ColCategory]),
		Team:        row[ColTeam],
		Contributor: row[ColContributor],
	}
	var missing Fields

	if level, ok := record.ParseLevel(row[ColImpact]); ok {
		f.Impact = level
	} else {
		f.Impact = record.InferImpact(f.Description)
	}
	if f.Team == "" {
		missing |= FieldTeam
	}
	if f.Contributor == "" {
		missing |= FieldContributor
	}
	if n, ok := parseCount(row[ColBugCount]); ok {
		f.BugCount = n
	} else {
		missing |= FieldBugCount
	}
	if level, ok := record.ParseLevel(row[ColComplexity]); ok {
		f.Complexity = level
	} else {
		missing |= FieldComplexity
	}
	if n, ok := parseCount(row[ColTimeToRelease]); ok && n > 0 {
		f.TimeToRelease = n
	} else {
		missing |= FieldTimeToRelease
	}
	if deps, ok := row[ColDependencies]; ok {
		f.Dependencies = splitDependencies(deps)
	} else {
		missing |= FieldDependencies
	}
	return f, missing, nil
}

func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(math.Round(v)), true
}

// splitDependencies splits a comma or semicolon separated list, dropping
// blanks and duplicates.
func splitDependencies(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	seen := make(map[string]bool, len(fields))
	var out []string
	for _, d := range fields {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
