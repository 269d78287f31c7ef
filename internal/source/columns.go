package source

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Column headers of the release spreadsheet.
const (
	ColDate          = "Release Date"
	ColCategory      = "Group / Category"
	ColDescription   = "Feature Description"
	ColImpact        = "Impact"
	ColTeam          = "Team"
	ColContributor   = "Contributor"
	ColBugCount      = "Bug Count"
	ColComplexity    = "Complexity"
	ColTimeToRelease = "Time To Release"
	ColDependencies  = "Dependencies"
)

// Row is one source row keyed by canonical column header.
type Row map[string]string

// aliases maps squashed header spellings to canonical headers, so
// "release_date", "Release Date" and "releaseDate" all land on ColDate.
var aliases = map[string]string{
	"releasedate":        ColDate,
	"date":               ColDate,
	"groupcategory":      ColCategory,
	"category":           ColCategory,
	"group":              ColCategory,
	"featuredescription": ColDescription,
	"description":        ColDescription,
	"feature":            ColDescription,
	"impact":             ColImpact,
	"team":               ColTeam,
	"contributor":        ColContributor,
	"bugcount":           ColBugCount,
	"bugs":               ColBugCount,
	"complexity":         ColComplexity,
	"timetorelease":      ColTimeToRelease,
	"dependencies":       ColDependencies,
}

// canonicalColumn returns the canonical header for a raw header, or the
// trimmed raw header when it is not a known column.
func canonicalColumn(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if c, ok := aliases[b.String()]; ok {
		return c
	}
	return strings.TrimSpace(raw)
}

// rowsFromTable turns a header row plus data rows into Rows. Blank rows are
// dropped; short rows leave the missing columns empty.
func rowsFromTable(table [][]string) []Row {
	if len(table) == 0 {
		return nil
	}
	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = canonicalColumn(h)
	}
	rows := make([]Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := make(Row, len(header))
		blank := true
		for i, h := range header {
			if i >= len(cells) {
				break
			}
			v := strings.TrimSpace(cells[i])
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

// rowFromMap converts a decoded JSON/YAML/SQL object into a Row.
func rowFromMap(m map[string]any) Row {
	row := make(Row, len(m))
	for k, v := range m {
		row[canonicalColumn(k)] = stringify(v)
	}
	return row
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case time.Time:
		return t.Format(time.RFC3339)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := stringify(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
