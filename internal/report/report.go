// Package report renders release history summaries as Markdown or JSON.
package report

import (
	"fmt"

	"github.com/papapumpkin/featuremap/internal/record"
)

// Format defines how a record set is rendered into a human- or
// machine-readable string.
type Format interface {
	// Render produces the full report content from the records.
	Render(records []record.Feature) (string, error)
}

// FormatByName returns the Format implementation for the given name.
// Supported names: summary, quarters, categories, heatmap, json.
func FormatByName(name string) (Format, error) {
	switch name {
	case "summary":
		return &SummaryReport{}, nil
	case "quarters":
		return &QuartersReport{}, nil
	case "categories":
		return &CategoriesReport{Limit: 10}, nil
	case "heatmap":
		return &HeatmapReport{Columns: 6}, nil
	case "json":
		return &JSONReport{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// FormatNames returns the list of all supported report format names.
func FormatNames() []string {
	return []string{"summary", "quarters", "categories", "heatmap", "json"}
}

const noData = "\nNo features loaded.\n"
