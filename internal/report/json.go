package report

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/record"
)

// JSONReport renders metrics, quarters and categories as machine-readable
// JSON for external tooling.
type JSONReport struct{}

type jsonOutput struct {
	Metrics    aggregate.ReleaseMetrics `json:"metrics"`
	Quarters   []aggregate.QuarterStat  `json:"quarters"`
	Categories []aggregate.GroupSummary `json:"categories"`
	Teams      []aggregate.GroupSummary `json:"teams"`
}

// Render produces the JSON document.
func (r *JSONReport) Render(records []record.Feature) (string, error) {
	teams := aggregate.Aggregate(records, aggregate.ByTeam, aggregate.All)
	aggregate.SortByCount(teams)
	out := jsonOutput{
		Metrics:    aggregate.Metrics(records),
		Quarters:   aggregate.QuarterStats(records),
		Categories: aggregate.TopCategories(records, -1),
		Teams:      teams,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}
	return string(data) + "\n", nil
}
