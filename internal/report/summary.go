package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/record"
)

// SummaryReport renders the headline release metrics and monthly trend.
type SummaryReport struct{}

// Render produces the release summary.
func (r *SummaryReport) Render(records []record.Feature) (string, error) {
	var b strings.Builder
	b.WriteString("# Release Summary\n")
	if len(records) == 0 {
		b.WriteString(noData)
		return b.String(), nil
	}

	m := aggregate.Metrics(records)
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Features: %s\n", humanize.Comma(int64(m.TotalFeatures)))
	fmt.Fprintf(&b, "- Release days: %s\n", humanize.Comma(int64(m.TotalReleases)))
	fmt.Fprintf(&b, "- Average release size: %s features\n", humanize.FtoaWithDigits(m.AvgReleaseSize, 1))
	fmt.Fprintf(&b, "- Cadence: every %d days\n", m.CadenceDays)
	fmt.Fprintf(&b, "- Velocity: %s features per month\n", humanize.FtoaWithDigits(m.VelocityPerMonth, 1))
	fmt.Fprintf(&b, "- Span: %s – %s\n", m.First.Format("Jan 2, 2006"), m.Last.Format("Jan 2, 2006"))

	if len(m.Trend) > 0 {
		b.WriteString("\n## Monthly trend\n\n")
		b.WriteString("| Month | Features | |\n")
		b.WriteString("|-------|----------|-|\n")
		peak := 0
		for _, p := range m.Trend {
			peak = max(peak, p.Count)
		}
		for _, p := range m.Trend {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", p.Month, p.Count, bar(p.Count, peak, 20))
		}
	}
	return b.String(), nil
}

// bar draws a block bar of up to width cells scaled to peak.
func bar(n, peak, width int) string {
	if n <= 0 || peak <= 0 {
		return ""
	}
	cells := max(1, n*width/peak)
	return strings.Repeat("█", cells)
}
