package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/featuremap/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a release history report",
	Long: fmt.Sprintf(`Print a Markdown (or JSON) report over the loaded release data.
Formats: %s.`, strings.Join(report.FormatNames(), ", ")),
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringP("format", "f", "summary", "report format: "+strings.Join(report.FormatNames(), ", "))
	reportCmd.Flags().Bool("pretty", false, "render Markdown for the terminal")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := report.FormatByName(name)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}
	out, err := format.Render(records)
	if err != nil {
		return err
	}
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty && name != "json" {
		out = renderMarkdown(out)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// renderMarkdown styles md for the terminal, falling back to the raw
// Markdown when rendering fails.
func renderMarkdown(md string) string {
	const maxReadableWidth = 100
	wrap := 80
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		wrap = min(w, maxReadableWidth)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
