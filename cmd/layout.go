package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/featuremap/internal/export"
	"github.com/papapumpkin/featuremap/internal/treemap"
	"github.com/papapumpkin/featuremap/internal/view"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the treemap cells for one screen",
	Long: `Lay out the treemap for the configured mode in a width×height rectangle
and print each cell's label, count, rectangle and color. --parent drills
into one category (or quarter) first.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().String("parent", "", "category or quarter label to drill into")
	layoutCmd.Flags().Float64("width", 100, "layout rectangle width")
	layoutCmd.Flags().Float64("height", 100, "layout rectangle height")
	layoutCmd.Flags().Bool("json", false, "print the view descriptor as JSON")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := s.dashboard(ctx)
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	if _, err := d.Resize(treemap.Rect{W: width, H: height}); err != nil {
		return err
	}
	frame, err := d.Render()
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		frame, err = d.SelectItem(parent)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return export.WriteJSON(out, frame.Treemap)
	}
	return printCells(out, frame.Treemap, width*height)
}

// printCells writes the descriptor as a heading plus a table of cells.
func printCells(w io.Writer, d view.Descriptor, area float64) error {
	heading := d.Title
	if d.Breadcrumb != "" {
		heading += "  (" + d.Breadcrumb + ")"
	}
	if _, err := fmt.Fprintf(w, "%s: %d features\n", heading, d.Total); err != nil {
		return err
	}

	rows := make([][]string, 0, len(d.Cells))
	for _, c := range d.Cells {
		share := 0.0
		if area > 0 {
			share = c.Rect.Area() / area * 100
		}
		rows = append(rows, []string{
			c.Label,
			strconv.Itoa(c.Count),
			num(c.Rect.X), num(c.Rect.Y), num(c.Rect.W), num(c.Rect.H),
			strconv.FormatFloat(share, 'f', 1, 64) + "%",
			c.Color,
		})
	}

	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Label", "Count", "X", "Y", "W", "H", "Area", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			if col >= 1 && col <= 6 {
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
