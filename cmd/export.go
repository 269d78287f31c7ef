package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/export"
	"github.com/papapumpkin/featuremap/internal/source"
	"github.com/papapumpkin/featuremap/internal/telemetry"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the treemap or a year heat-map to a file",
	Long: `Render one dashboard screen to SVG, PNG or a JSON view descriptor.
The format follows --format or the file extension. --year renders that
year's release calendar as SVG instead of the treemap. --watch re-exports
whenever a data source changes.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output file (required)")
	exportCmd.Flags().String("format", "", "svg, png or json (default: from --out extension)")
	exportCmd.Flags().Int("width", 0, "canvas width in pixels (default: export.width)")
	exportCmd.Flags().Int("height", 0, "canvas height in pixels (default: export.height)")
	exportCmd.Flags().String("parent", "", "category or quarter label to drill into")
	exportCmd.Flags().Int("year", 0, "render the release calendar of this year instead")
	exportCmd.Flags().Bool("watch", false, "re-export when data sources change")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

// exportRequest is one resolved export invocation.
type exportRequest struct {
	Out    string
	Format string
	Width  int
	Height int
	Parent string
	Year   int
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	req := exportRequest{Width: s.cfg.Export.Width, Height: s.cfg.Export.Height}
	req.Out, _ = cmd.Flags().GetString("out")
	req.Format, _ = cmd.Flags().GetString("format")
	req.Parent, _ = cmd.Flags().GetString("parent")
	req.Year, _ = cmd.Flags().GetInt("year")
	if w, _ := cmd.Flags().GetInt("width"); w > 0 {
		req.Width = w
	}
	if h, _ := cmd.Flags().GetInt("height"); h > 0 {
		req.Height = h
	}
	if req.Year == 0 {
		if _, err := export.ResolveFormat(req.Format, req.Out); err != nil {
			return err
		}
	}

	if err := s.export(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", req.Out)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return s.watchExport(ctx, req, func(path string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		})
	}
	return nil
}

// export loads the data and writes one file.
func (s *session) export(ctx context.Context, req exportRequest) error {
	d, err := s.dashboard(ctx)
	if err != nil {
		return err
	}

	if req.Year > 0 {
		y := calendar.Year(d.Records(), req.Year)
		if err := export.SaveYear(req.Out, y, d.Palette().Quarter, req.Width, req.Height); err != nil {
			return err
		}
		s.recordExport(req, "year")
		return nil
	}

	if _, err := d.Resize(export.Body(req.Width, req.Height)); err != nil {
		return err
	}
	frame, err := d.Render()
	if req.Parent != "" {
		frame, err = d.SelectItem(req.Parent)
	}
	if err != nil {
		return err
	}
	if err := export.Save(export.Options{
		Path:   req.Out,
		Format: req.Format,
		Width:  req.Width,
		Height: req.Height,
		Frame:  frame.Treemap,
	}); err != nil {
		return err
	}
	s.recordExport(req, "treemap")
	return nil
}

func (s *session) recordExport(req exportRequest, kind string) {
	s.logger.Debug("exported", "path", req.Out, "view", kind, "width", req.Width, "height", req.Height)
	if err := s.emitter.Record(telemetry.KindExport, s.cfg.Mode, map[string]any{
		"path":   req.Out,
		"view":   kind,
		"width":  req.Width,
		"height": req.Height,
	}); err != nil {
		s.logger.Warn("telemetry write failed", "err", err)
	}
}

// watchExport re-runs the export each time a data source settles after a
// change, until ctx is done. Failed re-exports are logged and skipped.
func (s *session) watchExport(ctx context.Context, req exportRequest, wrote func(string)) error {
	w, err := source.NewWatcher(s.cfg.Data)
	if err != nil {
		return fmt.Errorf("watching data sources: %w", err)
	}
	w.Start()
	defer w.Stop()

	s.logger.Info("watching data sources", "files", len(s.cfg.Data))
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Removed {
				s.logger.Warn("data source removed", "path", change.Path)
				continue
			}
			s.logger.Info("data source changed", "path", change.Path)
			if err := s.export(ctx, req); err != nil {
				s.logger.Error("re-export failed", "err", err)
				continue
			}
			wrote(req.Out)
		}
	}
}
