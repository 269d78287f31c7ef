package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/papapumpkin/featuremap/internal/config"
	"github.com/papapumpkin/featuremap/internal/dashboard"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/record"
	"github.com/papapumpkin/featuremap/internal/source"
	"github.com/papapumpkin/featuremap/internal/telemetry"
	"github.com/papapumpkin/featuremap/internal/treemap"
)

// errNoData is returned by commands that need release data when none is
// configured.
var errNoData = errors.New("no release data: pass --data or set data in .featuremap.yaml")

// session bundles what every command builds from configuration.
type session struct {
	cfg     config.Config
	logger  *log.Logger
	emitter *telemetry.Emitter
	seed    uint64
}

// newSession loads configuration and opens the telemetry stream.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s := &session{cfg: cfg, logger: loggerFromContext(ctx)}
	s.enrichSeed()
	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return nil, err
		}
		s.emitter = em
	}
	return s, nil
}

// Close flushes the telemetry stream.
func (s *session) Close() error {
	return s.emitter.Close()
}

// loadRecords reads the configured data sources once.
func (s *session) loadRecords(ctx context.Context) ([]record.Feature, error) {
	if len(s.cfg.Data) == 0 {
		return nil, errNoData
	}
	start, end, err := s.cfg.WindowBounds()
	if err != nil {
		return nil, err
	}
	p := newProgress(s.logger)
	res, err := source.Load(ctx, s.cfg.Data, source.Options{
		Window:   source.Window{Start: start, End: end},
		Enricher: source.NewStubEnricher(s.enrichSeed()),
		Logger:   s.logger,
	})
	if err != nil {
		return nil, err
	}
	p.done("loaded release data", "records", len(res.Records))
	if rerr := s.emitter.Record(telemetry.KindLoad, s.cfg.Mode, map[string]any{
		"sources":       s.cfg.Data,
		"records":       len(res.Records),
		"skipped":       res.Skipped,
		"out_of_window": res.OutOfWindow,
	}); rerr != nil {
		s.logger.Warn("telemetry write failed", "err", rerr)
	}
	return res.Records, nil
}

// enrichSeed returns the stub enricher seed. An unset seed is taken from
// the clock once, so every reload in a session fills the same values.
func (s *session) enrichSeed() uint64 {
	if s.seed == 0 {
		s.seed = s.cfg.Seed
		if s.seed == 0 {
			s.seed = uint64(time.Now().UnixNano())
		}
	}
	return s.seed
}

// dashboardOptions resolves the configured mode, layout and palette.
func (s *session) dashboardOptions() (dashboard.Options, error) {
	mode, err := navigator.ParseMode(s.cfg.Mode)
	if err != nil {
		return dashboard.Options{}, err
	}
	strategy, err := treemap.ByName(s.cfg.Layout.Strategy, treemap.TieBreak(s.cfg.Layout.TieBreak), treemap.Scale(s.cfg.Layout.Scale))
	if err != nil {
		return dashboard.Options{}, err
	}
	colors := palette.DefaultSet()
	if s.cfg.PaletteFile != "" {
		if colors, err = palette.LoadSet(s.cfg.PaletteFile); err != nil {
			return dashboard.Options{}, err
		}
	}
	return dashboard.Options{
		Mode:     mode,
		Strategy: strategy,
		Palette:  colors,
		Emitter:  s.emitter,
		Logger:   s.logger,
	}, nil
}

// dashboard loads the data and builds the controller.
func (s *session) dashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	opts, err := s.dashboardOptions()
	if err != nil {
		return nil, err
	}
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.New(records, opts), nil
}
