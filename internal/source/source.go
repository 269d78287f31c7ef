// Package source loads release records from spreadsheet exports. Files are
// read concurrently, normalized into record.Feature values, filtered to a
// date window and enriched with stand-in values for fields the sheet lacks.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/featuremap/internal/record"
)

// ErrNoSources is returned when Load is called without any paths.
var ErrNoSources = errors.New("no data sources given")

// LoadError reports a source that could not be read. It is fatal for a
// dashboard session.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading release data: %v", e.Err)
	}
	return fmt.Sprintf("loading release data from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Window is an inclusive range of calendar dates. Zero bounds are open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window by calendar date.
func (w Window) Contains(t time.Time) bool {
	day := dateOnly(t)
	if !w.Start.IsZero() && day.Before(dateOnly(w.Start)) {
		return false
	}
	if !w.End.IsZero() && day.After(dateOnly(w.End)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Options tune Load.
type Options struct {
	Window   Window
	Enricher Enricher
	Logger   *log.Logger
	// Readers overrides extension-based reader selection when set.
	Readers func(path string) (Reader, error)
}

// Result is the outcome of a load.
type Result struct {
	Records []record.Feature
	// Skipped counts rows without a usable release date.
	Skipped int
	// OutOfWindow counts rows dropped by the date window.
	OutOfWindow int
}

// Load reads every path concurrently and returns their records in argument
// order. Any unreadable source fails the whole load with a *LoadError.
func Load(ctx context.Context, paths []string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	readerFor := opts.Readers
	if readerFor == nil {
		readerFor = ReaderFor
	}
	if len(paths) == 0 {
		return Result{}, &LoadError{Err: ErrNoSources}
	}

	tables := make([][]Row, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			r, err := readerFor(path)
			if err != nil {
				return &LoadError{Path: path, Err: err}
			}
			rows, err := r.Read(gctx, path)
			if err != nil {
				return &LoadError{Path: path, Err: err}
			}
			logger.Debug("read source", "path", path, "rows", len(rows))
			tables[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, rows := range tables {
		for _, row := range rows {
			f, missing, err := Normalize(row)
			if err != nil {
				res.Skipped++
				logger.Debug("skipping row", "path", paths[i], "err", err)
				continue
			}
			if !opts.Window.Contains(f.Date) {
				res.OutOfWindow++
				continue
			}
			if opts.Enricher != nil && missing != 0 {
				opts.Enricher.Enrich(&f, missing)
			}
			res.Records = append(res.Records, f)
		}
	}
	if res.Skipped > 0 {
		logger.Warn("rows without a release date were skipped", "count", res.Skipped)
	}
	logger.Info("loaded release data", "records", len(res.Records), "sources", len(paths), "out_of_window", res.OutOfWindow)
	return res, nil
}
