// Package dashboard owns the application state of a featuremap session and
// exposes the interaction surface the front ends drive: selecting items,
// going back, switching modes, paging years and resizing. All operations are
// serialized, so a Dashboard may be shared between goroutines; the loaded
// records are read-only.
package dashboard

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/record"
	"github.com/papapumpkin/featuremap/internal/telemetry"
	"github.com/papapumpkin/featuremap/internal/treemap"
	"github.com/papapumpkin/featuremap/internal/view"
)

// Default year range shown when no records are loaded.
const (
	DefaultFirstYear = 2022
	DefaultLastYear  = 2024
)

var (
	// ErrUnknownItem is returned when selecting a label not shown at the
	// current level.
	ErrUnknownItem = errors.New("no such item at this level")
	// ErrInvalidSize is returned by Resize for non-positive rectangles.
	ErrInvalidSize = errors.New("layout area must be positive")
	// ErrInvalidMonth is returned by SelectMonth outside 0..11.
	ErrInvalidMonth = errors.New("month out of range")
	// ErrInvalidDay is returned by SelectDay for days not in the month.
	ErrInvalidDay = errors.New("day out of range")
)

// ViewKind is the screen being shown.
type ViewKind string

// Screens.
const (
	ViewTreemap ViewKind = "treemap"
	ViewYear    ViewKind = "year"
	ViewMonth   ViewKind = "month"
)

// Views lists the screens in tab order.
var Views = []ViewKind{ViewTreemap, ViewYear, ViewMonth}

// Options configure a Dashboard. Zero values select the defaults.
type Options struct {
	Mode     navigator.Mode
	Strategy treemap.Strategy
	Palette  *palette.Set
	Rect     treemap.Rect
	Emitter  *telemetry.Emitter
	Logger   *log.Logger
}

// Frame is a rendered snapshot of the current screen.
type Frame struct {
	View      ViewKind
	Nav       navigator.State
	Treemap   view.Descriptor
	YearView  calendar.YearView
	MonthView calendar.MonthView
	Year      int
	Month     int
	// Day is the selected day of month, zero when none.
	Day int
	// Features lists the selected day's records, or the month's when no
	// day is selected.
	Features  []record.Feature
	FirstYear int
	LastYear  int
}

// Dashboard is the controller for one session.
type Dashboard struct {
	mu sync.Mutex

	records  []record.Feature
	metrics  aggregate.ReleaseMetrics
	nav      navigator.State
	strategy treemap.Strategy
	palette  *palette.Set
	rect     treemap.Rect

	view                ViewKind
	year, month, day    int
	firstYear, lastYear int

	emitter *telemetry.Emitter
	logger  *log.Logger
}

// New builds a dashboard over records. The records must not be modified
// afterwards.
func New(records []record.Feature, opts Options) *Dashboard {
	if opts.Mode == "" {
		opts.Mode = navigator.ModeCategory
	}
	if opts.Strategy == nil {
		opts.Strategy = treemap.Squarified{TieBreak: treemap.TieStrict}
	}
	if opts.Palette == nil {
		opts.Palette = palette.DefaultSet()
	}
	if opts.Rect.W <= 0 || opts.Rect.H <= 0 {
		opts.Rect = treemap.Rect{W: 100, H: 100}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	first, last := calendar.YearRange(records, DefaultFirstYear, DefaultLastYear)
	d := &Dashboard{
		records:   records,
		metrics:   aggregate.Metrics(records),
		nav:       navigator.New(opts.Mode),
		strategy:  opts.Strategy,
		palette:   opts.Palette,
		rect:      opts.Rect,
		view:      ViewTreemap,
		year:      last,
		firstYear: first,
		lastYear:  last,
		emitter:   opts.Emitter,
		logger:    opts.Logger,
	}
	d.emit(telemetry.KindSessionStart, map[string]any{"records": len(records), "years": []int{first, last}})
	return d
}

// Records returns the loaded records.
func (d *Dashboard) Records() []record.Feature { return d.records }

// Metrics returns the release metrics computed at load.
func (d *Dashboard) Metrics() aggregate.ReleaseMetrics { return d.metrics }

// Palette returns the colors the dashboard draws with.
func (d *Dashboard) Palette() *palette.Set { return d.palette }

// Render returns the current frame.
func (d *Dashboard) Render() (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.render()
}

// SelectItem drills into label at the top level, or marks it for detail at
// the drilled level.
func (d *Dashboard) SelectItem(label string) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dim, filter, _ := d.query()
	found := false
	for _, g := range aggregate.Aggregate(d.records, dim, filter) {
		if g.Label == label {
			found = true
			break
		}
	}
	if !found {
		return Frame{}, fmt.Errorf("select %q: %w", label, ErrUnknownItem)
	}

	from := d.nav.Level
	d.nav = d.nav.Select(label)
	d.view = ViewTreemap
	d.logger.Debug("select", "label", label, "from", from, "to", d.nav.Level, "depth", d.nav.Depth())
	d.emit(telemetry.KindSelect, map[string]any{"label": label, "level": d.nav.Level.String()})
	return d.render()
}

// GoBack undoes the most recent step: a drill-down on the treemap, a day or
// month selection on the calendar. At the root it changes nothing.
func (d *Dashboard) GoBack() (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.view {
	case ViewMonth:
		if d.day != 0 {
			d.day = 0
		} else {
			d.view = ViewYear
		}
	case ViewTreemap:
		if !d.nav.CanGoBack() {
			d.logger.Debug("back ignored, no history")
			return d.render()
		}
		d.nav = d.nav.Back()
	default:
		return d.render()
	}
	d.logger.Debug("back", "view", d.view, "depth", d.nav.Depth())
	d.emit(telemetry.KindBack, map[string]any{"view": string(d.view)})
	return d.render()
}

// SwitchMode shows the top of mode on the treemap, discarding history.
func (d *Dashboard) SwitchMode(mode navigator.Mode) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nav = d.nav.SwitchMode(mode)
	d.view = ViewTreemap
	d.logger.Debug("switch mode", "mode", mode)
	d.emit(telemetry.KindSwitchMode, nil)
	return d.render()
}

// ChangeYear pages the calendar by delta years, clamped to the years
// present in the data.
func (d *Dashboard) ChangeYear(delta int) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	y := min(max(d.year+delta, d.firstYear), d.lastYear)
	if y != d.year {
		d.year = y
		d.day = 0
		d.logger.Debug("change year", "year", y)
		d.emit(telemetry.KindChangeYear, map[string]int{"year": y})
	}
	return d.render()
}

// Resize sets the rectangle the treemap is laid out in.
func (d *Dashboard) Resize(r treemap.Rect) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !(r.W > 0 && r.H > 0) {
		return Frame{}, fmt.Errorf("resize to %gx%g: %w", r.W, r.H, ErrInvalidSize)
	}
	if r != d.rect {
		d.rect = r
		d.emit(telemetry.KindResize, map[string]float64{"w": r.W, "h": r.H})
	}
	return d.render()
}

// SetView switches screens. Entering the month view keeps the last month.
func (d *Dashboard) SetView(v ViewKind) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v != d.view {
		d.view = v
		d.emit(telemetry.KindSetView, map[string]string{"view": string(v)})
	}
	return d.render()
}

// SelectMonth opens the month calendar for a zero-based month of the
// current year.
func (d *Dashboard) SelectMonth(month int) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if month < 0 || month > 11 {
		return Frame{}, fmt.Errorf("select month %d: %w", month, ErrInvalidMonth)
	}
	d.month = month
	d.day = 0
	d.view = ViewMonth
	d.emit(telemetry.KindSetView, map[string]any{"view": string(ViewMonth), "month": month})
	return d.render()
}

// SelectDay toggles the day selection in the month calendar.
func (d *Dashboard) SelectDay(day int) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if day < 1 || day > calendar.DaysIn(d.year, d.month) {
		return Frame{}, fmt.Errorf("select day %d: %w", day, ErrInvalidDay)
	}
	if d.day == day {
		d.day = 0
	} else {
		d.day = day
	}
	d.view = ViewMonth
	return d.render()
}

// SetStrategy replaces the layout strategy.
func (d *Dashboard) SetStrategy(s treemap.Strategy) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.strategy = s
	d.logger.Debug("layout strategy", "strategy", fmt.Sprintf("%+v", s))
	return d.render()
}

// Strategy returns the active layout strategy.
func (d *Dashboard) Strategy() treemap.Strategy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strategy
}

// query maps the navigator position to an aggregation and the palette for
// its labels.
func (d *Dashboard) query() (aggregate.Dimension, aggregate.Predicate, *palette.Resolver) {
	switch {
	case d.nav.Mode == navigator.ModeQuarter && d.nav.Level == navigator.Drilled:
		return aggregate.ByCategory, aggregate.InQuarter(d.nav.Parent), d.palette.Category
	case d.nav.Mode == navigator.ModeQuarter:
		return aggregate.ByQuarter, aggregate.All, d.palette.Quarter
	case d.nav.Level == navigator.Drilled:
		return aggregate.ByTeam, aggregate.InCategory(d.nav.Parent), d.palette.Team
	default:
		return aggregate.ByCategory, aggregate.All, d.palette.Category
	}
}

func (d *Dashboard) render() (Frame, error) {
	f := Frame{
		View:      d.view,
		Nav:       d.nav,
		Year:      d.year,
		Month:     d.month,
		Day:       d.day,
		FirstYear: d.firstYear,
		LastYear:  d.lastYear,
	}

	switch d.view {
	case ViewYear:
		f.YearView = calendar.Year(d.records, d.year)
	case ViewMonth:
		f.MonthView = calendar.Month(d.records, d.year, d.month)
		if d.day != 0 {
			f.Features = calendar.FeaturesOn(d.records, time.Date(d.year, time.Month(d.month+1), d.day, 0, 0, 0, 0, time.UTC))
		} else {
			f.Features = calendar.FeaturesIn(d.records, d.year, d.month)
		}
	default:
		desc, err := d.layout()
		if err != nil {
			return Frame{}, err
		}
		f.Treemap = desc
	}
	return f, nil
}

func (d *Dashboard) layout() (view.Descriptor, error) {
	dim, filter, colors := d.query()
	groups := aggregate.Aggregate(d.records, dim, filter)
	aggregate.SortByCount(groups)

	items := make([]treemap.Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, treemap.Item{
			Label: g.Label,
			Value: float64(g.Count),
			Color: colors.Resolve(g.Label),
			Meta:  g,
		})
	}
	cells, err := d.strategy.Layout(items, d.rect)
	if err != nil {
		return view.Descriptor{}, fmt.Errorf("laying out %s: %w", dim, err)
	}
	return view.Bind(d.nav, groups, cells), nil
}

func (d *Dashboard) emit(kind string, data any) {
	if err := d.emitter.Record(kind, string(d.nav.Mode), data); err != nil {
		d.logger.Warn("telemetry", "err", err)
	}
}
