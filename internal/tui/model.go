package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/dashboard"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/treemap"
)

// LoadFunc builds the dashboard. It runs exactly once, off the UI loop.
type LoadFunc func(ctx context.Context) (*dashboard.Dashboard, error)

// MsgLoaded reports a finished load.
type MsgLoaded struct {
	Dash *dashboard.Dashboard
}

// MsgLoadFailed reports a load error. The program exits with it.
type MsgLoadFailed struct {
	Err error
}

// Strategies the layout key toggles between.
const (
	layoutSquarified = "squarified"
	layoutFlex       = "flex"
)

// AppModel is the root BubbleTea model composing all sub-views.
type AppModel struct {
	Keys      KeyMap
	Spinner   spinner.Model
	StatusBar StatusBar
	Tabs      TabBar
	Detail    DetailPanel

	Dash  *dashboard.Dashboard
	Frame dashboard.Frame
	// Cursor indexes the focused cell, month or day of the active screen.
	Cursor int
	Width  int
	Height int

	// Err is the fatal load error, set just before quitting.
	Err error
	// Flash is the most recent non-fatal message.
	Flash string

	TieBreak treemap.TieBreak
	Scale    treemap.Scale
	layout   string

	ctx  context.Context
	load LoadFunc
}

// NewAppModel creates a root model that loads its data with load.
func NewAppModel(ctx context.Context, load LoadFunc) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return AppModel{
		Keys:     DefaultKeyMap(),
		Spinner:  sp,
		Detail:   NewDetailPanel(80, 6),
		TieBreak: treemap.TieStrict,
		Scale:    treemap.ScalePower,
		layout:   layoutSquarified,
		ctx:      ctx,
		load:     load,
	}
}

// Init starts the spinner and the one-time load.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadCmd())
}

func (m AppModel) loadCmd() tea.Cmd {
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		d, err := load(ctx)
		if err != nil {
			return MsgLoadFailed{Err: err}
		}
		return MsgLoaded{Dash: d}
	}
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.StatusBar.Width = msg.Width
		m.Tabs.Width = msg.Width
		m.resize()

	case MsgLoaded:
		m.Dash = msg.Dash
		m.syncStrategy(m.Dash.Strategy())
		metrics := m.Dash.Metrics()
		m.StatusBar.Features = metrics.TotalFeatures
		m.StatusBar.Releases = metrics.TotalReleases
		m.resize()

	case MsgLoadFailed:
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Dash != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// syncStrategy mirrors the dashboard's strategy in the model's toggles.
func (m *AppModel) syncStrategy(s treemap.Strategy) {
	switch s := s.(type) {
	case treemap.Squarified:
		m.layout = layoutSquarified
		if s.TieBreak != "" {
			m.TieBreak = s.TieBreak
		}
	case treemap.Flex:
		m.layout = layoutFlex
		m.Scale = s.Scale
	}
}

func (m *AppModel) resize() {
	if m.Dash == nil {
		return
	}
	if m.Width == 0 {
		m.apply(m.Dash.Render())
		return
	}
	cols, rows := bodySize(m.Width, m.Height)
	m.Detail.SetSize(cols-4, max(rows/3, 2))
	m.apply(m.Dash.Resize(TreemapRect(cols, rows)))
}

// apply installs a new frame or records the error that prevented it.
func (m *AppModel) apply(f dashboard.Frame, err error) {
	if err != nil {
		m.Flash = err.Error()
		return
	}
	viewChanged := f.View != m.Frame.View
	levelChanged := f.Nav.Mode != m.Frame.Nav.Mode || f.Nav.Level != m.Frame.Nav.Level || f.Nav.Parent != m.Frame.Nav.Parent
	m.Frame = f
	m.Flash = ""
	m.StatusBar.Mode = string(f.Nav.Mode)
	m.StatusBar.Year = f.Year
	m.StatusBar.Layout = m.layoutLabel()
	m.Tabs.Active = f.View

	switch f.View {
	case dashboard.ViewYear:
		if viewChanged {
			m.Cursor = f.Month
		}
	case dashboard.ViewMonth:
		if viewChanged {
			m.Cursor = max(f.Day-1, 0)
		}
		m.Cursor = min(m.Cursor, len(f.MonthView.Days)-1)
		title := fmt.Sprintf("%s %d", calendar.MonthNames[f.Month], f.Year)
		if f.Day != 0 {
			title = fmt.Sprintf("%s %d, %d", calendar.MonthNames[f.Month], f.Day, f.Year)
		}
		if len(f.Features) == 0 {
			m.Detail.SetEmpty("No releases.")
		} else {
			m.Detail.SetContent(fmt.Sprintf("%s · %d features", title, len(f.Features)), formatFeatures(f.Features, m.Detail.viewport.Width))
		}
	default:
		if viewChanged || levelChanged {
			m.Cursor = 0
			if c, ok := f.Treemap.Inspected(); ok {
				for i, cell := range f.Treemap.Cells {
					if cell.Label == c.Label {
						m.Cursor = i
					}
				}
			}
		}
		m.Cursor = min(m.Cursor, max(len(f.Treemap.Cells)-1, 0))
	}
}

func (m AppModel) layoutLabel() string {
	if m.layout == layoutFlex {
		return "flex/" + string(m.Scale)
	}
	return "squarified/" + string(m.TieBreak)
}

func (m AppModel) strategy() treemap.Strategy {
	if m.layout == layoutFlex {
		return treemap.Flex{Scale: m.Scale}
	}
	return treemap.Squarified{TieBreak: m.TieBreak}
}

// handleKey dispatches key presses. Until the data has loaded only quit
// is honored.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Quit) {
		return m, tea.Quit
	}
	if m.Dash == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Back):
		m.apply(m.Dash.GoBack())
	case key.Matches(msg, m.Keys.Mode):
		m.apply(m.Dash.SwitchMode(m.Frame.Nav.Mode.Next()))
	case key.Matches(msg, m.Keys.NextView):
		m.apply(m.Dash.SetView(nextView(m.Frame.View, 1)))
	case key.Matches(msg, m.Keys.PrevView):
		m.apply(m.Dash.SetView(nextView(m.Frame.View, -1)))
	case key.Matches(msg, m.Keys.PrevYear):
		m.apply(m.Dash.ChangeYear(-1))
	case key.Matches(msg, m.Keys.NextYear):
		m.apply(m.Dash.ChangeYear(1))
	case key.Matches(msg, m.Keys.Layout):
		if m.layout == layoutFlex {
			m.layout = layoutSquarified
		} else {
			m.layout = layoutFlex
		}
		m.apply(m.Dash.SetStrategy(m.strategy()))
	case key.Matches(msg, m.Keys.Scale):
		if m.layout == layoutFlex {
			m.Scale = m.Scale.Next()
			m.apply(m.Dash.SetStrategy(m.strategy()))
		}
	case key.Matches(msg, m.Keys.Enter):
		m.handleEnter()
	case key.Matches(msg, m.Keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.Keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(0, 1)
	default:
		switch s := msg.String(); s {
		case "1", "2", "3":
			m.apply(m.Dash.SetView(dashboard.Views[s[0]-'1']))
		default:
			if m.Frame.View == dashboard.ViewMonth {
				m.Detail.Update(msg)
			}
		}
	}
	return m, nil
}

func (m *AppModel) handleEnter() {
	switch m.Frame.View {
	case dashboard.ViewYear:
		m.apply(m.Dash.SelectMonth(m.Cursor))
	case dashboard.ViewMonth:
		m.apply(m.Dash.SelectDay(m.Cursor + 1))
	default:
		if m.Cursor < len(m.Frame.Treemap.Cells) {
			m.apply(m.Dash.SelectItem(m.Frame.Treemap.Cells[m.Cursor].Label))
		}
	}
}

// moveCursor steps the cursor. The calendars move by grid rows; the
// treemap moves to the spatially adjacent cell.
func (m *AppModel) moveCursor(dx, dy int) {
	var n, stride int
	switch m.Frame.View {
	case dashboard.ViewYear:
		n, stride = 12, yearCols
	case dashboard.ViewMonth:
		n, stride = len(m.Frame.MonthView.Days), 7
	default:
		m.moveTreemapCursor(dx, dy)
		return
	}
	if n == 0 {
		return
	}
	next := m.Cursor + dx + dy*stride
	m.Cursor = min(max(next, 0), n-1)
}

func (m *AppModel) moveTreemapCursor(dx, dy int) {
	views := m.Frame.Treemap.Cells
	if len(views) == 0 {
		return
	}
	cells := make([]treemap.Cell, len(views))
	for i, v := range views {
		cells[i] = treemap.Cell{Item: treemap.Item{Label: v.Label}, Rect: v.Rect}
	}
	m.Cursor = treemap.Neighbor(cells, min(max(m.Cursor, 0), len(cells)-1), dx, dy)
}

// View renders the full TUI.
func (m AppModel) View() string {
	if m.Err != nil {
		return styleError.Render("Error: "+m.Err.Error()) + "\n"
	}
	if m.Dash == nil {
		sb := m.StatusBar
		sb.Loading = true
		return sb.View() + "\n\n  " + m.Spinner.View() + " Loading release history…\n"
	}
	if m.Width > 0 && (m.Width < MinWidth || m.Height < MinHeight) {
		return fmt.Sprintf("Terminal too small (%dx%d); need at least %dx%d.", m.Width, m.Height, MinWidth, MinHeight)
	}

	cols, rows := bodySize(m.Width, m.Height)
	sections := []string{m.StatusBar.View(), m.Tabs.View(), m.breadcrumb(cols)}

	var body, info string
	var footer Footer
	footer.Width = cols
	switch m.Frame.View {
	case dashboard.ViewYear:
		body = renderYear(m.Frame.YearView, m.Dash.Palette().Quarter, cols, rows, m.Cursor)
		info = fmt.Sprintf("%d features in %d  ·  years %d–%d", m.Frame.YearView.Total, m.Frame.Year, m.Frame.FirstYear, m.Frame.LastYear)
		footer.Bindings = YearFooterBindings(m.Keys)
	case dashboard.ViewMonth:
		base := monthBase(m.Dash.Palette().Quarter, m.Frame.Month)
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderMonth(m.Frame.MonthView, base, cols, m.Cursor, m.Frame.Day),
			m.Detail.View())
		info = "enter selects a day; esc clears it"
		footer.Bindings = MonthFooterBindings(m.Keys)
	default:
		body = renderTreemap(m.Frame.Treemap, cols, rows, m.Cursor)
		if m.Cursor < len(m.Frame.Treemap.Cells) {
			info = cellDetail(m.Frame.Treemap.Cells[m.Cursor])
		}
		footer.Bindings = TreemapFooterBindings(m.Keys, m.Frame.Treemap.BackVisible, m.layout == layoutFlex)
	}

	line := styleInfo.Render(TruncateWithEllipsis(info, cols))
	if m.Flash != "" {
		line = styleError.Render(TruncateWithEllipsis(m.Flash, cols))
	}
	sections = append(sections, body, line, footer.View())
	return strings.Join(sections, "\n")
}

// breadcrumb renders the title bar with the navigation path and the back
// affordance when one exists.
func (m AppModel) breadcrumb(width int) string {
	var text string
	switch m.Frame.View {
	case dashboard.ViewYear:
		text = styleTitle.Render(fmt.Sprintf("Release calendar %d", m.Frame.Year))
	case dashboard.ViewMonth:
		text = styleTitle.Render("Release calendar") +
			styleBreadcrumb.Render(fmt.Sprintf("%d / %s", m.Frame.Year, calendar.MonthNames[m.Frame.Month]))
	default:
		d := m.Frame.Treemap
		text = styleTitle.Render(d.Title)
		if d.Breadcrumb != "" {
			text += styleBreadcrumb.Render(d.Breadcrumb)
		}
		if d.BackVisible {
			text += styleBreadcrumb.Render(d.BackLabel + " (esc)")
		}
		if m.Frame.Nav.Mode == navigator.ModeQuarter && !d.BackVisible {
			text += styleBreadcrumb.Render("enter a quarter to see its categories")
		}
	}
	return padToWidth(styleBreadcrumb.Render(text), width, colorSurfaceBright)
}
