package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/featuremap/internal/dashboard"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/record"
	"github.com/papapumpkin/featuremap/internal/treemap"
)

func testRecords() []record.Feature {
	mk := func(date, category, team, desc string) record.Feature {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		return record.Feature{Date: d, Category: category, Team: team, Description: desc, BugCount: 1, TimeToRelease: 12}
	}
	return []record.Feature{
		mk("2023-03-02", "Meeting", "Frontend", "Breakout rooms"),
		mk("2023-03-02", "Meeting", "Backend", "Recording API"),
		mk("2023-03-16", "Meeting", "Frontend", "Reactions"),
		mk("2023-05-04", "Chat features", "Mobile", "Threads"),
		mk("2023-11-20", "Security", "Platform", "SSO"),
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedModel runs the load command and feeds the results through Update
// the way the program would.
func loadedModel(t *testing.T) AppModel {
	t.Helper()
	return loadedModelWith(t, testRecords())
}

func loadedModelWith(t *testing.T, records []record.Feature) AppModel {
	t.Helper()
	load := func(context.Context) (*dashboard.Dashboard, error) {
		return dashboard.New(records, dashboard.Options{}), nil
	}
	m := NewAppModel(context.Background(), load)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return send(t, m, m.loadCmd()())
}

func send(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func TestModel_LoadingScreen(t *testing.T) {
	t.Parallel()
	m := NewAppModel(context.Background(), nil)
	view := m.View()
	if !strings.Contains(view, "Loading release history") {
		t.Errorf("loading view = %q", view)
	}
	// keys other than quit are ignored until loaded
	m = send(t, m, keyPress("enter"))
	if m.Dash != nil || m.Err != nil {
		t.Error("enter before load changed the model")
	}
}

func TestModel_LoadFailureQuits(t *testing.T) {
	t.Parallel()
	boom := errors.New("no such file")
	m := NewAppModel(context.Background(), func(context.Context) (*dashboard.Dashboard, error) {
		return nil, boom
	})
	msg := m.loadCmd()()
	next, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
	am := next.(AppModel)
	if !errors.Is(am.Err, boom) {
		t.Errorf("Err = %v", am.Err)
	}
	if !strings.Contains(am.View(), "no such file") {
		t.Errorf("error view = %q", am.View())
	}
}

func TestModel_TreemapDrillAndBack(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)

	view := m.View()
	for _, want := range []string{"Feature Categories", "Meeting", "5 features", "[1] treemap"} {
		if !strings.Contains(view, want) {
			t.Errorf("top view missing %q", want)
		}
	}

	m = send(t, m, keyPress("enter"))
	if m.Frame.Nav.Level != navigator.Drilled || m.Frame.Nav.Parent != "Meeting" {
		t.Fatalf("after enter nav = %+v", m.Frame.Nav)
	}
	view = m.View()
	for _, want := range []string{"Teams for Meeting", "Categories / Meeting", "Back to Categories", "Frontend"} {
		if !strings.Contains(view, want) {
			t.Errorf("drilled view missing %q", want)
		}
	}

	m = send(t, m, keyPress("esc"))
	if m.Frame.Nav.Level != navigator.Top {
		t.Errorf("esc did not go back: %+v", m.Frame.Nav)
	}
}

func TestModel_CursorMovesAndClamps(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)
	cell := func() treemap.Rect { return m.Frame.Treemap.Cells[m.Cursor].Rect }

	// Meeting fills the left side; the other two are stacked on the right.
	for range 10 {
		m = send(t, m, keyPress("right"))
	}
	if r := cell(); r.X == 0 {
		t.Fatalf("after right cursor on %+v, want a right hand cell", r)
	}
	for range 3 {
		m = send(t, m, keyPress("up"))
	}
	if r := cell(); r.X == 0 || r.Y != 0 {
		t.Fatalf("after up cursor on %+v, want the top right cell", r)
	}
	top := m.Cursor
	for range 3 {
		m = send(t, m, keyPress("down"))
	}
	if r := cell(); m.Cursor == top || r.Y == 0 {
		t.Fatalf("after down cursor on %+v, want the bottom right cell", r)
	}
	bottom := m.Frame.Treemap.Cells[m.Cursor].Label

	m = send(t, m, keyPress("up"))
	if m.Cursor != top {
		t.Errorf("up moved cursor to %d, want %d", m.Cursor, top)
	}
	m = send(t, m, keyPress("left"))
	if got := m.Frame.Treemap.Cells[m.Cursor].Label; got != "Meeting" {
		t.Errorf("left moved cursor to %q, want Meeting", got)
	}

	m = send(t, m, keyPress("right"))
	m = send(t, m, keyPress("down"))
	m = send(t, m, keyPress("down"))
	m = send(t, m, keyPress("enter"))
	if m.Frame.Nav.Parent != bottom {
		t.Errorf("enter drilled into %q, want %q", m.Frame.Nav.Parent, bottom)
	}
}

func TestModel_CursorDownFromTopRight(t *testing.T) {
	t.Parallel()
	day, _ := time.Parse("2006-01-02", "2023-04-03")
	var recs []record.Feature
	for _, g := range []struct {
		category string
		n        int
	}{{"Meeting", 6}, {"Chat features", 3}, {"Security", 1}} {
		for range g.n {
			recs = append(recs, record.Feature{Date: day, Category: g.category, Team: "Frontend"})
		}
	}
	m := loadedModelWith(t, recs)

	cells := m.Frame.Treemap.Cells
	cur := cells[0].Rect
	m.Cursor = -1
	for i, c := range cells {
		if c.Rect.Y == 0 && c.Rect.X+c.Rect.W > cur.X+cur.W {
			m.Cursor, cur = i, c.Rect
		}
	}
	if m.Cursor < 0 || cells[m.Cursor].Label != "Chat features" {
		t.Fatalf("top right cell = %d, want Chat features", m.Cursor)
	}

	m = send(t, m, keyPress("down"))
	got := cells[m.Cursor]
	if got.Label != "Security" {
		t.Fatalf("down from Chat features landed on %q, want Security", got.Label)
	}
	if got.Rect.Y < cur.Y+cur.H-1e-6 || got.Rect.X >= cur.X+cur.W || got.Rect.X+got.Rect.W <= cur.X {
		t.Errorf("Security %+v is not below Chat features %+v", got.Rect, cur)
	}
}

func TestModel_SwitchMode(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)

	m = send(t, m, keyPress("enter"))
	m = send(t, m, keyPress("m"))
	if m.Frame.Nav.Mode != navigator.ModeQuarter || m.Frame.Nav.CanGoBack() {
		t.Fatalf("after m: %+v", m.Frame.Nav)
	}
	if !strings.Contains(m.View(), "Releases by Quarter") {
		t.Error("quarter title missing")
	}
	m = send(t, m, keyPress("esc"))
	if m.Frame.Nav.Mode != navigator.ModeQuarter || m.Frame.Nav.Level != navigator.Top {
		t.Errorf("esc after mode switch moved: %+v", m.Frame.Nav)
	}
}

func TestModel_CalendarFlow(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)

	m = send(t, m, keyPress("2"))
	if m.Frame.View != dashboard.ViewYear {
		t.Fatalf("view = %v", m.Frame.View)
	}
	if !strings.Contains(m.View(), "Release calendar 2023") {
		t.Error("year heading missing")
	}

	m = send(t, m, keyPress("right"))
	m = send(t, m, keyPress("right"))
	if m.Cursor != 2 {
		t.Fatalf("cursor = %d, want March", m.Cursor)
	}
	m = send(t, m, keyPress("enter"))
	if m.Frame.View != dashboard.ViewMonth || m.Frame.Month != 2 {
		t.Fatalf("enter opened %v month %d", m.Frame.View, m.Frame.Month)
	}
	view := m.View()
	for _, want := range []string{"March 2023", "Breakout rooms", "Su"} {
		if !strings.Contains(view, want) {
			t.Errorf("month view missing %q", want)
		}
	}

	// day 16: start at day 1, move one row down twice and one right
	m = send(t, m, keyPress("down"))
	m = send(t, m, keyPress("down"))
	m = send(t, m, keyPress("right"))
	m = send(t, m, keyPress("enter"))
	if m.Frame.Day != 16 || len(m.Frame.Features) != 1 {
		t.Fatalf("day = %d, features = %d", m.Frame.Day, len(m.Frame.Features))
	}
	if !strings.Contains(m.View(), "Reactions") {
		t.Error("selected day feature missing")
	}

	m = send(t, m, keyPress("esc"))
	m = send(t, m, keyPress("esc"))
	if m.Frame.View != dashboard.ViewYear {
		t.Errorf("two backs from a selected day should reach the year, got %v", m.Frame.View)
	}
}

func TestModel_LayoutToggle(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)

	m = send(t, m, keyPress("L"))
	if _, ok := m.Dash.Strategy().(treemap.Flex); !ok {
		t.Fatalf("strategy = %T, want Flex", m.Dash.Strategy())
	}
	before := m.Scale
	m = send(t, m, keyPress("s"))
	if m.Scale != before.Next() {
		t.Errorf("scale = %v, want %v", m.Scale, before.Next())
	}
	if !strings.Contains(m.StatusBar.View(), "flex/") {
		t.Errorf("status bar = %q", m.StatusBar.View())
	}
	m = send(t, m, keyPress("L"))
	if _, ok := m.Dash.Strategy().(treemap.Squarified); !ok {
		t.Errorf("strategy = %T, want Squarified", m.Dash.Strategy())
	}
}

func TestModel_TooSmall(t *testing.T) {
	t.Parallel()
	m := loadedModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Errorf("view = %q", m.View())
	}
}

func TestNextView(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from dashboard.ViewKind
		step int
		want dashboard.ViewKind
	}{
		{dashboard.ViewTreemap, 1, dashboard.ViewYear},
		{dashboard.ViewMonth, 1, dashboard.ViewTreemap},
		{dashboard.ViewTreemap, -1, dashboard.ViewMonth},
		{"bogus", 1, dashboard.ViewTreemap},
	}
	for _, tt := range tests {
		if got := nextView(tt.from, tt.step); got != tt.want {
			t.Errorf("nextView(%v, %d) = %v, want %v", tt.from, tt.step, got, tt.want)
		}
	}
}
