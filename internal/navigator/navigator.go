// Package navigator implements the drill-down state machine behind the
// treemap. A State is an immutable value: every transition returns a new
// State and never aliases the history of the one it came from.
package navigator

import "fmt"

// Mode is the hierarchy being navigated.
type Mode string

const (
	// ModeCategory drills from categories into the teams of one category.
	ModeCategory Mode = "category"
	// ModeQuarter drills from quarters into the categories of one quarter.
	ModeQuarter Mode = "quarter"
)

// Modes lists the modes in cycling order.
var Modes = []Mode{ModeCategory, ModeQuarter}

// ParseMode validates a mode name.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("navigator: unknown mode %q", name)
}

// Next returns the mode after m in Modes.
func (m Mode) Next() Mode {
	for i, v := range Modes {
		if v == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

// Level is the depth of the hierarchy being shown.
type Level int

const (
	Top Level = iota
	Drilled
)

func (l Level) String() string {
	if l == Drilled {
		return "drilled"
	}
	return "top"
}

// Snapshot is one history entry: the level and parent to return to.
type Snapshot struct {
	Level  Level  `json:"level"`
	Parent string `json:"parent,omitempty"`
}

// State is the navigator's position.
type State struct {
	Mode  Mode
	Level Level
	// Parent is the drilled-into label; empty at Top.
	Parent string
	// Inspected is the item picked for detail at the Drilled level.
	Inspected string

	history []Snapshot
}

// New returns the Top state of mode.
func New(mode Mode) State {
	return State{Mode: mode, Level: Top}
}

// Select reacts to the user picking an item. At Top it drills into the
// item; at Drilled it only marks the item for detail.
func (s State) Select(label string) State {
	if s.Level == Drilled {
		s.Inspected = label
		s.history = s.cloneHistory(0)
		return s
	}
	h := s.cloneHistory(1)
	h = append(h, Snapshot{Level: s.Level, Parent: s.Parent})
	return State{
		Mode:    s.Mode,
		Level:   Drilled,
		Parent:  label,
		history: h,
	}
}

// Back restores the most recent history entry. With no history it returns
// the state unchanged.
func (s State) Back() State {
	if len(s.history) == 0 {
		s.history = nil
		return s
	}
	last := s.history[len(s.history)-1]
	h := make([]Snapshot, len(s.history)-1)
	copy(h, s.history)
	return State{
		Mode:    s.Mode,
		Level:   last.Level,
		Parent:  last.Parent,
		history: h,
	}
}

// SwitchMode moves to the Top of mode, discarding history and selections.
func (s State) SwitchMode(mode Mode) State {
	return New(mode)
}

// Reset returns to the Top of the current mode.
func (s State) Reset() State {
	return New(s.Mode)
}

// Depth is the number of drill-downs that Back can undo.
func (s State) Depth() int { return len(s.history) }

// CanGoBack reports whether Back would change the state.
func (s State) CanGoBack() bool { return len(s.history) > 0 }

// History returns a copy of the history stack, oldest first.
func (s State) History() []Snapshot { return s.cloneHistory(0) }

func (s State) cloneHistory(extra int) []Snapshot {
	if len(s.history) == 0 && extra == 0 {
		return nil
	}
	h := make([]Snapshot, len(s.history), len(s.history)+extra)
	copy(h, s.history)
	return h
}
