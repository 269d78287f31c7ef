// Package telemetry provides a JSONL event stream of dashboard interactions.
// Every load, drill-down, back step, mode switch, year change, resize and
// export is recorded as a structured JSON event tagged with the session it
// belongs to, so navigation paths can be replayed and analyzed.
package telemetry

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindSessionStart = "session_start"
	KindLoad         = "load"
	KindSelect       = "select"
	KindBack         = "back"
	KindSwitchMode   = "switch_mode"
	KindChangeYear   = "change_year"
	KindResize       = "resize"
	KindSetView      = "set_view"
	KindExport       = "export"
)

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, the session id and the navigator mode in effect, along with
// arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Session   string    `json:"session,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file    *os.File
	enc     *json.Encoder
	mu      sync.Mutex
	session string
	now     func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path under a fresh session id. The file is created if it does not exist,
// or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file:    f,
		enc:     json.NewEncoder(f),
		session: uuid.NewString(),
		now:     time.Now,
	}, nil
}

// Session returns the id stamped on events. A nil Emitter has no session.
func (e *Emitter) Session() string {
	if e == nil {
		return ""
	}
	return e.session
}

// Emit writes a single event to the JSONL file, filling in the timestamp
// and session when they are unset. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
	}
	if evt.Session == "" {
		evt.Session = e.session
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record is Emit for callers that build events inline.
func (e *Emitter) Record(kind, mode string, data any) error {
	return e.Emit(Event{Kind: kind, Mode: mode, Data: data})
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
