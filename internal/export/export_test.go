package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/papapumpkin/featuremap/internal/aggregate"
	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/navigator"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/record"
	"github.com/papapumpkin/featuremap/internal/treemap"
	"github.com/papapumpkin/featuremap/internal/view"
)

func descriptor(t *testing.T, width, height int) view.Descriptor {
	t.Helper()
	groups := []aggregate.GroupSummary{
		{Label: "Meeting", Count: 6, TotalBugs: 3, AvgTimeToRelease: 21},
		{Label: "Chat & Messaging", Count: 3, TotalBugs: 1, AvgTimeToRelease: 14},
		{Label: "Security", Count: 1},
	}
	colors := palette.DefaultSet().Category
	items := make([]treemap.Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, treemap.Item{Label: g.Label, Value: float64(g.Count), Color: colors.Resolve(g.Label)})
	}
	cells, err := treemap.Squarified{}.Layout(items, Body(width, height))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return view.Bind(navigator.New(navigator.ModeCategory), groups, cells)
}

// wellFormed walks every token so malformed markup fails the test.
func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("SVG is not valid XML: %v\n%s", err, data)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format, path string
		want         Format
		wantErr      bool
	}{
		{"", "out.svg", FormatSVG, false},
		{"", "OUT.PNG", FormatPNG, false},
		{"", "frame.json", FormatJSON, false},
		{"png", "out.svg", FormatPNG, false},
		{" SVG ", "", FormatSVG, false},
		{"", "out.pdf", "", true},
		{"", "noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveFormat(tt.format, tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ResolveFormat = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestBodyFitsCanvas(t *testing.T) {
	t.Parallel()
	b := Body(1200, 800)
	if b.X+b.W > 1200-legendWidth || b.Y+b.H > 800 {
		t.Errorf("body %+v overflows canvas", b)
	}
	if tiny := Body(10, 10); tiny.W <= 0 || tiny.H <= 0 {
		t.Errorf("tiny body must stay positive: %+v", tiny)
	}
}

func TestWriteSVG(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WriteSVG(&buf, descriptor(t, 1200, 800), 1200, 800); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.Bytes()
	wellFormed(t, out)

	s := string(out)
	for _, want := range []string{
		"<svg",
		"Feature Categories",
		"Chat &amp; Messaging",
		"6 features",
		"Legend",
		"<title>Meeting: 6 features",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WritePNG(&buf, descriptor(t, 640, 480), 640, 480); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("bounds = %v", b)
	}
}

func TestSave(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	d := descriptor(t, 800, 600)

	for _, name := range []string{"frame.svg", "frame.png", "frame.json"} {
		path := filepath.Join(dir, name)
		if err := Save(Options{Path: path, Width: 800, Height: 600, Frame: d}); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got view.Descriptor
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Title != d.Title || len(got.Cells) != 3 || got.Cells[0].Label != "Meeting" {
		t.Errorf("decoded = %+v", got)
	}

	err = Save(Options{Path: filepath.Join(dir, "frame.gif"), Width: 10, Height: 10, Frame: d})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif: err = %v", err)
	}
}

func TestRenderYearSVG(t *testing.T) {
	t.Parallel()
	day := func(s string) record.Feature {
		d, _ := time.Parse("2006-01-02", s)
		return record.Feature{Date: d, Category: "Meeting"}
	}
	y := calendar.Year([]record.Feature{day("2023-01-03"), day("2023-01-04"), day("2023-07-30")}, 2023)

	var buf bytes.Buffer
	if err := RenderYearSVG(&buf, y, palette.DefaultSet().Quarter, 1200, 800); err != nil {
		t.Fatalf("RenderYearSVG: %v", err)
	}
	wellFormed(t, buf.Bytes())
	s := buf.String()
	for _, want := range []string{"Releases in 2023", "3 features", "January 2023: 2 features", "December 2023: 0 features"} {
		if !strings.Contains(s, want) {
			t.Errorf("year SVG missing %q", want)
		}
	}
}

func TestSaveYear(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	y := calendar.Year(nil, 2024)

	path := filepath.Join(dir, "year.svg")
	if err := SaveYear(path, y, palette.DefaultSet().Quarter, 800, 600); err != nil {
		t.Fatalf("SaveYear: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wellFormed(t, data)

	if err := SaveYear(filepath.Join(dir, "year.png"), y, palette.DefaultSet().Quarter, 800, 600); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("png: err = %v, want ErrUnknownFormat", err)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Meeting", 10, "Meeting"},
		{"Chat features", 8, "Chat ..."},
		{"Chat", 2, "Ch"},
		{"Chat", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
