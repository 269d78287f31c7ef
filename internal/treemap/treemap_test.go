package treemap

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

const eps = 1e-6

func items(values ...float64) []Item {
	labels := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	out := make([]Item, len(values))
	for i, v := range values {
		out[i] = Item{Label: labels[i%len(labels)], Value: v}
	}
	return out
}

func strategies() map[string]Strategy {
	return map[string]Strategy{
		"squarified/strict":  Squarified{TieBreak: TieStrict},
		"squarified/relaxed": Squarified{TieBreak: TieRelaxed},
		"flex/linear":        Flex{Scale: ScaleLinear},
		"flex/sqrt":          Flex{Scale: ScaleSqrt},
		"flex/log":           Flex{Scale: ScaleLog},
		"flex/power":         Flex{Scale: ScalePower},
	}
}

func TestSquarified_ThreeItemScenario(t *testing.T) {
	t.Parallel()

	r := Rect{W: 100, H: 100}
	cells, err := Squarified{}.Layout(items(6, 3, 1), r)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("len(cells) = %d, want 3", len(cells))
	}
	wantShare := map[string]float64{"A": 60, "B": 30, "C": 10}
	for _, c := range cells {
		share := 100 * c.Area() / r.Area()
		if math.Abs(share-wantShare[c.Item.Label]) > eps {
			t.Errorf("%s share = %.4f%%, want %.0f%%", c.Item.Label, share, wantShare[c.Item.Label])
		}
	}

	want := []Rect{
		{X: 0, Y: 0, W: 60, H: 100},
		{X: 60, Y: 0, W: 40, H: 75},
		{X: 60, Y: 75, W: 40, H: 25},
	}
	got := make([]Rect, len(cells))
	for i, c := range cells {
		got[i] = c.Rect
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Errorf("cell rects (-want +got):\n%s", diff)
	}
}

func TestSquarified_SortsDescendingStable(t *testing.T) {
	t.Parallel()

	in := []Item{{Label: "small", Value: 1}, {Label: "tie1", Value: 5}, {Label: "big", Value: 9}, {Label: "tie2", Value: 5}}
	cells, err := Squarified{}.Layout(in, Rect{W: 40, H: 30})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	var got []string
	for _, c := range cells {
		got = append(got, c.Item.Label)
	}
	if diff := cmp.Diff([]string{"big", "tie1", "tie2", "small"}, got); diff != "" {
		t.Errorf("cell order (-want +got):\n%s", diff)
	}
	if in[0].Label != "small" {
		t.Error("Layout reordered the caller's slice")
	}
}

func TestSquarified_TieBreak(t *testing.T) {
	t.Parallel()

	// Two equal items in a unit square: the single-item row and the
	// two-item row have the same worst aspect ratio (2).
	r := Rect{W: 1, H: 1}

	strict, err := Squarified{TieBreak: TieStrict}.Layout(items(1, 1), r)
	if err != nil {
		t.Fatal(err)
	}
	wantStrict := []Rect{{X: 0, Y: 0, W: 0.5, H: 1}, {X: 0.5, Y: 0, W: 0.5, H: 1}}

	relaxed, err := Squarified{TieBreak: TieRelaxed}.Layout(items(1, 1), r)
	if err != nil {
		t.Fatal(err)
	}
	wantRelaxed := []Rect{{X: 0, Y: 0, W: 1, H: 0.5}, {X: 0, Y: 0.5, W: 1, H: 0.5}}

	for name, tc := range map[string]struct {
		cells []Cell
		want  []Rect
	}{
		"strict":  {strict, wantStrict},
		"relaxed": {relaxed, wantRelaxed},
	} {
		got := make([]Rect, len(tc.cells))
		for i, c := range tc.cells {
			got[i] = c.Rect
		}
		if diff := cmp.Diff(tc.want, got, cmpopts.EquateApprox(0, eps)); diff != "" {
			t.Errorf("%s rects (-want +got):\n%s", name, diff)
		}
	}
}

func TestLayout_EdgeCases(t *testing.T) {
	t.Parallel()

	for name, s := range strategies() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cells, err := s.Layout(nil, Rect{W: 10, H: 10})
			if err != nil || len(cells) != 0 {
				t.Errorf("Layout(nil) = %v, %v; want empty", cells, err)
			}

			r := Rect{X: 3, Y: 4, W: 17, H: 9}
			cells, err = s.Layout(items(42), r)
			if err != nil {
				t.Fatalf("Layout(single): %v", err)
			}
			if len(cells) != 1 || cells[0].Rect != r {
				t.Errorf("single item = %+v, want full rect %+v", cells, r)
			}

			for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				if _, err := s.Layout(items(3, bad), r); !errors.Is(err, ErrInvalidValue) {
					t.Errorf("value %v: err = %v, want ErrInvalidValue", bad, err)
				}
			}

			for _, bad := range []Rect{{W: 0, H: 5}, {W: 5, H: -1}, {W: math.NaN(), H: 1}} {
				if _, err := s.Layout(items(1, 2), bad); !errors.Is(err, ErrInvalidRect) {
					t.Errorf("rect %+v: err = %v, want ErrInvalidRect", bad, err)
				}
			}
		})
	}
}

func TestLayout_Properties(t *testing.T) {
	t.Parallel()

	for name, s := range strategies() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rapid.Check(t, func(t *rapid.T) {
				values := rapid.SliceOfN(rapid.Float64Range(0.01, 1000), 1, 40).Draw(t, "values")
				r := Rect{
					X: rapid.Float64Range(-50, 50).Draw(t, "x"),
					Y: rapid.Float64Range(-50, 50).Draw(t, "y"),
					W: rapid.Float64Range(1, 500).Draw(t, "w"),
					H: rapid.Float64Range(1, 500).Draw(t, "h"),
				}
				in := items(values...)

				cells, err := s.Layout(in, r)
				if err != nil {
					t.Fatalf("Layout: %v", err)
				}
				checkTiling(t, cells, in, r)

				again, err := s.Layout(in, r)
				if err != nil {
					t.Fatalf("second Layout: %v", err)
				}
				if diff := cmp.Diff(cells, again); diff != "" {
					t.Fatalf("layout not deterministic (-first +second):\n%s", diff)
				}
			})
		})
	}
}

func checkTiling(t *rapid.T, cells []Cell, in []Item, r Rect) {
	if len(cells) != len(in) {
		t.Fatalf("len(cells) = %d, want %d", len(cells), len(in))
	}
	tol := eps * math.Max(1, r.Area())

	sum := 0.0
	for _, c := range cells {
		if c.W < -eps || c.H < -eps {
			t.Fatalf("negative size cell %+v", c.Rect)
		}
		if c.X < r.X-eps || c.Y < r.Y-eps || c.X+c.W > r.X+r.W+eps || c.Y+c.H > r.Y+r.H+eps {
			t.Fatalf("cell %+v escapes %+v", c.Rect, r)
		}
		sum += c.Area()
	}
	if math.Abs(sum-r.Area()) > tol {
		t.Fatalf("area sum = %v, want %v", sum, r.Area())
	}

	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if overlap(cells[i].Rect, cells[j].Rect) > tol {
				t.Fatalf("cells %d and %d overlap: %+v %+v", i, j, cells[i].Rect, cells[j].Rect)
			}
			vi, vj := cells[i].Item.Value, cells[j].Item.Value
			ai, aj := cells[i].Area(), cells[j].Area()
			if vi > vj && ai < aj-tol {
				t.Fatalf("value %v got area %v < area %v of value %v", vi, ai, aj, vj)
			}
		}
	}
}

func overlap(a, b Rect) float64 {
	w := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func TestSquarified_ProportionalAreas(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Float64Range(0.1, 100), 1, 25).Draw(t, "values")
		r := Rect{W: rapid.Float64Range(10, 300).Draw(t, "w"), H: rapid.Float64Range(10, 300).Draw(t, "h")}
		cells, err := Squarified{}.Layout(items(values...), r)
		if err != nil {
			t.Fatal(err)
		}
		tot := 0.0
		for _, v := range values {
			tot += v
		}
		for _, c := range cells {
			want := c.Item.Value / tot * r.Area()
			if math.Abs(c.Area()-want) > 1e-6*r.Area() {
				t.Fatalf("%s area = %v, want %v", c.Item.Label, c.Area(), want)
			}
		}
	})
}

func TestHit(t *testing.T) {
	t.Parallel()

	cells, err := Squarified{}.Layout(items(6, 3, 1), Rect{W: 100, H: 100})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y   float64
		want   string
		wantOK bool
	}{
		{10, 10, "A", true},
		{70, 10, "B", true},
		{70, 90, "C", true},
		{150, 10, "", false},
	}
	for _, tt := range tests {
		i, ok := Hit(cells, tt.x, tt.y)
		if ok != tt.wantOK {
			t.Errorf("Hit(%v,%v) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			continue
		}
		if ok && cells[i].Item.Label != tt.want {
			t.Errorf("Hit(%v,%v) = %s, want %s", tt.x, tt.y, cells[i].Item.Label, tt.want)
		}
	}
}

func TestNeighbor(t *testing.T) {
	t.Parallel()

	// A fills the left 60%, B sits above C on the right.
	cells, err := Squarified{}.Layout(items(6, 3, 1), Rect{W: 100, H: 100})
	if err != nil {
		t.Fatal(err)
	}
	idx := map[string]int{}
	for i, c := range cells {
		idx[c.Item.Label] = i
	}
	tests := []struct {
		from   string
		dx, dy int
		want   string
	}{
		{"A", 1, 0, "B"},
		{"B", 0, 1, "C"},
		{"C", 0, -1, "B"},
		{"C", -1, 0, "A"},
		{"B", 1, 0, "B"},
		{"A", -1, 0, "A"},
		{"A", 0, 1, "C"},
		{"B", 0, 0, "B"},
	}
	for _, tt := range tests {
		got := Neighbor(cells, idx[tt.from], tt.dx, tt.dy)
		if cells[got].Item.Label != tt.want {
			t.Errorf("Neighbor(%s, %d, %d) = %s, want %s", tt.from, tt.dx, tt.dy, cells[got].Item.Label, tt.want)
		}
	}
	if got := Neighbor(cells, 7, 1, 0); got != 7 {
		t.Errorf("Neighbor(out of range) = %d, want 7", got)
	}
}
