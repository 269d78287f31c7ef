package treemap

import (
	"errors"
	"math"
	"testing"
)

func TestScaleApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scale Scale
		share float64
		want  float64
	}{
		{ScaleLinear, 0.5, 0.5},
		{ScaleLinear, 0.001, 0.005},
		{ScaleSqrt, 0.25, 0.5},
		{ScaleSqrt, 0.00001, 0.01},
		{ScaleLog, 1, 1},
		{ScaleLog, 0.5, math.Log(11) / math.Log(21)},
		{ScalePower, 1, 1},
		{ScalePower, 0.5, math.Pow(0.5, 0.7)},
	}
	for _, tt := range tests {
		if got := tt.scale.Apply(tt.share); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s.Apply(%v) = %v, want %v", tt.scale, tt.share, got, tt.want)
		}
	}
}

func TestScaleNextCycles(t *testing.T) {
	t.Parallel()

	s := ScaleLinear
	seen := map[Scale]bool{}
	for range Scales {
		seen[s] = true
		s = s.Next()
	}
	if s != ScaleLinear || len(seen) != len(Scales) {
		t.Errorf("Next() did not cycle through all scales: ended at %s, saw %v", s, seen)
	}
	if Scale("bogus").Next() != Scales[0] {
		t.Error("unknown scale should restart the cycle")
	}
}

func TestFlex_OrientationFollowsLongSide(t *testing.T) {
	t.Parallel()

	wide, err := Flex{Scale: ScaleLinear}.Layout(items(3, 1), Rect{W: 40, H: 10})
	if err != nil {
		t.Fatal(err)
	}
	if wide[0].W != 30 || wide[0].H != 10 || wide[1].X != 30 {
		t.Errorf("wide layout = %+v, want columns of width 30 and 10", wide)
	}

	tall, err := Flex{Scale: ScaleLinear}.Layout(items(3, 1), Rect{W: 10, H: 40})
	if err != nil {
		t.Fatal(err)
	}
	if tall[0].H != 30 || tall[0].W != 10 || tall[1].Y != 30 {
		t.Errorf("tall layout = %+v, want rows of height 30 and 10", tall)
	}
}

func TestFlex_ScalingLiftsSmallItems(t *testing.T) {
	t.Parallel()

	r := Rect{W: 100, H: 10}
	in := items(99, 1)
	linear, _ := Flex{Scale: ScaleLinear}.Layout(in, r)
	sqrt, _ := Flex{Scale: ScaleSqrt}.Layout(in, r)
	if !(sqrt[1].W > linear[1].W) {
		t.Errorf("sqrt small width %v should exceed linear %v", sqrt[1].W, linear[1].W)
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tie     TieBreak
		scale   Scale
		want    Strategy
		wantErr error
	}{
		{"squarified", TieStrict, ScalePower, Squarified{TieBreak: TieStrict}, nil},
		{"", TieRelaxed, "", Squarified{TieBreak: TieRelaxed}, nil},
		{"flex", TieStrict, ScaleLog, Flex{Scale: ScaleLog}, nil},
		{"slice", TieStrict, ScaleLog, nil, ErrUnknownStrategy},
	}
	for _, tt := range tests {
		got, err := ByName(tt.name, tt.tie, tt.scale)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ByName(%q) err = %v, want %v", tt.name, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ByName(%q) = %#v, %v; want %#v", tt.name, got, err, tt.want)
		}
	}

	if _, err := ByName("flex", TieStrict, "cubic"); err == nil {
		t.Error("ByName(flex, cubic) expected error")
	}
	if _, err := ByName("squarified", "sometimes", ScalePower); err == nil {
		t.Error("ByName(squarified, sometimes) expected error")
	}
}
