package treemap

import (
	"fmt"
	"math"
)

// Scale transforms an item's share of the total before flex sizing.
type Scale string

// Scaling modes.
const (
	ScaleLinear Scale = "linear"
	ScaleSqrt   Scale = "sqrt"
	ScaleLog    Scale = "log"
	ScalePower  Scale = "power"
)

// Scales lists the scaling modes in cycling order.
var Scales = []Scale{ScaleLinear, ScaleSqrt, ScaleLog, ScalePower}

var log21 = math.Log(21)

// Apply maps a share in (0,1] to a flex weight. Small shares are lifted to a
// floor so every item stays visible.
func (s Scale) Apply(share float64) float64 {
	switch s {
	case ScaleSqrt:
		return math.Max(0.01, math.Sqrt(share))
	case ScaleLog:
		return math.Max(0.01, math.Log(1+share*20)/log21)
	case ScalePower:
		return math.Max(0.01, math.Pow(share, 0.7))
	default:
		return math.Max(0.005, share)
	}
}

// Next returns the mode after s in Scales.
func (s Scale) Next() Scale {
	for i, v := range Scales {
		if v == s {
			return Scales[(i+1)%len(Scales)]
		}
	}
	return Scales[0]
}

// ParseScale validates a scaling mode name.
func ParseScale(name string) (Scale, error) {
	for _, s := range Scales {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("treemap: unknown scale %q", name)
}

// Flex lays items side by side along the longer axis of the rectangle, each
// taking a span proportional to its scaled share.
type Flex struct {
	Scale Scale
}

// Layout implements Strategy.
func (f Flex) Layout(items []Item, r Rect) ([]Cell, error) {
	if err := validate(items, r); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Cell{}, nil
	}

	sorted := sortByValue(items)
	sum := total(sorted)
	weights := make([]float64, len(sorted))
	wsum := 0.0
	for i, it := range sorted {
		weights[i] = f.Scale.Apply(it.Value / sum)
		wsum += weights[i]
	}

	horizontal := r.W >= r.H
	extent := r.H
	if horizontal {
		extent = r.W
	}

	cells := make([]Cell, 0, len(sorted))
	offset := 0.0
	for i, it := range sorted {
		span := extent * weights[i] / wsum
		if i == len(sorted)-1 {
			span = extent - offset
		}
		c := Cell{Item: it}
		if horizontal {
			c.Rect = Rect{X: r.X + offset, Y: r.Y, W: span, H: r.H}
		} else {
			c.Rect = Rect{X: r.X, Y: r.Y + offset, W: r.W, H: span}
		}
		cells = append(cells, c)
		offset += span
	}
	return cells, nil
}

// ByName builds the strategy named by configuration.
func ByName(name string, tie TieBreak, scale Scale) (Strategy, error) {
	switch name {
	case "squarified", "":
		if tie != TieStrict && tie != TieRelaxed && tie != "" {
			return nil, fmt.Errorf("treemap: unknown tie-break %q", tie)
		}
		return Squarified{TieBreak: tie}, nil
	case "flex":
		if _, err := ParseScale(string(scale)); err != nil {
			return nil, err
		}
		return Flex{Scale: scale}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
