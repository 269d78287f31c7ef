// Package treemap partitions a rectangle into cells whose areas are
// proportional to item values. Squarified is the primary strategy; Flex is a
// single-axis fallback with configurable scaling.
//
// Layouts are pure: the same items and rectangle always produce the same
// cells. Every cell lies inside the rectangle and the cells tile it without
// gaps or overlaps, up to floating-point tolerance.
package treemap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/papapumpkin/featuremap/internal/palette"
)

// Errors returned for inputs that violate the layout contract.
var (
	ErrInvalidValue    = errors.New("treemap: item value must be positive and finite")
	ErrInvalidRect     = errors.New("treemap: rectangle must have positive finite size")
	ErrUnknownStrategy = errors.New("treemap: unknown strategy")
)

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Contains reports whether the point lies inside r (right and bottom edges
// excluded).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) valid() bool {
	for _, v := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.W > 0 && r.H > 0
}

// Item is one weighted entry to lay out.
type Item struct {
	Label string        `json:"label"`
	Value float64       `json:"value"`
	Color palette.Color `json:"-"`
	Meta  any           `json:"-"`
}

// Cell is the rectangle assigned to an item.
type Cell struct {
	Item Item `json:"item"`
	Rect
}

// Strategy computes a layout.
type Strategy interface {
	Layout(items []Item, r Rect) ([]Cell, error)
}

// Hit returns the index of the cell containing the point.
func Hit(cells []Cell, x, y float64) (int, bool) {
	for i, c := range cells {
		if c.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// edgeStep is how far past a cell edge Neighbor looks for the adjacent cell.
const edgeStep = 1e-6

// Neighbor returns the index of the cell next to cells[from] in the
// direction (dx, dy), or from when nothing lies that way. The cell just
// past the edge, level with the current center, wins; otherwise the cell
// whose center is nearest in that direction.
func Neighbor(cells []Cell, from, dx, dy int) int {
	if from < 0 || from >= len(cells) || (dx == 0 && dy == 0) {
		return from
	}
	cur := cells[from].Rect
	cx, cy := cur.X+cur.W/2, cur.Y+cur.H/2

	px, py := cx, cy
	switch {
	case dx > 0:
		px = cur.X + cur.W + edgeStep
	case dx < 0:
		px = cur.X - edgeStep
	}
	switch {
	case dy > 0:
		py = cur.Y + cur.H + edgeStep
	case dy < 0:
		py = cur.Y - edgeStep
	}
	if i, ok := Hit(cells, px, py); ok && i != from {
		return i
	}

	best, bestDist := from, math.Inf(1)
	for i, c := range cells {
		if i == from {
			continue
		}
		bx, by := c.X+c.W/2, c.Y+c.H/2
		if (dx > 0 && bx <= cx) || (dx < 0 && bx >= cx) || (dy > 0 && by <= cy) || (dy < 0 && by >= cy) {
			continue
		}
		if d := math.Abs(bx-cx) + math.Abs(by-cy); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// validate checks the layout contract. Zero items with any rectangle is a
// valid, empty layout.
func validate(items []Item, r Rect) error {
	for _, it := range items {
		if it.Value <= 0 || math.IsNaN(it.Value) || math.IsInf(it.Value, 0) {
			return fmt.Errorf("%w: %q has value %v", ErrInvalidValue, it.Label, it.Value)
		}
	}
	if len(items) > 0 && !r.valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidRect, r)
	}
	return nil
}

// sortByValue returns a copy of items ordered by value descending; equal
// values keep their input order.
func sortByValue(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	return sorted
}

func total(items []Item) float64 {
	s := 0.0
	for _, it := range items {
		s += it.Value
	}
	return s
}
