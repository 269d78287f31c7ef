package treemap

import "math"

// TieBreak decides whether a row keeps growing when adding the next item
// leaves the worst aspect ratio unchanged.
type TieBreak string

const (
	// TieStrict grows a row only while the worst aspect ratio strictly
	// improves.
	TieStrict TieBreak = "strict"
	// TieRelaxed also grows a row when the worst aspect ratio is unchanged,
	// as in the Bruls, Huizing and van Wijk formulation.
	TieRelaxed TieBreak = "relaxed"
)

// Squarified lays items out in rows along the shorter side of the remaining
// rectangle, keeping cell aspect ratios close to 1.
type Squarified struct {
	TieBreak TieBreak
}

// Layout implements Strategy.
func (s Squarified) Layout(items []Item, r Rect) ([]Cell, error) {
	if err := validate(items, r); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Cell{}, nil
	}

	sorted := sortByValue(items)
	scale := r.Area() / total(sorted)
	areas := make([]float64, len(sorted))
	for i, it := range sorted {
		areas[i] = it.Value * scale
	}

	cells := make([]Cell, 0, len(sorted))
	rest := r
	for i := 0; i < len(sorted); {
		side := math.Min(rest.W, rest.H)
		j := i + 1
		worst := worstRatio(areas[i:j], side)
		for j < len(sorted) {
			next := worstRatio(areas[i:j+1], side)
			if !s.grows(next, worst) {
				break
			}
			worst = next
			j++
		}
		cells, rest = placeRow(cells, sorted[i:j], areas[i:j], rest, j == len(sorted))
		i = j
	}
	return cells, nil
}

func (s Squarified) grows(next, worst float64) bool {
	if s.TieBreak == TieRelaxed {
		return next <= worst
	}
	return next < worst
}

// worstRatio is the largest aspect ratio among cells of a row with the given
// areas laid against a side of length side.
func worstRatio(areas []float64, side float64) float64 {
	sum := 0.0
	for _, a := range areas {
		sum += a
	}
	thickness := sum / side
	worst := 0.0
	for _, a := range areas {
		length := a / thickness
		ratio := math.Max(thickness/length, length/thickness)
		if ratio > worst {
			worst = ratio
		}
	}
	return worst
}

// placeRow freezes one row against the shorter side of rest and returns the
// leftover rectangle. The final row spans all of rest so no sliver is left
// behind by rounding.
func placeRow(cells []Cell, items []Item, areas []float64, rest Rect, final bool) ([]Cell, Rect) {
	sum := 0.0
	for _, a := range areas {
		sum += a
	}

	if rest.W >= rest.H {
		// Column on the left edge, items stacked top to bottom.
		thickness := sum / rest.H
		if final || thickness > rest.W {
			thickness = rest.W
		}
		y := rest.Y
		for k, it := range items {
			h := areas[k] / thickness
			if k == len(items)-1 {
				h = rest.Y + rest.H - y
			}
			cells = append(cells, Cell{Item: it, Rect: Rect{X: rest.X, Y: y, W: thickness, H: h}})
			y += h
		}
		return cells, Rect{X: rest.X + thickness, Y: rest.Y, W: rest.W - thickness, H: rest.H}
	}

	// Strip along the top edge, items left to right.
	thickness := sum / rest.W
	if final || thickness > rest.H {
		thickness = rest.H
	}
	x := rest.X
	for k, it := range items {
		w := areas[k] / thickness
		if k == len(items)-1 {
			w = rest.X + rest.W - x
		}
		cells = append(cells, Cell{Item: it, Rect: Rect{X: x, Y: rest.Y, W: w, H: thickness}})
		x += w
	}
	return cells, Rect{X: rest.X, Y: rest.Y + thickness, W: rest.W, H: rest.H - thickness}
}
