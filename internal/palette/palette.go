// Package palette maps category, team and quarter labels to display colors.
// Lookups never fail: a label missing from every table resolves to a neutral
// default. Palettes can be overridden from a TOML file at startup.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultHex is the neutral color used for unknown labels.
const DefaultHex = "#78909C"

// surfaceHex is the empty-cell color heat shading blends away from.
const surfaceHex = "#ECEFF1"

// Color is an opaque RGB display color.
type Color struct {
	R, G, B uint8
}

// Default is the color resolved for unknown labels.
var Default = MustParseHex(DefaultHex)

// ParseHex parses "#rrggbb", "rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("palette: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustParseHex is ParseHex for built-in tables; it panics on malformed input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA converts to an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Luminance returns the perceived lightness in [0,1], used to choose a
// readable foreground for labels drawn on the color.
func (c Color) Luminance() float64 {
	l, _, _ := c.colorful().Hcl()
	return l
}

// Heat blends from the empty-cell surface toward base by intensity in [0,1].
func Heat(base Color, intensity float64) Color {
	if intensity <= 0 {
		return MustParseHex(surfaceHex)
	}
	if intensity >= 1 {
		return base
	}
	surface := MustParseHex(surfaceHex).colorful()
	r, g, b := surface.BlendLab(base.colorful(), intensity).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Resolver answers label → color lookups against one table.
type Resolver struct {
	direct     map[string]Color
	normalized map[string]Color
	suffix     bool
}

// NewResolver builds a resolver from a label → hex table. The normalized
// (trimmed, lowercased) view is derived once here.
func NewResolver(table map[string]string) (*Resolver, error) {
	r := &Resolver{
		direct:     make(map[string]Color, len(table)),
		normalized: make(map[string]Color, len(table)),
	}
	if err := r.merge(table); err != nil {
		return nil, err
	}
	return r, nil
}

func mustResolver(table map[string]string) *Resolver {
	r, err := NewResolver(table)
	if err != nil {
		panic(err)
	}
	return r
}

// merge parses every entry before touching r, so a bad table leaves the
// resolver unchanged. An incoming label replaces every existing spelling
// of the same name.
func (r *Resolver) merge(table map[string]string) error {
	parsed := make(map[string]Color, len(table))
	seen := make(map[string]string, len(table))
	for label, hex := range table {
		key := normalize(label)
		if prev, ok := seen[key]; ok {
			a, b := prev, label
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("palette: labels %q and %q name the same entry", a, b)
		}
		seen[key] = label
		c, err := ParseHex(hex)
		if err != nil {
			return fmt.Errorf("palette: label %q: %w", label, err)
		}
		parsed[label] = c
	}
	for label, c := range parsed {
		key := normalize(label)
		for existing := range r.direct {
			if normalize(existing) == key {
				delete(r.direct, existing)
			}
		}
		r.direct[label] = c
		r.normalized[key] = c
	}
	return nil
}

// Resolve returns the color for label: exact match first, then the
// case- and whitespace-insensitive match, then Default.
func (r *Resolver) Resolve(label string) Color {
	if r == nil {
		return Default
	}
	if c, ok := r.direct[label]; ok {
		return c
	}
	if c, ok := r.normalized[normalize(label)]; ok {
		return c
	}
	if r.suffix {
		// "2023 Q2" resolves through its "Q2" suffix.
		if fields := strings.Fields(label); len(fields) > 1 {
			if c, ok := r.normalized[normalize(fields[len(fields)-1])]; ok {
				return c
			}
		}
	}
	return Default
}

// Len returns the number of labels known to the resolver.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.direct)
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
