// Package export renders dashboard frames to static files: SVG, PNG and a
// JSON descriptor.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/goccy/go-json"
	"golang.org/x/image/font/basicfont"

	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/treemap"
	"github.com/papapumpkin/featuremap/internal/view"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned when the format cannot be determined.
var ErrUnknownFormat = errors.New("unknown export format")

// Canvas geometry shared by the SVG and PNG renderers.
const (
	margin       = 16
	headerHeight = 64
	legendWidth  = 200
	legendRow    = 20
)

var (
	colorBackdrop = color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}
	colorText     = color.RGBA{0x26, 0x32, 0x38, 0xFF}
	colorSubtle   = color.RGBA{0x60, 0x7D, 0x8B, 0xFF}
	colorStroke   = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	colorLight    = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// Options controls a single export.
type Options struct {
	Path   string // output path; format inferred from extension when Format is empty
	Format string
	Width  int
	Height int
	Frame  view.Descriptor // laid out in Body(Width, Height)
}

// Body is the rectangle the treemap must be laid out in for a canvas of
// the given size.
func Body(width, height int) treemap.Rect {
	return treemap.Rect{
		X: margin,
		Y: headerHeight,
		W: math.Max(1, float64(width-legendWidth-3*margin)),
		H: math.Max(1, float64(height-headerHeight-margin)),
	}
}

// ResolveFormat returns the explicit format, or the one implied by path.
func ResolveFormat(format, path string) (Format, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch Format(f) {
	case FormatSVG, FormatPNG, FormatJSON:
		return Format(f), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Save writes opts.Frame to opts.Path.
func Save(opts Options) error {
	format, err := ResolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	file, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer file.Close()

	if err := Write(file, format, opts.Frame, opts.Width, opts.Height); err != nil {
		return err
	}
	return file.Close()
}

// Write encodes d in format.
func Write(w io.Writer, format Format, d view.Descriptor, width, height int) error {
	switch format {
	case FormatSVG:
		return WriteSVG(w, d, width, height)
	case FormatPNG:
		return WritePNG(w, d, width, height)
	case FormatJSON:
		return WriteJSON(w, d)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteJSON encodes the descriptor as indented JSON.
func WriteJSON(w io.Writer, d view.Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// WriteSVG draws the treemap as an SVG document. Each cell carries its
// tooltip as a <title>.
func WriteSVG(w io.Writer, d view.Descriptor, width, height int) error {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+css(colorBackdrop))
	canvas.Text(margin, 30, d.Title, fmt.Sprintf("fill:%s;font-size:20px;font-family:sans-serif;font-weight:bold", css(colorText)))
	canvas.Text(margin, 52, subtitle(d), fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif", css(colorSubtle)))

	for _, c := range d.Cells {
		x, y, cw, ch := pixels(c.Rect)
		fill := c.RGB()
		canvas.Group()
		canvas.Title(c.Tooltip())
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", fill.Hex(), css(colorStroke))
		if c.Inspected {
			style = fmt.Sprintf("fill:%s;stroke:%s;stroke-width:4", fill.Hex(), css(colorText))
		}
		canvas.Roundrect(x, y, cw, ch, 4, 4, style)
		if cw > 60 && ch > 34 {
			ink := css(textOn(fill))
			canvas.Text(x+8, y+20, truncate(c.Label, cw/8), fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;font-weight:bold", ink))
			canvas.Text(x+8, y+36, fmt.Sprintf("%d features", c.Count), fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif", ink))
		}
		canvas.Gend()
	}

	lx := width - legendWidth - margin
	canvas.Text(lx, headerHeight+12, "Legend", fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;font-weight:bold", css(colorText)))
	for i, l := range d.Legend {
		y := headerHeight + 32 + i*legendRow
		canvas.Roundrect(lx, y-10, 14, 14, 3, 3, "fill:"+l.Color)
		canvas.Text(lx+20, y+1, truncate(l.Label, 24), fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", css(colorSubtle)))
	}
	canvas.End()
	return nil
}

// WritePNG rasterizes the treemap.
func WritePNG(w io.Writer, d view.Descriptor, width, height int) error {
	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(d.Title, margin, 26, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(subtitle(d), margin, 46, 0, 0.5)

	for _, c := range d.Cells {
		fill := c.RGB()
		r := c.Rect
		dc.SetColor(fill.RGBA())
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 4)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(2)
		if c.Inspected {
			dc.SetColor(colorText)
			dc.SetLineWidth(4)
		}
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 4)
		dc.Stroke()
		if r.W > 60 && r.H > 34 {
			dc.SetColor(textOn(fill))
			dc.DrawStringAnchored(truncate(c.Label, int(r.W)/7-2), r.X+8, r.Y+14, 0, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%d features", c.Count), r.X+8, r.Y+30, 0, 0.5)
		}
	}

	lx := float64(width - legendWidth - margin)
	dc.SetColor(colorText)
	dc.DrawStringAnchored("Legend", lx, headerHeight+8, 0, 0.5)
	for i, l := range d.Legend {
		y := float64(headerHeight + 28 + i*legendRow)
		dc.SetColor(l.RGB().RGBA())
		dc.DrawRoundedRectangle(lx, y-7, 14, 14, 3)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(l.Label, 24), lx+20, y, 0, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

func subtitle(d view.Descriptor) string {
	s := fmt.Sprintf("%d features", d.Total)
	if d.Breadcrumb != "" {
		s = d.Breadcrumb + "  ·  " + s
	}
	return s
}

// pixels snaps a rectangle to whole pixels so neighbouring cells share
// edges exactly.
func pixels(r treemap.Rect) (x, y, w, h int) {
	x0, y0 := math.Round(r.X), math.Round(r.Y)
	x1, y1 := math.Round(r.X+r.W), math.Round(r.Y+r.H)
	return int(x0), int(y0), int(x1 - x0), int(y1 - y0)
}

// textOn picks dark or light ink for legibility on fill.
func textOn(fill palette.Color) color.RGBA {
	if fill.Luminance() > 0.6 {
		return colorText
	}
	return colorLight
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
