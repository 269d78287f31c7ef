package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ajstarks/svgo"

	"github.com/papapumpkin/featuremap/internal/calendar"
	"github.com/papapumpkin/featuremap/internal/palette"
	"github.com/papapumpkin/featuremap/internal/record"
)

const (
	cardCols = 4
	cardRows = 3
	cardGap  = 12
)

// RenderYearSVG draws the year heat-map: one card per month shaded by its
// release count, with a bar per week. Cards take their hue from the
// month's quarter.
func RenderYearSVG(w io.Writer, y calendar.YearView, quarters *palette.Resolver, width, height int) error {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+css(colorBackdrop))
	canvas.Text(margin, 30, fmt.Sprintf("Releases in %d", y.Year), fmt.Sprintf("fill:%s;font-size:20px;font-family:sans-serif;font-weight:bold", css(colorText)))
	canvas.Text(margin, 52, fmt.Sprintf("%d features", y.Total), fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif", css(colorSubtle)))

	cw := (width - 2*margin - (cardCols-1)*cardGap) / cardCols
	ch := (height - headerHeight - margin - (cardRows-1)*cardGap) / cardRows
	for _, m := range y.Months {
		x := margin + (m.Month%cardCols)*(cw+cardGap)
		top := headerHeight + (m.Month/cardCols)*(ch+cardGap)
		base := quarters.Resolve(fmt.Sprintf("Q%d", record.Quarter(m.Month)))
		fill := palette.Heat(base, calendar.Intensity(m.Count, y.MaxMonth))

		canvas.Group()
		canvas.Title(fmt.Sprintf("%s %d: %d features", calendar.MonthNames[m.Month], y.Year, m.Count))
		canvas.Roundrect(x, top, cw, ch, 6, 6, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", fill.Hex(), css(colorSubtle)))
		ink := css(textOn(fill))
		canvas.Text(x+10, top+20, calendar.MonthNames[m.Month], fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;font-weight:bold", ink))
		canvas.Text(x+cw-10, top+20, fmt.Sprintf("%d", m.Count), fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;text-anchor:end", ink))

		weekMax := 0
		for _, n := range m.Weeks {
			weekMax = max(weekMax, n)
		}
		barW := (cw - 20) / calendar.WeeksPerMonth
		for i, n := range m.Weeks {
			if n == 0 {
				continue
			}
			bh := int(float64(ch-40) * calendar.Intensity(n, weekMax))
			canvas.Rect(x+10+i*barW, top+ch-8-bh, barW-4, bh, fmt.Sprintf("fill:%s;fill-opacity:0.6", ink))
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// SaveYear writes the year heat-map of y to an SVG file at path.
func SaveYear(path string, y calendar.YearView, quarters *palette.Resolver, width, height int) error {
	if format, err := ResolveFormat("", path); err != nil || format != FormatSVG {
		return fmt.Errorf("%w: year heat-maps are svg only, got %q", ErrUnknownFormat, filepath.Ext(path))
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer file.Close()

	if err := RenderYearSVG(file, y, quarters, width, height); err != nil {
		return err
	}
	return file.Close()
}
