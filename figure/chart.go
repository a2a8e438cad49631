package figure

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette follows the usual ten-colour cycle so cell i keeps colour C{i}.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var (
	colorRed     = drawing.ColorFromHex("d62728")
	colorGreen   = drawing.ColorFromHex("2ca02c")
	colorBlue    = drawing.ColorFromHex("1f3fbf")
	colorPurple  = drawing.ColorFromHex("800080")
	colorMagenta = drawing.ColorFromHex("bf00bf")
	colorGold    = drawing.ColorFromHex("ffd700")
	colorGrid    = drawing.ColorFromHex("d9d9d9")
)

func cellColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// span is a closed axis range.
type span struct{ min, max float64 }

// pad widens s by frac of its extent, or by 0.5 when it is degenerate.
func (s span) pad(frac float64) span {
	d := (s.max - s.min) * frac
	if d == 0 {
		d = 0.5
	}
	return span{s.min - d, s.max + d}
}

// extent returns the range covered by all values in vs.
func extent(vs ...[]float64) span {
	s := span{math.Inf(1), math.Inf(-1)}
	for _, v := range vs {
		for _, x := range v {
			s.min = math.Min(s.min, x)
			s.max = math.Max(s.max, x)
		}
	}
	if math.IsInf(s.min, 1) {
		return span{0, 1}
	}
	return s
}

// panelSpec is a single chart panel measured in inches.
type panelSpec struct {
	title        string
	xName, yName string
	x, y         span
	widthIn      float64
	heightIn     float64
	dpi          float64
}

func (p panelSpec) chart(series []chart.Series) *chart.Chart {
	px := func(in float64) int { return int(math.Round(in * p.dpi)) }
	grid := chart.Style{StrokeColor: colorGrid, StrokeWidth: 0.5}
	return &chart.Chart{
		Title:      p.title,
		TitleStyle: chart.Style{FontSize: 11},
		Width:      px(p.widthIn),
		Height:     px(p.heightIn),
		DPI:        p.dpi,
		Background: chart.Style{
			Padding: chart.Box{Top: px(0.35), Left: px(0.1), Right: px(0.2), Bottom: px(0.05)},
		},
		XAxis: chart.XAxis{
			Name:           p.xName,
			Style:          chart.Style{FontSize: 9},
			Range:          &chart.ContinuousRange{Min: p.x.min, Max: p.x.max},
			Ticks:          ticks(p.x, int(p.widthIn)+2),
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           p.yName,
			Style:          chart.Style{FontSize: 9},
			Range:          &chart.ContinuousRange{Min: p.y.min, Max: p.y.max},
			Ticks:          ticks(p.y, int(2*p.heightIn)+1),
			GridMajorStyle: grid,
		},
		// Keeps the chart renderable when every data series is empty.
		Series: append([]chart.Series{anchor(p.x, p.y)}, series...),
	}
}

// ticks places at most n ticks over s on a 1, 2, 2.5, 5 step.
func ticks(s span, n int) []chart.Tick {
	if n < 2 || !(s.max > s.min) {
		return nil
	}
	step := niceStep((s.max - s.min) / float64(n-1))
	digits := decimals(step)
	var out []chart.Tick
	for k := math.Ceil(s.min/step - 1e-9); k <= math.Floor(s.max/step+1e-9); k++ {
		v := k * step
		if v == 0 {
			v = 0 // no "-0" labels
		}
		out = append(out, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', digits, 64)})
	}
	return out
}

// niceStep rounds raw up to the next 1, 2, 2.5 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	base := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5} {
		if m*base >= raw*(1-1e-9) {
			return m * base
		}
	}
	return 10 * base
}

// decimals is the number of fraction digits needed to print multiples of step.
func decimals(step float64) int {
	for d := 0; d < 10; d++ {
		x := step * math.Pow10(d)
		if math.Abs(x-math.Round(x)) < 1e-6*math.Max(1, x) {
			return d
		}
	}
	return 10
}

// anchor is an invisible series spanning the panel.
func anchor(x, y span) chart.Series {
	return chart.ContinuousSeries{
		XValues: []float64{x.min, x.max},
		YValues: []float64{y.min, y.min},
		Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 0},
	}
}

func line(name string, xs, ys []float64, c drawing.Color, width float64) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: c, StrokeWidth: width},
	}
}

func dashed(name string, xs, ys []float64, c drawing.Color, width float64) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: c, StrokeWidth: width, StrokeDashArray: []float64{6, 4}},
	}
}

func dots(name string, xs, ys []float64, c drawing.Color, size float64) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: chart.Disabled,
			DotWidth:    size,
			DotColor:    c,
		},
	}
}

func segment(x0, y0, x1, y1 float64, c drawing.Color, width float64) chart.Series {
	return line("", []float64{x0, x1}, []float64{y0, y1}, c, width)
}

// nonEmpty drops series without points; go-chart rejects them.
func nonEmpty(series ...chart.Series) []chart.Series {
	out := series[:0]
	for _, s := range series {
		if cs, ok := s.(chart.ContinuousSeries); ok && cs.Len() == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// legendSwatch is the line width drawn in the legend for marker-only series.
const legendSwatch = 3.0

// legendEntries returns the named series. Marker-only series are copied with
// a solid stroke in their marker colour so the legend shows a swatch.
func legendEntries(series []chart.Series) []chart.Series {
	var out []chart.Series
	for _, s := range series {
		if s.GetName() == "" {
			continue
		}
		if cs, ok := s.(chart.ContinuousSeries); ok && cs.Style.StrokeWidth == chart.Disabled {
			cs.Style.StrokeColor = cs.Style.DotColor
			cs.Style.StrokeWidth = legendSwatch
			s = cs
		}
		out = append(out, s)
	}
	return out
}

// withLegend attaches a legend listing every named series.
func withLegend(c *chart.Chart) *chart.Chart {
	legendSrc := &chart.Chart{Series: legendEntries(c.Series)}
	c.Elements = append(c.Elements, chart.Legend(legendSrc, chart.Style{FontSize: 8}))
	return c
}

// rasterize renders c to an in-memory PNG and decodes it for composition.
func rasterize(c *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", c.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", c.Title, err)
	}
	return img, nil
}
