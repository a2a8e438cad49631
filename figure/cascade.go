package figure

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/wcharczuk/go-chart/v2/roboto"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"holocascade/utils"
)

// Layout space is 10 x 10 units drawn on a 10 x 8 inch page.
// Plans are measured in page points (1/72 in) with y pointing down.
const (
	layoutUnits  = 10.0
	pageWidthPt  = 10 * 72.0
	pageHeightPt = 8 * 72.0
	layerHeight  = 1.0
	baseWidth    = 8.0
	widthStep    = 0.7
	titleY       = 9.7
	bitsLabel    = "10⁶ effective bits/trace"
	cascadeTitle = "Figure 4 – Nested Holographic Cascade"
)

// Font sizes in points.
const (
	titleSize = 20.0
	nameSize  = 13.0
	countSize = 11.0
	bitsSize  = 10.0
	lineGapEm = 0.2 // gap between stacked lines, in ems of the smallest line
	strokePt  = 1.5
)

// Em size in page points per font point for each backend. go-chart
// rasterizes glyphs at size*dpi/64 pixels per em, fpdf at size points.
const (
	rasterTextScale = 72.0 / 64
	pdfTextScale    = 1.0
)

const pdfFontFamily = "Roboto"

// Layer is one box of the cascade in layout units.
type Layer struct {
	Name    string
	Neurons string
	Color   string // hex, no leading '#'
	Left    float64
	Bottom  float64
	Width   float64
	Height  float64
}

// CenterY is the vertical center of the box.
func (l Layer) CenterY() float64 {
	return l.Bottom + l.Height/2
}

var cascadeLayers = []struct {
	name, neurons string
	y             float64
	color         string
}{
	{"6-D Cortical Manifold", "~10¹⁰ active neurons", 8.6, "88c0d0"},
	{"Entorhinal Cortex (EC)", "10⁶ neurons", 7.3, "81a1c1"},
	{"Dentate Gyrus (DG)", "10⁶ neurons", 6.0, "5e81ac"},
	{"CA3", "≈ 300 000 neurons", 4.7, "4c566a"},
	{"CA1", "≈ 400 000 neurons", 3.4, "434c5e"},
	{"Subiculum / EC deep", "≈ 100 000 neurons", 2.1, "3b4252"},
}

// CascadeLayout computes the nested boxes; each layer is narrower than the one above.
func CascadeLayout() []Layer {
	out := make([]Layer, len(cascadeLayers))
	for i, l := range cascadeLayers {
		w := baseWidth - float64(i)*widthStep
		out[i] = Layer{
			Name:    l.name,
			Neurons: l.neurons,
			Color:   l.color,
			Left:    layoutUnits/2 - w/2,
			Bottom:  l.y - layerHeight/2,
			Width:   w,
			Height:  layerHeight,
		}
	}
	return out
}

func pageX(u float64) float64 { return u / layoutUnits * pageWidthPt }
func pageY(u float64) float64 { return (layoutUnits - u) / layoutUnits * pageHeightPt }

type rect struct{ X, Y, W, H float64 }

// textLine is one typeset string; X is its left edge, Baseline its baseline.
type textLine struct {
	Text    string
	Size    float64
	Color   drawing.Color
	X       float64
	Width   float64
	Ascent  float64
	Descent float64

	Baseline float64
}

func (t textLine) Top() float64    { return t.Baseline - t.Ascent }
func (t textLine) Bottom() float64 { return t.Baseline + t.Descent }

type cascadeBox struct {
	Layer Layer
	Rect  rect
	Lines []textLine
}

type cascadePlan struct {
	Title textLine
	Boxes []cascadeBox
}

// typesetter measures text with the face metrics of one font at one scale.
type typesetter struct {
	font  *truetype.Font
	scale float64
}

func points(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (ts typesetter) line(text string, size float64, c drawing.Color, cx float64) textLine {
	face := truetype.NewFace(ts.font, &truetype.Options{Size: size * ts.scale})
	defer face.Close()
	m := face.Metrics()
	w := points(font.MeasureString(face, text))
	return textLine{
		Text:    text,
		Size:    size,
		Color:   c,
		X:       cx - w/2,
		Width:   w,
		Ascent:  points(m.Ascent),
		Descent: points(m.Descent),
	}
}

// stack sets baselines so the lines sit one under another, centred on cy.
func stack(lines []textLine, cy, gap float64) {
	total := gap * float64(len(lines)-1)
	for _, l := range lines {
		total += l.Ascent + l.Descent
	}
	top := cy - total/2
	for i := range lines {
		lines[i].Baseline = top + lines[i].Ascent
		top = lines[i].Bottom() + gap
	}
}

func planCascade(f *truetype.Font, scale float64) cascadePlan {
	ts := typesetter{font: f, scale: scale}
	cx := pageX(layoutUnits / 2)

	title := []textLine{ts.line(cascadeTitle, titleSize, drawing.ColorBlack, cx)}
	stack(title, pageY(titleY), 0)
	plan := cascadePlan{Title: title[0]}

	for _, l := range CascadeLayout() {
		b := cascadeBox{
			Layer: l,
			Rect: rect{
				X: pageX(l.Left),
				Y: pageY(l.Bottom + l.Height),
				W: pageX(l.Width),
				H: pageY(l.Bottom) - pageY(l.Bottom+l.Height),
			},
			Lines: []textLine{
				ts.line(l.Name, nameSize, drawing.ColorBlack, cx),
				ts.line(l.Neurons, countSize, drawing.ColorBlack, cx),
				ts.line(bitsLabel, bitsSize, drawing.ColorWhite, cx),
			},
		}
		stack(b.Lines, pageY(l.CenterY()), lineGapEm*bitsSize*scale)
		plan.Boxes = append(plan.Boxes, b)
	}
	return plan
}

func (p cascadePlan) lines() []textLine {
	out := []textLine{p.Title}
	for _, b := range p.Boxes {
		out = append(out, b.Lines...)
	}
	return out
}

func drawRect(r chart.Renderer, x0, y0, x1, y1 int) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
}

func writeCascadePNG(path string, f *truetype.Font, dpi float64) error {
	k := dpi / 72
	px := func(v float64) int { return int(math.Round(v * k)) }
	plan := planCascade(f, rasterTextScale)

	r, err := chart.PNG(px(pageWidthPt), px(pageHeightPt))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	r.SetDPI(dpi)
	r.SetFont(f)

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	drawRect(r, 0, 0, px(pageWidthPt), px(pageHeightPt))
	r.Fill()

	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(strokePt * k)
	for _, b := range plan.Boxes {
		r.SetFillColor(drawing.ColorFromHex(b.Layer.Color))
		drawRect(r, px(b.Rect.X), px(b.Rect.Y), px(b.Rect.X+b.Rect.W), px(b.Rect.Y+b.Rect.H))
		r.FillStroke()
	}
	for _, l := range plan.lines() {
		r.SetFontSize(l.Size)
		r.SetFontColor(l.Color)
		r.Text(l.Text, px(l.X), px(l.Baseline))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Save(out); err != nil {
		out.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return out.Close()
}

// writeCascadePDF draws the same plan with the chart font embedded, so the
// glyph set matches the PNG.
func writeCascadePDF(path string, f *truetype.Font) error {
	plan := planCascade(f, pdfTextScale)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageWidthPt, Ht: pageHeightPt},
	})
	pdf.SetTitle(cascadeTitle, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", roboto.Roboto)
	pdf.AddPage()

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(strokePt)
	for _, b := range plan.Boxes {
		c := drawing.ColorFromHex(b.Layer.Color)
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, "FD")
	}
	for _, l := range plan.lines() {
		pdf.SetFont(pdfFontFamily, "", l.Size)
		pdf.SetTextColor(int(l.Color.R), int(l.Color.G), int(l.Color.B))
		pdf.Text(l.X, l.Baseline, l.Text)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Cascade draws the nested-cascade schematic as PNG and PDF.
func Cascade(opts Options) (*Result, error) {
	params := opts.params()
	log := opts.log()
	res := &Result{Name: "cascade"}
	start := time.Now()

	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	log.Info("rendering cascade", "layers", len(cascadeLayers), "dpi", params.DPI)

	for _, out := range []struct {
		name  string
		write func(string) error
	}{
		{CascadePNG, func(p string) error { return writeCascadePNG(p, f, params.DPI) }},
		{CascadePDF, func(p string) error { return writeCascadePDF(p, f) }},
	} {
		path := opts.path(out.name)
		t0 := time.Now()
		if err := out.write(path); err != nil {
			return nil, err
		}
		res.Stats.RenderTime += time.Since(t0)
		res.Files = append(res.Files, path)
		utils.PrintSaved(path)
	}

	res.Metrics = []utils.Metric{{Name: "Layers", Value: float64(len(cascadeLayers))}}
	res.Stats.TotalTime = time.Since(start)
	return res, nil
}
