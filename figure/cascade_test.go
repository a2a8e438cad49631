package figure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
)

func TestCascadeTextBandsSeparate(t *testing.T) {
	f, err := chart.GetDefaultFont()
	require.NoError(t, err)

	for name, scale := range map[string]float64{"raster": rasterTextScale, "pdf": pdfTextScale} {
		t.Run(name, func(t *testing.T) {
			plan := planCascade(f, scale)
			require.Len(t, plan.Boxes, len(cascadeLayers))

			assert.GreaterOrEqual(t, plan.Title.Top(), 0.0)
			assert.LessOrEqual(t, plan.Title.Bottom(), plan.Boxes[0].Rect.Y, "title overlaps the first layer")

			for _, b := range plan.Boxes {
				require.Len(t, b.Lines, 3)
				for i, l := range b.Lines {
					assert.GreaterOrEqual(t, l.Top(), b.Rect.Y, "%s: %q above its box", b.Layer.Name, l.Text)
					assert.LessOrEqual(t, l.Bottom(), b.Rect.Y+b.Rect.H, "%s: %q below its box", b.Layer.Name, l.Text)
					assert.GreaterOrEqual(t, l.X, b.Rect.X, "%s: %q wider than its box", b.Layer.Name, l.Text)
					assert.LessOrEqual(t, l.X+l.Width, b.Rect.X+b.Rect.W, "%s: %q wider than its box", b.Layer.Name, l.Text)
					assert.InDelta(t, pageX(layoutUnits/2), l.X+l.Width/2, 1e-9)
					if i > 0 {
						assert.Less(t, b.Lines[i-1].Bottom(), l.Top(), "%s: %q overlaps %q", b.Layer.Name, b.Lines[i-1].Text, l.Text)
					}
				}
				gapA := b.Lines[1].Top() - b.Lines[0].Bottom()
				gapB := b.Lines[2].Top() - b.Lines[1].Bottom()
				assert.InDelta(t, gapA, gapB, 1e-9, "%s: uneven line spacing", b.Layer.Name)
			}
		})
	}
}

func TestCascadeTextBandsSeparateInPixels(t *testing.T) {
	f, err := chart.GetDefaultFont()
	require.NoError(t, err)

	for _, dpi := range []float64{60, 150, 300} {
		k := dpi / 72
		px := func(v float64) float64 { return math.Round(v * k) }
		for _, b := range planCascade(f, rasterTextScale).Boxes {
			for i := 1; i < len(b.Lines); i++ {
				above, below := b.Lines[i-1], b.Lines[i]
				assert.Less(t, px(above.Baseline)+above.Descent*k, px(below.Baseline)-below.Ascent*k,
					"%s at %g dpi: %q overlaps %q", b.Layer.Name, dpi, above.Text, below.Text)
			}
		}
	}
}

func TestCascadeGlyphsAvailable(t *testing.T) {
	f, err := chart.GetDefaultFont()
	require.NoError(t, err)

	plan := planCascade(f, rasterTextScale)
	for _, l := range plan.lines() {
		for _, r := range l.Text {
			assert.NotZero(t, f.Index(r), "no glyph for %q in %q", r, l.Text)
		}
	}

	assert.Equal(t, "Figure 4 – Nested Holographic Cascade", plan.Title.Text)
	assert.Equal(t, "10⁶ neurons", plan.Boxes[1].Lines[1].Text)
	assert.Equal(t, "≈ 300 000 neurons", plan.Boxes[3].Lines[1].Text)
	assert.Equal(t, "10⁶ effective bits/trace", plan.Boxes[0].Lines[2].Text)
}
