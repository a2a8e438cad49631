package figure

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"holocascade/utils"
)

func smallParams() *utils.Params {
	p := utils.DefaultParams()
	p.Samples = 200
	p.CycleSamples = 256
	p.DPI = 60
	return p
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err, "decode %s", path)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestCascadeLayout(t *testing.T) {
	layers := CascadeLayout()
	require.Len(t, layers, 6)
	for i, l := range layers {
		assert.InDelta(t, 5.0, l.Left+l.Width/2, 1e-12, "layer %d is centred", i)
		assert.Equal(t, 1.0, l.Height)
		if i > 0 {
			assert.Less(t, l.Width, layers[i-1].Width)
			assert.Less(t, l.Bottom, layers[i-1].Bottom)
		}
	}
	assert.InDelta(t, 8.0, layers[0].Width, 1e-12)
	assert.InDelta(t, 8.1, layers[0].Bottom, 1e-12)
	assert.Equal(t, "CA3", layers[3].Name)
}

func TestAllGenerators(t *testing.T) {
	names := []string{}
	for _, e := range All() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"cascade", "precession", "truth", "holographic"}, names)
}

// captureOutput redirects printed summaries into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	verbose, output := utils.Verbose, utils.Output
	t.Cleanup(func() {
		utils.Verbose, utils.Output = verbose, output
	})
	var buf bytes.Buffer
	utils.Verbose, utils.Output = true, &buf
	return &buf
}

func TestGeneratorsWriteFiles(t *testing.T) {
	want := map[string][]string{
		"cascade":     {CascadePNG, CascadePDF},
		"precession":  {PrecessionPNG, TrajectoryPNG},
		"truth":       {TruthPNG},
		"holographic": {HolographicPNG},
	}
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			dir := t.TempDir()
			out := captureOutput(t)
			res, err := e.Run(Options{OutDir: dir, Params: smallParams()})
			require.NoError(t, err)
			assert.Equal(t, e.Name, res.Name)
			require.Len(t, res.Files, len(want[e.Name]))
			for i, name := range want[e.Name] {
				assert.Equal(t, filepath.Join(dir, name), res.Files[i])
				assert.Contains(t, out.String(), "Saved: "+res.Files[i]+"\n")
				if strings.HasSuffix(name, ".png") {
					requirePNG(t, res.Files[i])
					continue
				}
				data, err := os.ReadFile(res.Files[i])
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(data), "%PDF-"), "%s is not a PDF", name)
			}
			assert.NotEmpty(t, res.Metrics)
			assert.True(t, res.Stats.TotalTime > 0)
		})
	}
}

func TestGeneratorsWithoutCells(t *testing.T) {
	p := smallParams()
	p.Cells = 0
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			_, err := e.Run(Options{OutDir: t.TempDir(), Params: p})
			require.NoError(t, err)
		})
	}
}

func TestGeneratorsMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			_, err := e.Run(Options{OutDir: missing, Params: smallParams()})
			assert.Error(t, err)
		})
	}
}

func TestDecodeHolographic(t *testing.T) {
	o, err := DecodeHolographic(utils.DefaultParams())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, o.TrueCenter, 1e-12)
	assert.InDelta(t, 0.5, o.Decoding.Position, 0.05)
	assert.Less(t, o.AwareRMSE, o.NaiveRMSE)
	assert.Len(t, o.SpikeIndex, 12)
	assert.Len(t, o.HoloMagnitude, 1024)
}

func TestDecodeHolographicNoCells(t *testing.T) {
	p := utils.DefaultParams()
	p.Cells = 0
	o, err := DecodeHolographic(p)
	require.NoError(t, err)
	assert.Zero(t, o.TrueCenter)
	assert.Empty(t, o.SpikeIndex)
	assert.Zero(t, o.AwareRMSE)
	assert.Zero(t, o.NaiveRMSE)
}

func TestResultRecord(t *testing.T) {
	r := &Result{
		Name:    "truth",
		Files:   []string{"a.png"},
		Metrics: []utils.Metric{{Name: "Reconstruction MSE", Value: 0.004}},
	}
	rec := r.Record()
	assert.Equal(t, "truth", rec.Name)
	assert.Equal(t, []string{"a.png"}, rec.Files)
	assert.Equal(t, 0.004, rec.Metrics["Reconstruction MSE"])

	r.Files[0] = "b.png"
	assert.Equal(t, "a.png", rec.Files[0])
}

func TestSpanHelpers(t *testing.T) {
	assert.Equal(t, span{0, 1}, extent())
	assert.Equal(t, span{-1, 3}, extent([]float64{2, -1}, []float64{3}))
	assert.Equal(t, span{1.5, 2.5}, span{2, 2}.pad(0.1))
}

func tickLabels(ts []chart.Tick) []string {
	var out []string
	for _, tk := range ts {
		out = append(out, tk.Label)
	}
	return out
}

func TestTicks(t *testing.T) {
	// one theta cycle in ms, 6 in wide panel
	assert.Equal(t, []string{"0", "20", "40", "60", "80", "100", "120"}, tickLabels(ticks(span{0, 125}, 8)))
	// precession time axis, 6.5 in wide panel
	assert.Equal(t, []string{"0.0", "0.5", "1.0", "1.5", "2.0", "2.5", "3.0"}, tickLabels(ticks(span{0, 1 / 0.3}, 8)))
	assert.Equal(t, []string{"-1.0", "-0.5", "0.0", "0.5", "1.0"}, tickLabels(ticks(span{-1.2, 1.2}, 7)))
	assert.Equal(t, []string{"-1", "0", "1"}, tickLabels(ticks(span{-1.2, 1.2}, 5)))
	assert.Equal(t, []string{"0", "25", "50", "75", "100", "125"}, tickLabels(ticks(span{0, 125}, 6)))

	for _, s := range []span{{0, 360}, {-0.013, 0.021}, {0.05, 1.05}, {-3e4, 7e4}} {
		ts := ticks(s, 8)
		require.NotEmpty(t, ts, "%v", s)
		assert.LessOrEqual(t, len(ts), 8, "%v", s)
		for _, tk := range ts {
			assert.GreaterOrEqual(t, tk.Value, s.min-1e-12)
			assert.LessOrEqual(t, tk.Value, s.max+1e-12)
		}
	}
	assert.Nil(t, ticks(span{1, 1}, 8))
	assert.Nil(t, ticks(span{0, 1}, 1))
}

func TestLegendSwatchesMatchMarkers(t *testing.T) {
	xs := []float64{0, 1}
	series := []chart.Series{
		dots("Linear Fourier (knows precession)", xs, xs, colorBlue, 5),
		line("", xs, xs, colorGreen, 2),
		dashed("Peak", xs, xs, colorGreen, 2),
		dots("", xs, xs, colorRed, 2),
	}

	plotted := series[0].(chart.ContinuousSeries).Style
	assert.Equal(t, colorBlue, plotted.StrokeColor)
	assert.False(t, plotted.ShouldDrawStroke(), "markers must not be joined by a line")

	entries := legendEntries(series)
	require.Len(t, entries, 2)
	swatch := entries[0].GetStyle()
	assert.Equal(t, colorBlue, swatch.StrokeColor)
	assert.Positive(t, swatch.StrokeWidth)
	assert.Equal(t, "Peak", entries[1].GetName())
	assert.Equal(t, colorGreen, entries[1].GetStyle().StrokeColor)

	// the plotted series keeps its marker-only style
	assert.Equal(t, float64(chart.Disabled), series[0].(chart.ContinuousSeries).Style.StrokeWidth)
}
