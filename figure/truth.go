package figure

import (
	"fmt"
	"image"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"holocascade/fourier"
	"holocascade/precession"
	"holocascade/utils"
)

// Truth fits the phase-to-position series at the true sample points,
// reconstructs at the same points, and plots fit and residual.
func Truth(opts Options) (*Result, error) {
	params := opts.params()
	log := opts.log()
	res := &Result{Name: "truth"}
	start := time.Now()

	tr := params.Track()
	times := tr.Times()
	pos := tr.Positions(times)
	phaseDeg := tr.Phases(pos)
	phase := precession.Radians(phaseDeg)
	res.Stats.SynthesisTime = time.Since(start)

	t0 := time.Now()
	coef, err := fourier.FitTruth(pos, phase, params.Harmonics)
	if err != nil {
		return nil, fmt.Errorf("fit truth series: %w", err)
	}
	recon := coef.Evaluate(phase)
	mse, err := fourier.MSE(pos, recon)
	if err != nil {
		return nil, err
	}
	residual := make([]float64, len(pos))
	for i := range pos {
		residual[i] = recon[i] - pos[i]
	}
	res.Stats.TransformTime = time.Since(t0)
	log.Info("fitted truth series", "harmonics", params.Harmonics, "samples", len(pos), "mse", mse)

	t0 = time.Now()
	fit := panelSpec{
		title:    fmt.Sprintf("Phase-to-Position Fit (%d harmonics)", params.Harmonics),
		xName:    "Theta Phase (deg)",
		yName:    "Position (m)",
		x:        span{0, 360},
		y:        extent(pos, recon).pad(0.05),
		widthIn:  6.5,
		heightIn: 3.0,
		dpi:      params.DPI,
	}
	resid := panelSpec{
		title:    "Reconstruction Residual",
		xName:    "Time (s)",
		yName:    "Error (m)",
		x:        span{0, tr.Duration()},
		y:        extent(residual).pad(0.1),
		widthIn:  6.5,
		heightIn: 2.0,
		dpi:      params.DPI,
	}
	var panels []image.Image
	for _, ch := range []*chart.Chart{
		withLegend(fit.chart([]chart.Series{
			dots("True position", phaseDeg, pos, drawing.ColorBlack, 2),
			dots("Fourier reconstruction", phaseDeg, recon, colorRed, 1.5),
		})),
		resid.chart([]chart.Series{line("residual", times, residual, colorBlue, 1)}),
	} {
		img, err := rasterize(ch)
		if err != nil {
			return nil, err
		}
		panels = append(panels, img)
	}
	canvas := Grid("Fourier reconstruction against ground truth", panels, 1)
	res.Stats.RenderTime = time.Since(t0)

	t0 = time.Now()
	path := opts.path(TruthPNG)
	if err := SavePNG(path, canvas.Image()); err != nil {
		return nil, err
	}
	res.Stats.WriteTime = time.Since(t0)
	res.Files = append(res.Files, path)
	utils.PrintSaved(path)

	res.Metrics = []utils.Metric{
		{Name: "Reconstruction MSE", Value: mse, Unit: "m^2", Digits: 6},
		{Name: "Reconstruction RMSE", Value: math.Sqrt(mse), Unit: "m", Digits: 5},
	}
	res.Stats.TotalTime = time.Since(start)
	return res, nil
}
