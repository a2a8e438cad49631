package figure

import (
	"fmt"
	"image"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/exp/rand"

	"holocascade/fourier"
	"holocascade/precession"
	"holocascade/tensor"
	"holocascade/utils"
)

// run is the synthesized session shared by the raster and trajectory figures.
type run struct {
	times     []float64
	positions []float64
	phases    []float64 // degrees
	theta     []float64
	centers   []float64
	spikes    *tensor.Tensor
}

func synthesize(p *utils.Params) *run {
	tr := p.Track()
	r := &run{times: tr.Times(), centers: p.Centers()}
	r.positions = tr.Positions(r.times)
	r.phases = tr.Phases(r.positions)
	r.theta = tr.Theta(r.times)

	rates := precession.FiringRates(r.centers, r.positions, p.Field())
	src := rand.NewSource(uint64(p.Seed))
	r.spikes = precession.SampleSpikes(rates, precession.SampleInterval(r.times), src)
	return r
}

// Precession renders the three-panel raster/LFP/phase figure and the
// trajectory reconstruction figure.
func Precession(opts Options) (*Result, error) {
	params := opts.params()
	log := opts.log()
	res := &Result{Name: "precession"}
	start := time.Now()

	r := synthesize(params)
	res.Stats.SynthesisTime = time.Since(start)
	log.Info("synthesized spikes", "cells", len(r.centers), "samples", len(r.times), "spikes", int(r.spikes.Sum()))

	t0 := time.Now()
	panels, err := precessionPanels(r, params)
	if err != nil {
		return nil, err
	}
	canvas := Grid("Phase precession in simulated place cells", panels, 1)
	res.Stats.RenderTime += time.Since(t0)

	t0 = time.Now()
	path := opts.path(PrecessionPNG)
	if err := SavePNG(path, canvas.Image()); err != nil {
		return nil, err
	}
	res.Stats.WriteTime += time.Since(t0)
	res.Files = append(res.Files, path)
	utils.PrintSaved(path)

	rmse, file, err := trajectory(opts, r, params, &res.Stats)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, file)
	utils.PrintSaved(file)

	res.Metrics = []utils.Metric{
		{Name: "Spikes", Value: r.spikes.Sum()},
		{Name: "Trajectory RMSE", Value: rmse, Unit: "m", Digits: 5},
	}
	res.Stats.TotalTime = time.Since(start)
	return res, nil
}

func precessionPanels(r *run, p *utils.Params) ([]image.Image, error) {
	n := len(r.centers)
	tx := span{0, p.Track().Duration()}
	panel := func(title, xName, yName string, x, y span) panelSpec {
		return panelSpec{title: title, xName: xName, yName: yName, x: x, y: y, widthIn: 6.5, heightIn: 2.0, dpi: p.DPI}
	}

	// (A) raster: one tick per spike, one row per cell
	var raster []chart.Series
	ticks := make([]chart.Tick, n)
	for i := 0; i < n; i++ {
		for _, t := range precession.Select(r.times, r.spikes.Nonzero(i)) {
			raster = append(raster, segment(t, float64(i), t, float64(i)+0.8, drawing.ColorBlack, 0.8))
		}
		ticks[i] = chart.Tick{Value: float64(i) + 0.4, Label: fmt.Sprintf("Cell %d", i+1)}
	}
	a := panel("(A) Place Cell Raster", "", "Place Cells", tx, span{0, math.Max(float64(n), 1)}).chart(raster)
	if n > 0 {
		a.YAxis.Ticks = ticks
	}

	// (B) theta LFP with each cell's spikes at height 0.3*i
	by := span{-1.2, 1.2}
	series := []chart.Series{line(fmt.Sprintf("Theta (%g Hz)", p.ThetaHz), r.times, r.theta, drawing.ColorBlack, 1.5)}
	for i := 0; i < n; i++ {
		h := 0.3 * float64(i)
		if h > by.max {
			continue
		}
		ts := precession.Select(r.times, r.spikes.Nonzero(i))
		series = append(series, dots("", ts, constant(len(ts), h), colorRed, 2.5))
	}
	b := withLegend(panel("(B) Theta Oscillation with Spikes", "", "LFP / Spikes", tx, by).chart(nonEmpty(series...)))

	// (C) spike phase against spike position
	var phase []chart.Series
	for i := 0; i < n; i++ {
		idx := r.spikes.Nonzero(i)
		phase = append(phase, dots("", precession.Select(r.positions, idx), precession.Select(r.phases, idx), cellColor(i), 3))
	}
	c := panel("(C) Phase Precession", "Position (m)", "Theta Phase (deg)", span{0, p.TrackLength}, span{0, 360}).chart(nonEmpty(phase...))

	var out []image.Image
	for _, ch := range []*chart.Chart{a, b, c} {
		img, err := rasterize(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// trajectory writes the 12-coefficient reconstruction figure and returns its RMSE.
func trajectory(opts Options, r *run, p *utils.Params, stats *utils.TimingStats) (float64, string, error) {
	center := p.CenterMin
	if len(r.centers) > 0 {
		center = r.centers[0]
	}

	t0 := time.Now()
	recon := fourier.ApproxTrajectory(r.times, center, p.TrackLength, p.ThetaHz, p.Harmonics)
	rmse, err := fourier.RMSE(r.positions, recon)
	if err != nil {
		return 0, "", err
	}
	stats.TransformTime += time.Since(t0)

	t0 = time.Now()
	y := extent(recon, []float64{0, 1.1 * p.TrackLength})
	panel := panelSpec{
		title:    fmt.Sprintf("Trajectory Reconstruction from %d Fourier Coefficients", p.Harmonics),
		xName:    "Time (s)",
		yName:    "Position (m)",
		x:        span{0, p.Track().Duration()},
		y:        y,
		widthIn:  6.5,
		heightIn: 3.5,
		dpi:      p.DPI,
	}
	ch := withLegend(panel.chart([]chart.Series{
		line("True Trajectory", r.times, r.positions, drawing.ColorBlack, 2),
		dashed("Fourier Reconstruction", r.times, recon, colorRed, 2),
	}))
	img, err := rasterize(ch)
	if err != nil {
		return 0, "", err
	}
	stats.RenderTime += time.Since(t0)

	t0 = time.Now()
	path := opts.path(TrajectoryPNG)
	if err := SavePNG(path, img); err != nil {
		return 0, "", err
	}
	stats.WriteTime += time.Since(t0)
	return rmse, path, nil
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
