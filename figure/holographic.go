package figure

import (
	"fmt"
	"image"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"holocascade/fourier"
	"holocascade/hologram"
	"holocascade/precession"
	"holocascade/utils"
)

// HoloOutcome holds the numbers behind the holographic figure.
type HoloOutcome struct {
	TruePos       []float64
	TrueCenter    float64
	Decoding      *hologram.Decoding
	Aware         []float64 // linear Fourier, knows precession
	Naive         []float64 // linear Fourier, all spikes at one phase
	AwareRMSE     float64
	NaiveRMSE     float64
	SpikeIndex    []int
	Cycle         hologram.Cycle
	Theta         []float64
	HoloMagnitude []float64
}

// DecodeHolographic runs the beam construction, the holographic decode and
// both linear Fourier decoders for the configured cells.
func DecodeHolographic(p *utils.Params) (*HoloOutcome, error) {
	law := p.Law()
	out := &HoloOutcome{TruePos: p.Centers()}
	out.TrueCenter = mean(out.TruePos)
	phases := precession.Radians(law.PreferredPhases(out.TruePos))

	out.Cycle = hologram.NewCycle(p.CycleSamples, p.ThetaHz)
	out.Theta = out.Cycle.Theta()
	ref := hologram.ReferenceBeam(out.Cycle)
	obj, idx := hologram.ObjectBeam(out.Cycle, phases)
	out.SpikeIndex = idx

	holo, err := hologram.Interfere(obj, ref)
	if err != nil {
		return nil, fmt.Errorf("interfere beams: %w", err)
	}
	out.HoloMagnitude = hologram.Magnitude(holo)
	if out.Decoding, err = hologram.Decode(holo, ref, out.Cycle, law); err != nil {
		return nil, fmt.Errorf("decode hologram: %w", err)
	}

	aware, err := fourier.FitHolographic(out.TruePos, phases, p.Harmonics)
	if err != nil {
		return nil, fmt.Errorf("fit precession-aware decoder: %w", err)
	}
	out.Aware = aware.Evaluate(phases)

	flat := make([]float64, len(out.TruePos))
	for i := range flat {
		flat[i] = p.NaivePhaseDeg * math.Pi / 180
	}
	naive, err := fourier.FitHolographic(out.TruePos, flat, p.Harmonics)
	if err != nil {
		return nil, fmt.Errorf("fit naive decoder: %w", err)
	}
	out.Naive = naive.Evaluate(flat)

	if out.AwareRMSE, err = fourier.RMSE(out.TruePos, out.Aware); err != nil {
		return nil, err
	}
	if out.NaiveRMSE, err = fourier.RMSE(out.TruePos, out.Naive); err != nil {
		return nil, err
	}
	return out, nil
}

// Holographic renders the four-panel holographic decoding figure.
func Holographic(opts Options) (*Result, error) {
	params := opts.params()
	log := opts.log()
	res := &Result{Name: "holographic"}
	start := time.Now()

	o, err := DecodeHolographic(params)
	if err != nil {
		return nil, err
	}
	res.Stats.TransformTime = time.Since(start)
	log.Info("decoded hologram", "peak", o.Decoding.Peak, "phase_deg", o.Decoding.PhaseDeg, "position", o.Decoding.Position)

	t0 := time.Now()
	panels, err := holographicPanels(o, params)
	if err != nil {
		return nil, err
	}
	canvas := Grid("Holographic decoding of phase-precessing spikes", panels, 2)
	res.Stats.RenderTime = time.Since(t0)

	t0 = time.Now()
	path := opts.path(HolographicPNG)
	if err := SavePNG(path, canvas.Image()); err != nil {
		return nil, err
	}
	res.Stats.WriteTime = time.Since(t0)
	res.Files = append(res.Files, path)
	utils.PrintSaved(path)

	res.Metrics = []utils.Metric{
		{Name: "True center", Value: o.TrueCenter, Unit: "m", Digits: 3},
		{Name: "Holographic decode", Value: o.Decoding.Position, Unit: "m", Digits: 3},
		{Name: "Linear Fourier (with precession) RMSE", Value: o.AwareRMSE, Unit: "m", Digits: 5},
		{Name: "Linear Fourier (no precession) RMSE", Value: o.NaiveRMSE, Unit: "m", Digits: 5},
	}
	res.Stats.TotalTime = time.Since(start)
	return res, nil
}

func holographicPanels(o *HoloOutcome, p *utils.Params) ([]image.Image, error) {
	ms := make([]float64, o.Cycle.Len())
	floats.ScaleTo(ms, 1000, o.Cycle.Times)
	tx := span{0, 1000 * o.Cycle.Period()}
	panel := func(title, xName, yName string, x, y span) panelSpec {
		return panelSpec{title: title, xName: xName, yName: yName, x: x, y: y, widthIn: 6, heightIn: 4.5, dpi: p.DPI}
	}

	// (A) reference beam with one stem per distinct spike sample
	stems := []chart.Series{line(fmt.Sprintf("Theta (%g Hz)", p.ThetaHz), ms, o.Theta, drawing.ColorBlack, 1.5)}
	seen := make(map[int]bool)
	var sx, sy []float64
	for _, i := range o.SpikeIndex {
		if seen[i] {
			continue
		}
		seen[i] = true
		stems = append(stems, segment(ms[i], 0, ms[i], o.Theta[i], colorRed, 1))
		sx = append(sx, ms[i])
		sy = append(sy, o.Theta[i])
	}
	stems = append(stems, dots(fmt.Sprintf("%d precessing spikes", len(o.SpikeIndex)), sx, sy, colorRed, 4))
	a := withLegend(panel("(A) Theta Reference Beam + Phase-Precessing Spikes", "Time (ms)", "Amplitude", tx, span{-1.1, 1.1}).
		chart(nonEmpty(stems...)))

	// (B) stored interference pattern
	b := panel("(B) Recorded Hologram (Interference Pattern)", "Time (ms)", "|O + R|", tx, extent(o.HoloMagnitude).pad(0.05)).
		chart([]chart.Series{line("", ms, o.HoloMagnitude, colorPurple, 1.5)})

	// (C) in-phase reconstruction with the decoded peak
	d := o.Decoding
	cy := extent(d.InPhase).pad(0.05)
	peak := ms[d.Peak]
	c := withLegend(panel("(C) Holographic Reconstruction", "Time (ms)", "Re(reconstruction)", tx, cy).chart([]chart.Series{
		line("", ms, d.InPhase, colorGreen, 2),
		dashed(fmt.Sprintf("Peak -> %.3f m", d.Position), []float64{peak, peak}, []float64{cy.min, cy.max}, colorGreen, 2),
	}))

	// (D) decoded against true position for the three decoders
	all := extent(o.TruePos, o.Aware, o.Naive, []float64{d.Position})
	dy := all.pad(0.05)
	dx := extent(o.TruePos, []float64{o.TrueCenter}).pad(0.1)
	series := nonEmpty(
		line("True Position", o.TruePos, o.TruePos, drawing.ColorBlack, 3),
		dots("Linear Fourier (knows precession)", o.TruePos, o.Aware, colorBlue, 5),
		dots("Linear Fourier (no precession assumed)", o.TruePos, o.Naive, colorMagenta, 5),
		dots(fmt.Sprintf("Holographic -> %.3f m", d.Position), []float64{o.TrueCenter}, []float64{d.Position}, colorGold, 12),
	)
	dc := panel("Holographic Decoding Succeeds Without Knowing Precession", "True Position (m)", "Decoded Position (m)", dx, dy).chart(series)
	if len(o.TruePos) > 0 {
		withLegend(dc)
	}

	var out []image.Image
	for _, ch := range []*chart.Chart{a, b, c, dc} {
		img, err := rasterize(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs) / float64(len(xs))
}
