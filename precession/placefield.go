package precession

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"holocascade/tensor"
)

// Track describes a constant-speed run along a linear track.
type Track struct {
	Length  float64 // meters
	Speed   float64 // m/s
	ThetaHz float64
	Samples int
}

// Field is the Gaussian place-field profile shared by all cells.
type Field struct {
	Width  float64 // meters (sigma)
	PeakHz float64
}

// Span returns n evenly spaced values from lo to hi inclusive.
// n == 1 yields [lo]; n <= 0 yields an empty slice.
func Span(n int, lo, hi float64) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Duration is the time needed to traverse the track.
func (tr Track) Duration() float64 {
	return tr.Length / tr.Speed
}

// Times returns the sample grid over the full run.
func (tr Track) Times() []float64 {
	return Span(tr.Samples, 0, tr.Duration())
}

// Positions maps sample times to track positions.
func (tr Track) Positions(times []float64) []float64 {
	out := make([]float64, len(times))
	floats.ScaleTo(out, tr.Speed, times)
	return out
}

// Phases returns the track phase 360*(x/L) mod 360 in degrees.
func (tr Track) Phases(positions []float64) []float64 {
	out := make([]float64, len(positions))
	for i, x := range positions {
		out[i] = Wrap360(360 * x / tr.Length)
	}
	return out
}

// Theta returns sin(2*pi*f*t), the LFP trace.
func (tr Track) Theta(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = math.Sin(2 * math.Pi * tr.ThetaHz * t)
	}
	return out
}

// SampleInterval is the spacing of the time grid, or 0 for fewer than two samples.
func SampleInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return times[1] - times[0]
}

// FiringRates returns a [cells, samples] grid of Gaussian firing rates in Hz.
func FiringRates(centers, positions []float64, f Field) *tensor.Tensor {
	rates := tensor.New(len(centers), len(positions))
	twoVar := 2 * f.Width * f.Width
	for i, c := range centers {
		for j, x := range positions {
			d := x - c
			rates.Set(f.PeakHz*math.Exp(-(d*d)/twoVar), i, j)
		}
	}
	return rates
}

// SampleSpikes draws an independent Bernoulli trial per entry of the
// [cells, samples] grid with probability rate*dt, clamped to [0, 1].
// The result holds 0 or 1.
func SampleSpikes(rates *tensor.Tensor, dt float64, src rand.Source) *tensor.Tensor {
	spikes := tensor.New(rates.Rows(), rates.Cols())
	for i := 0; i < rates.Rows(); i++ {
		for j := 0; j < rates.Cols(); j++ {
			p := rates.At(i, j) * dt
			if p <= 0 {
				continue
			}
			spikes.Set(distuv.Bernoulli{P: math.Min(p, 1), Src: src}.Rand(), i, j)
		}
	}
	return spikes
}

// Select gathers values at the given indices.
func Select(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
