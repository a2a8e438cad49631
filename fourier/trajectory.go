package fourier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Harmonic is an (amplitude, phase) pair; phase in radians.
type Harmonic struct {
	Amplitude float64
	Phase     float64
}

// ApproxHarmonics returns the 1/k amplitude ladder with phases
// -2*pi*k*(center/track) taken from the first place-field center.
func ApproxHarmonics(center, track float64, k int) []Harmonic {
	hs := make([]Harmonic, k)
	for i := range hs {
		n := float64(i + 1)
		hs[i] = Harmonic{Amplitude: 1 / n, Phase: -2 * math.Pi * n * (center / track)}
	}
	return hs
}

// Synthesize sums A_k cos(omega*t + phi_k) at each time. Every harmonic
// shares the carrier omega.
func Synthesize(times []float64, omega float64, hs []Harmonic) []float64 {
	out := make([]float64, len(times))
	for _, h := range hs {
		for i, t := range times {
			out[i] += h.Amplitude * math.Cos(omega*t+h.Phase)
		}
	}
	return out
}

// Normalize rescales values in place so the largest magnitude equals scale.
// An all-zero (or empty) input is left untouched.
func Normalize(values []float64, scale float64) []float64 {
	if len(values) == 0 {
		return values
	}
	peak := math.Max(math.Abs(floats.Max(values)), math.Abs(floats.Min(values)))
	if peak == 0 {
		return values
	}
	floats.Scale(scale/peak, values)
	return values
}

// ApproxTrajectory reconstructs a trajectory from the approximate phase
// coefficients of the first center, normalized to the track length.
func ApproxTrajectory(times []float64, center, track, thetaHz float64, k int) []float64 {
	omega := 2 * math.Pi * thetaHz
	return Normalize(Synthesize(times, omega, ApproxHarmonics(center, track, k)), track)
}
