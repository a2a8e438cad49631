// Package hologram builds the reference and object beams for one theta cycle,
// superposes them into a hologram, and decodes the stored phase by
// frequency-domain correlation against the reference.
package hologram

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"holocascade/precession"
)

// ErrEmptySignal is returned when a beam has no samples.
var ErrEmptySignal = errors.New("hologram: empty signal")

// Cycle is an endpoint-exclusive sample grid over one theta period.
type Cycle struct {
	Times []float64
	Hz    float64
}

// NewCycle samples one period of an hz oscillation at fs points.
func NewCycle(fs int, hz float64) Cycle {
	if fs < 0 {
		fs = 0
	}
	c := Cycle{Times: make([]float64, fs), Hz: hz}
	for i := range c.Times {
		c.Times[i] = float64(i) / (float64(fs) * hz)
	}
	return c
}

// Len returns the number of samples.
func (c Cycle) Len() int {
	return len(c.Times)
}

// Period is the duration of the cycle in seconds.
func (c Cycle) Period() float64 {
	return 1 / c.Hz
}

// Index returns the sample nearest the time at which the (wrapped) phase
// occurs. Ties resolve to the earlier sample.
func (c Cycle) Index(phaseRad float64) int {
	n := c.Len()
	if n == 0 {
		return -1
	}
	target := precession.WrapTwoPi(phaseRad) / (2 * math.Pi * c.Hz)
	dt := c.Period() / float64(n)
	idx := int(math.Ceil(target/dt - 0.5))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// PhaseDeg maps a sample index to its phase in degrees within the cycle.
func (c Cycle) PhaseDeg(idx int) float64 {
	return precession.Wrap360(c.Times[idx] * c.Hz * 360)
}

// Theta is the real-valued LFP cos(2*pi*f*t) used for plotting.
func (c Cycle) Theta() []float64 {
	out := make([]float64, c.Len())
	for i, t := range c.Times {
		out[i] = math.Cos(2 * math.Pi * c.Hz * t)
	}
	return out
}

// ReferenceBeam is the unit-magnitude carrier exp(i*2*pi*f*t).
func ReferenceBeam(c Cycle) []complex128 {
	out := make([]complex128, c.Len())
	for i, t := range c.Times {
		out[i] = cmplx.Exp(complex(0, 2*math.Pi*c.Hz*t))
	}
	return out
}

// ObjectBeam places a unit impulse at the sample nearest each phase (radians).
// Coinciding phases accumulate. It also returns the impulse indices in input order.
func ObjectBeam(c Cycle, phasesRad []float64) ([]complex128, []int) {
	out := make([]complex128, c.Len())
	idx := make([]int, 0, len(phasesRad))
	if c.Len() == 0 {
		return out, idx
	}
	for _, p := range phasesRad {
		i := c.Index(p)
		out[i] += 1
		idx = append(idx, i)
	}
	return out, idx
}

// Interfere superposes object and reference into the stored hologram.
func Interfere(object, reference []complex128) ([]complex128, error) {
	if len(object) != len(reference) {
		return nil, fmt.Errorf("beam length mismatch: object %d, reference %d", len(object), len(reference))
	}
	out := make([]complex128, len(object))
	for i := range out {
		out[i] = object[i] + reference[i]
	}
	return out, nil
}

// Correlate returns IFFT(FFT(signal) * conj(FFT(reference))).
func Correlate(signal, reference []complex128) ([]complex128, error) {
	if len(signal) != len(reference) {
		return nil, fmt.Errorf("correlate length mismatch: %d vs %d", len(signal), len(reference))
	}
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	s := fft.FFT(signal)
	r := fft.FFT(reference)
	for i := range s {
		s[i] *= cmplx.Conj(r[i])
	}
	return fft.IFFT(s), nil
}

// Magnitude returns |x| element-wise.
func Magnitude(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}
