// Package precession models place-cell firing along a linear track and the
// linear phase-precession law that maps position to theta phase.
package precession

import "math"

// Law is a linear precession law: phase = BaseDeg + SlopeDegPerM * position.
// Phases are in degrees and are not wrapped.
type Law struct {
	BaseDeg      float64
	SlopeDegPerM float64
}

// DefaultLaw is the classic 300 deg onset with a -240 deg/m slope.
func DefaultLaw() Law {
	return Law{BaseDeg: 300, SlopeDegPerM: -240}
}

// Phase returns the preferred phase in degrees for position x (meters).
func (l Law) Phase(x float64) float64 {
	return l.BaseDeg + l.SlopeDegPerM*x
}

// Position inverts Phase. A zero slope yields ±Inf or NaN.
func (l Law) Position(phaseDeg float64) float64 {
	return (phaseDeg - l.BaseDeg) / l.SlopeDegPerM
}

// PreferredPhases maps each position to its phase in degrees.
func (l Law) PreferredPhases(positions []float64) []float64 {
	out := make([]float64, len(positions))
	for i, x := range positions {
		out[i] = l.Phase(x)
	}
	return out
}

// Radians converts degrees to radians element-wise.
func Radians(deg []float64) []float64 {
	out := make([]float64, len(deg))
	for i, d := range deg {
		out[i] = d * math.Pi / 180
	}
	return out
}

// Wrap360 wraps a phase in degrees into [0, 360).
func Wrap360(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	return w
}

// WrapTwoPi wraps a phase in radians into [0, 2*pi).
func WrapTwoPi(rad float64) float64 {
	w := math.Mod(rad, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w
}
