package hologram

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"holocascade/precession"
)

// Decoding is the result of illuminating a hologram with its reference.
type Decoding struct {
	// Magnitude is |Correlate(hologram, reference)|. With a single-frequency
	// reference it is flat, so the peak is taken from InPhase instead.
	Magnitude []float64
	// InPhase is the real part of the correlation after the reference's
	// own zero-order term has been removed.
	InPhase []float64

	Peak     int
	TimeSec  float64
	PhaseDeg float64
	Position float64
}

// Decode correlates the hologram against the reference in the frequency
// domain, removes the reference self-correlation, locates the in-phase peak
// and maps its time back to a position through law.
func Decode(holo, reference []complex128, c Cycle, law precession.Law) (*Decoding, error) {
	if len(holo) != c.Len() {
		return nil, fmt.Errorf("hologram has %d samples, cycle has %d", len(holo), c.Len())
	}
	corr, err := Correlate(holo, reference)
	if err != nil {
		return nil, fmt.Errorf("correlate hologram: %w", err)
	}
	self, err := Correlate(reference, reference)
	if err != nil {
		return nil, fmt.Errorf("correlate reference: %w", err)
	}

	d := &Decoding{
		Magnitude: Magnitude(corr),
		InPhase:   make([]float64, len(corr)),
	}
	for i := range corr {
		d.InPhase[i] = real(corr[i] - self[i])
	}
	d.Peak = floats.MaxIdx(d.InPhase)
	d.TimeSec = c.Times[d.Peak]
	d.PhaseDeg = c.PhaseDeg(d.Peak)
	d.Position = law.Position(d.PhaseDeg)
	return d, nil
}
