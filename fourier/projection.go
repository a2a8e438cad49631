// Package fourier fits truncated Fourier series that map theta phase to track
// position, and measures how well they reconstruct the true positions.
//
// Two projections are provided and are deliberately kept apart:
// FitTruth normalizes each coefficient by the empirical energy of its basis
// function, FitHolographic applies a fixed 2/N factor.
package fourier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// normEps is the basis energy below which a coefficient is defined as zero.
const normEps = 1e-12

// Coefficients is a cosine/sine series a0 + sum_k A[k-1] cos(k phi) + B[k-1] sin(k phi).
type Coefficients struct {
	A0 float64
	A  []float64
	B  []float64
}

// Harmonics returns the number of harmonics K.
func (c Coefficients) Harmonics() int {
	return len(c.A)
}

func (c Coefficients) vector() *mat.VecDense {
	k := c.Harmonics()
	v := mat.NewVecDense(2*k+1, nil)
	v.SetVec(0, c.A0)
	for i := 0; i < k; i++ {
		v.SetVec(1+2*i, c.A[i])
		v.SetVec(2+2*i, c.B[i])
	}
	return v
}

// Evaluate returns the series value at each phase (radians).
func (c Coefficients) Evaluate(phase []float64) []float64 {
	out := make([]float64, len(phase))
	if len(phase) == 0 {
		return out
	}
	var v mat.VecDense
	v.MulVec(basis(phase, c.Harmonics()), c.vector())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// basis builds the N x (2K+1) design matrix [1, cos phi, sin phi, ..., cos K phi, sin K phi].
func basis(phase []float64, k int) *mat.Dense {
	b := mat.NewDense(len(phase), 2*k+1, nil)
	for i, p := range phase {
		b.Set(i, 0, 1)
		for h := 1; h <= k; h++ {
			b.Set(i, 2*h-1, math.Cos(float64(h)*p))
			b.Set(i, 2*h, math.Sin(float64(h)*p))
		}
	}
	return b
}

// project returns B^T x along with the design matrix.
func project(pos, phase []float64, k int) (*mat.VecDense, *mat.Dense) {
	b := basis(phase, k)
	var proj mat.VecDense
	proj.MulVec(b.T(), mat.NewVecDense(len(pos), pos))
	return &proj, b
}

func checkInputs(pos, phase []float64, k int) error {
	if len(pos) != len(phase) {
		return fmt.Errorf("positions and phases differ in length: %d vs %d", len(pos), len(phase))
	}
	if k < 0 {
		return fmt.Errorf("harmonic count must be non-negative, got %d", k)
	}
	return nil
}

func zero(k int) Coefficients {
	return Coefficients{A: make([]float64, k), B: make([]float64, k)}
}

// FitTruth projects positions onto each basis function and divides by that
// function's energy over the samples. On a uniform phase grid this is exact
// for any series of degree K < N/2.
func FitTruth(pos, phase []float64, k int) (Coefficients, error) {
	if err := checkInputs(pos, phase, k); err != nil {
		return Coefficients{}, err
	}
	c := zero(k)
	if len(pos) == 0 {
		return c, nil
	}
	proj, b := project(pos, phase, k)
	c.A0 = stat.Mean(pos, nil)
	col := make([]float64, len(pos))
	for h := 1; h <= k; h++ {
		mat.Col(col, 2*h-1, b)
		if e := floats.Dot(col, col); e > normEps {
			c.A[h-1] = proj.AtVec(2*h-1) / e
		}
		mat.Col(col, 2*h, b)
		if e := floats.Dot(col, col); e > normEps {
			c.B[h-1] = proj.AtVec(2*h) / e
		}
	}
	return c, nil
}

// FitHolographic uses the fixed 2/N projection, A_k = 2/N sum(x cos k phi).
func FitHolographic(pos, phase []float64, k int) (Coefficients, error) {
	if err := checkInputs(pos, phase, k); err != nil {
		return Coefficients{}, err
	}
	c := zero(k)
	if len(pos) == 0 {
		return c, nil
	}
	proj, _ := project(pos, phase, k)
	c.A0 = stat.Mean(pos, nil)
	scale := 2 / float64(len(pos))
	for h := 1; h <= k; h++ {
		c.A[h-1] = scale * proj.AtVec(2*h-1)
		c.B[h-1] = scale * proj.AtVec(2*h)
	}
	return c, nil
}

// MSE is the mean squared error between truth and est. Empty inputs give 0.
func MSE(truth, est []float64) (float64, error) {
	if len(truth) != len(est) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(truth), len(est))
	}
	if len(truth) == 0 {
		return 0, nil
	}
	d := floats.Distance(truth, est, 2)
	return d * d / float64(len(truth)), nil
}

// RMSE is the square root of MSE.
func RMSE(truth, est []float64) (float64, error) {
	m, err := MSE(truth, est)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(m), nil
}
