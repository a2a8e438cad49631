package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"holocascade/precession"
)

// Params holds the figure-generation parameters shared by all commands.
type Params struct {
	Seed int64 `json:"seed" yaml:"seed"`

	Cells       int     `json:"cells" yaml:"cells"`
	CenterMin   float64 `json:"center_min" yaml:"center_min"`
	CenterMax   float64 `json:"center_max" yaml:"center_max"`
	TrackLength float64 `json:"track_length" yaml:"track_length"`
	Speed       float64 `json:"speed" yaml:"speed"`
	Samples     int     `json:"samples" yaml:"samples"`
	FieldWidth  float64 `json:"field_width" yaml:"field_width"`
	PeakRateHz  float64 `json:"peak_rate_hz" yaml:"peak_rate_hz"`

	ThetaHz      float64 `json:"theta_hz" yaml:"theta_hz"`
	CycleSamples int     `json:"cycle_samples" yaml:"cycle_samples"`
	Harmonics    int     `json:"harmonics" yaml:"harmonics"`

	// Precession law: phase = BaseDeg + SlopeDegPerM * position.
	BaseDeg       float64 `json:"base_deg" yaml:"base_deg"`
	SlopeDegPerM  float64 `json:"slope_deg_per_m" yaml:"slope_deg_per_m"`
	NaivePhaseDeg float64 `json:"naive_phase_deg" yaml:"naive_phase_deg"`

	// DPI scales every rendered figure.
	DPI float64 `json:"dpi" yaml:"dpi"`
}

// DefaultParams returns the parameters used for the published figures.
func DefaultParams() *Params {
	return &Params{
		Seed:          42,
		Cells:         12,
		CenterMin:     0.1,
		CenterMax:     0.9,
		TrackLength:   1.0,
		Speed:         0.3,
		Samples:       1000,
		FieldWidth:    0.15,
		PeakRateHz:    20,
		ThetaHz:       8,
		CycleSamples:  1024,
		Harmonics:     12,
		BaseDeg:       300,
		SlopeDegPerM:  -240,
		NaivePhaseDeg: 180,
		DPI:           150,
	}
}

// LoadParams reads a YAML file over the defaults. An empty path returns the defaults.
func LoadParams(path string) (*Params, error) {
	p := DefaultParams()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}
	return p, nil
}

// ValidateParams validates figure parameters
func ValidateParams(p *Params) error {
	if p.Cells < 0 {
		return fmt.Errorf("cell count must be non-negative")
	}
	if p.TrackLength <= 0 {
		return fmt.Errorf("track length must be positive")
	}
	if p.Speed <= 0 {
		return fmt.Errorf("speed must be positive")
	}
	if p.Samples < 2 {
		return fmt.Errorf("need at least 2 time samples, got %d", p.Samples)
	}
	if p.FieldWidth <= 0 {
		return fmt.Errorf("place-field width must be positive")
	}
	if p.PeakRateHz < 0 {
		return fmt.Errorf("peak firing rate must be non-negative")
	}
	if p.ThetaHz <= 0 {
		return fmt.Errorf("theta frequency must be positive")
	}
	if p.CycleSamples < 1 {
		return fmt.Errorf("cycle samples must be positive")
	}
	if p.Harmonics < 0 {
		return fmt.Errorf("harmonic count must be non-negative")
	}
	if p.SlopeDegPerM == 0 {
		return fmt.Errorf("precession slope must be non-zero")
	}
	if p.DPI <= 0 {
		return fmt.Errorf("dpi must be positive")
	}
	return nil
}

// Track returns the simulated run described by p.
func (p *Params) Track() precession.Track {
	return precession.Track{
		Length:  p.TrackLength,
		Speed:   p.Speed,
		ThetaHz: p.ThetaHz,
		Samples: p.Samples,
	}
}

// Field returns the shared place-field profile.
func (p *Params) Field() precession.Field {
	return precession.Field{Width: p.FieldWidth, PeakHz: p.PeakRateHz}
}

// Law returns the configured precession law.
func (p *Params) Law() precession.Law {
	return precession.Law{BaseDeg: p.BaseDeg, SlopeDegPerM: p.SlopeDegPerM}
}

// Centers returns the evenly spaced place-field centers.
func (p *Params) Centers() []float64 {
	return precession.Span(p.Cells, p.CenterMin, p.CenterMax)
}
