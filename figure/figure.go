// Package figure renders the four publication figures: the nested cascade
// layout, the phase-precession raster, the Fourier reconstruction against
// ground truth, and the holographic decoding comparison.
package figure

import (
	"log/slog"
	"path/filepath"

	"holocascade/logging"
	"holocascade/utils"
)

// Output file names.
const (
	CascadePNG     = "Figure_4_Nested_Holographic_Cascade.png"
	CascadePDF     = "Figure_4_Nested_Holographic_Cascade.pdf"
	PrecessionPNG  = "phase_precession.png"
	TrajectoryPNG  = "reconstruction.png"
	TruthPNG       = "reconstruction_truth.png"
	HolographicPNG = "FIGURE_3_FINAL_HOLOGRAPHIC.png"
)

// Options configures a figure run.
type Options struct {
	OutDir string
	Params *utils.Params
	Log    *slog.Logger
}

func (o Options) path(name string) string {
	return filepath.Join(o.OutDir, name)
}

func (o Options) params() *utils.Params {
	if o.Params == nil {
		return utils.DefaultParams()
	}
	return o.Params
}

func (o Options) log() *slog.Logger {
	if o.Log == nil {
		return logging.Discard()
	}
	return o.Log
}

// Result is what a figure run produced.
type Result struct {
	Name    string
	Files   []string
	Metrics []utils.Metric
	Stats   utils.TimingStats
}

// Record converts r into a manifest entry.
func (r *Result) Record() utils.FigureRecord {
	rec := utils.FigureRecord{
		Name:     r.Name,
		Files:    append([]string(nil), r.Files...),
		Metrics:  make(map[string]float64, len(r.Metrics)),
		RenderUS: utils.DurationUS(r.Stats.RenderTime),
	}
	for _, m := range r.Metrics {
		rec.Metrics[m.Name] = m.Value
	}
	return rec
}

// Generator produces one figure.
type Generator func(Options) (*Result, error)

// Entry names a generator.
type Entry struct {
	Name string
	Run  Generator
}

// All lists every generator by command name, in run order.
func All() []Entry {
	return []Entry{
		{"cascade", Cascade},
		{"precession", Precession},
		{"truth", Truth},
		{"holographic", Holographic},
	}
}
