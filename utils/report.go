package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether summaries and timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where summaries are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// Metric is one named numeric result of a figure run.
type Metric struct {
	Name   string
	Value  float64
	Unit   string
	Digits int
}

// TimingStats holds timing information for one figure
type TimingStats struct {
	TotalTime     time.Duration
	SynthesisTime time.Duration
	TransformTime time.Duration
	RenderTime    time.Duration
	WriteTime     time.Duration
}

// PrintMetrics prints one line per metric, e.g. "True center: 0.500 m".
// Respects the Verbose flag.
func PrintMetrics(metrics []Metric) {
	if !Verbose {
		return
	}
	for _, m := range metrics {
		line := fmt.Sprintf("%s: %.*f", m.Name, m.Digits, m.Value)
		if m.Unit != "" {
			line += " " + m.Unit
		}
		fmt.Fprintln(Output, line)
	}
}

// PrintSaved reports a written file.
func PrintSaved(path string) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, "Saved: %s\n", path)
}

// PrintTimingStats prints the per-stage breakdown for a figure.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(name string, stats *TimingStats) {
	if !Verbose {
		return
	}
	pct := func(d time.Duration) float64 {
		if stats.TotalTime == 0 {
			return 0
		}
		return float64(d) / float64(stats.TotalTime) * 100
	}
	fmt.Fprintf(Output, "\n=== TIMING: %s ===\n", name)
	fmt.Fprintf(Output, "Total: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "  Synthesis: %v (%.1f%%)\n", stats.SynthesisTime, pct(stats.SynthesisTime))
	fmt.Fprintf(Output, "  Transform: %v (%.1f%%)\n", stats.TransformTime, pct(stats.TransformTime))
	fmt.Fprintf(Output, "  Render: %v (%.1f%%)\n", stats.RenderTime, pct(stats.RenderTime))
	fmt.Fprintf(Output, "  Write: %v (%.1f%%)\n", stats.WriteTime, pct(stats.WriteTime))
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
