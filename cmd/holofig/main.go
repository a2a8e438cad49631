package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"holocascade/figure"
	"holocascade/logging"
	"holocascade/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "holofig",
		Short: "Render the phase-precession and holographic cascade figures",
		Long: `holofig renders the figures for the nested holographic cascade model:
the cascade layout, simulated phase precession, the Fourier reconstruction
against ground truth, and holographic decoding of precessing spikes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("out", ".", "Output directory")
	rootCmd.PersistentFlags().String("params", "", "YAML file overriding the default parameters")
	rootCmd.PersistentFlags().Int64("seed", 0, "Random seed (overrides params when set)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("manifest", "", "Write a JSON run manifest to this file")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress numeric summaries")

	entries := figure.All()
	for _, e := range entries {
		rootCmd.AddCommand(newFigureCmd(e))
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Render every figure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFigures(cmd, entries)
		},
	})
	return rootCmd
}

var shortHelp = map[string]string{
	"cascade":     "Render the nested holographic cascade layout",
	"precession":  "Simulate place cells and render phase precession",
	"truth":       "Fit the phase-to-position series against ground truth",
	"holographic": "Decode precessing spikes holographically",
}

func newFigureCmd(e figure.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   e.Name,
		Short: shortHelp[e.Name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFigures(cmd, []figure.Entry{e})
		},
	}
}

func runFigures(cmd *cobra.Command, entries []figure.Entry) error {
	outDir, _ := cmd.Flags().GetString("out")
	paramsPath, _ := cmd.Flags().GetString("params")
	level, _ := cmd.Flags().GetString("log-level")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	quiet, _ := cmd.Flags().GetBool("quiet")

	log := logging.NewLogger(level, cmd.ErrOrStderr())
	utils.Verbose = !quiet
	utils.Output = cmd.OutOrStdout()

	params, err := utils.LoadParams(paramsPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		params.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if err := utils.ValidateParams(params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := utils.NewManifest(params)
	opts := figure.Options{OutDir: outDir, Params: params, Log: log}
	for _, e := range entries {
		log.Info("rendering figure", "figure", e.Name, "run_id", manifest.RunID)
		res, err := e.Run(opts)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		utils.PrintMetrics(res.Metrics)
		if log.Enabled(cmd.Context(), slog.LevelDebug) {
			utils.PrintTimingStats(res.Name, &res.Stats)
		}
		manifest.Add(res.Record())
	}

	if manifestPath != "" {
		if err := utils.SaveManifest(manifestPath, manifest); err != nil {
			return err
		}
		log.Info("wrote manifest", "path", manifestPath, "figures", len(manifest.Figures))
	}
	return nil
}
