package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holocascade/figure"
	"holocascade/utils"
)

// execute runs the CLI with args and restores the package-level output settings.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, output := utils.Verbose, utils.Output
	t.Cleanup(func() {
		utils.Verbose, utils.Output = verbose, output
	})

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeParams(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSubcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, e := range figure.All() {
		assert.Contains(t, names, e.Name)
		assert.NotEmpty(t, shortHelp[e.Name])
	}
	assert.Contains(t, names, "all")
}

func TestCascadeWithManifest(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "figs")
	manifest := filepath.Join(dir, "run.json")

	stdout, err := execute(t, "cascade", "--out", out, "--manifest", manifest, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Layers: 6")
	assert.Contains(t, stdout, "Saved: "+filepath.Join(out, figure.CascadePNG))
	assert.Contains(t, stdout, "Saved: "+filepath.Join(out, figure.CascadePDF))

	assert.FileExists(t, filepath.Join(out, figure.CascadePNG))
	assert.FileExists(t, filepath.Join(out, figure.CascadePDF))

	m, err := utils.LoadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, utils.ManifestVersion, m.Version)
	assert.Equal(t, int64(7), m.Params.Seed)
	require.Len(t, m.Figures, 1)
	assert.Equal(t, "cascade", m.Figures[0].Name)
	assert.Len(t, m.Figures[0].Files, 2)
}

func TestAllQuiet(t *testing.T) {
	dir := t.TempDir()
	params := writeParams(t, dir, "samples: 200\ncycle_samples: 256\ndpi: 50\n")

	stdout, err := execute(t, "all", "--out", dir, "--params", params, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	for _, name := range []string{
		figure.CascadePNG,
		figure.PrecessionPNG,
		figure.TrajectoryPNG,
		figure.TruthPNG,
		figure.HolographicPNG,
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestHolographicSummary(t *testing.T) {
	dir := t.TempDir()
	params := writeParams(t, dir, "dpi: 50\n")

	stdout, err := execute(t, "holographic", "--out", dir, "--params", params)
	require.NoError(t, err)
	assert.Contains(t, stdout, "True center: 0.500 m")
	assert.Contains(t, stdout, "Holographic decode:")
	assert.Contains(t, stdout, "Saved: "+filepath.Join(dir, figure.HolographicPNG))
}

func TestInvalidParams(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "truth", "--out", dir, "--params", writeParams(t, dir, "speed: 0\n"))
	assert.ErrorContains(t, err, "invalid parameters")

	_, err = execute(t, "truth", "--out", dir, "--params", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "truth", "extra")
	assert.Error(t, err)
}
