package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = "1.0"

// FigureRecord describes one generated figure
type FigureRecord struct {
	Name     string             `json:"name"`
	Files    []string           `json:"files"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	RenderUS float64            `json:"render_us"`
}

// Manifest records what a run produced and with which parameters
type Manifest struct {
	Version string         `json:"version"`
	RunID   string         `json:"run_id"`
	Created time.Time      `json:"created"`
	Params  *Params        `json:"params"`
	Figures []FigureRecord `json:"figures"`
}

// NewManifest starts a manifest for a run with a fresh run id.
func NewManifest(p *Params) *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Params:  p,
	}
}

// Add appends a figure record.
func (m *Manifest) Add(rec FigureRecord) {
	m.Figures = append(m.Figures, rec)
}

// SaveManifest saves the manifest to a JSON file
func SaveManifest(filepath string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadManifest loads a manifest from a JSON file
func LoadManifest(filepath string) (*Manifest, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, fmt.Errorf("manifest has invalid run id %q: %w", m.RunID, err)
	}
	return &m, nil
}
