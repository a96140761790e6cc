package packager

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/tegra-otatools/internal/config"
	"github.com/oshokin/tegra-otatools/internal/planner"
	"github.com/oshokin/tegra-otatools/internal/version"
)

// Manifest describes the firmware content of a generated package.
type Manifest struct {
	// ToolVersion is the version of the tool that produced the package.
	ToolVersion string `yaml:"tool_version"`
	// Kind is "full" or "incremental".
	Kind string `yaml:"kind"`
	// Profile is the device profile name.
	Profile string `yaml:"profile"`
	// Blobs lists embedded blobs in install order.
	Blobs []ManifestBlob `yaml:"blobs"`
	// Skipped lists blobs left out and why.
	Skipped []ManifestSkip `yaml:"skipped,omitempty"`
}

// ManifestBlob is one embedded blob.
type ManifestBlob struct {
	File        string `yaml:"file"`
	Partition   string `yaml:"partition"`
	Size        int64  `yaml:"size"`
	SHA1        string `yaml:"sha1"`
	Conditional bool   `yaml:"conditional,omitempty"`
}

// ManifestSkip is one skipped blob.
type ManifestSkip struct {
	Blob   string `yaml:"blob"`
	Reason string `yaml:"reason"`
}

// NewManifest summarises plan.
func NewManifest(profile string, plan *planner.Plan) *Manifest {
	m := &Manifest{
		ToolVersion: version.Short(),
		Kind:        string(plan.Kind),
		Profile:     profile,
		Blobs:       make([]ManifestBlob, 0, len(plan.Blobs)),
	}

	for i, b := range plan.Blobs {
		m.Blobs = append(m.Blobs, ManifestBlob{
			File:        b.Output,
			Partition:   b.Partition,
			Size:        int64(len(b.Data)),
			SHA1:        planner.Digest(b.Data),
			Conditional: plan.Instructions[i].Conditional,
		})
	}

	for _, s := range plan.Skipped {
		m.Skipped = append(m.Skipped, ManifestSkip{Blob: s.Blob, Reason: string(s.Reason)})
	}

	return m
}

// SaveManifest writes m to path as YAML.
func SaveManifest(path string, m *Manifest) error {
	contents, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), contents, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// LoadManifest reads a manifest written by SaveManifest.
func LoadManifest(path string) (*Manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err = yaml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}
