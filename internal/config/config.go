package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/tegra-otatools/internal/planner"
)

// Blob is one entry of a device profile.
type Blob struct {
	// Name is the blob's file name under RADIO/ in target-files.
	Name string `yaml:"name"`
	// Output is the file name inside the OTA package (defaults to Name).
	Output string `yaml:"output,omitempty"`
	// Partition is the by-name block device the blob is written to.
	Partition string `yaml:"partition"`
	// Mode is "unconditional" (default) or "conditional" for full packages.
	Mode string `yaml:"mode,omitempty"`
	// FullOnly excludes the blob from incremental packages.
	FullOnly bool `yaml:"full_only,omitempty"`
}

// Profile is the blob table of one device variant.
type Profile struct {
	// Name identifies the profile.
	Name string `yaml:"name"`
	// Description is a human-readable summary.
	Description string `yaml:"description,omitempty"`
	// Blobs lists the firmware blobs in install order.
	Blobs []Blob `yaml:"blobs"`
}

const (
	// DefaultProfile is used when no profile is selected.
	DefaultProfile = "tegra"

	// DefaultFilePermissions is used for files written by the tools.
	DefaultFilePermissions = 0o644

	// tegraOTAPartition holds the bootloader and firmware bundle.
	tegraOTAPartition = "/dev/block/platform/sdhci-tegra.3/by-name/OTA"
	// tegraVendorPartition holds the vendor image.
	tegraVendorPartition = "/dev/block/platform/sdhci-tegra.3/by-name/VNR"
)

var (
	// errProfileIsNotSet is returned when a nil profile is provided.
	errProfileIsNotSet = errors.New("profile is not set")
	// errProfileNameRequired is returned when a profile has no name.
	errProfileNameRequired = errors.New("profile name must be provided")
	// ErrUnknownProfile is returned for names that match no built-in profile.
	ErrUnknownProfile = errors.New("unknown profile")
)

// builtins returns the compile-time profiles in display order.
func builtins() []*Profile {
	return []*Profile{
		{
			Name:        "tegra",
			Description: "bootloader and vendor images, digest-checked in full packages",
			Blobs: []Blob{
				{Name: "bootloader.img", Partition: tegraOTAPartition, Mode: "conditional"},
				{Name: "vendor.img", Partition: tegraVendorPartition, Mode: "conditional", FullOnly: true},
			},
		},
		{
			Name:        "tegra-unconditional",
			Description: "bootloader and vendor images, always written",
			Blobs: []Blob{
				{Name: "bootloader.img", Partition: tegraOTAPartition},
				{Name: "vendor.img", Partition: tegraVendorPartition},
			},
		},
		{
			Name:        "tegra-firmware",
			Description: "single firmware bundle, always written",
			Blobs: []Blob{
				{Name: "firmware.zip", Partition: tegraOTAPartition},
			},
		},
	}
}

// Builtin returns a copy of the named built-in profile.
func Builtin(name string) (*Profile, error) {
	for _, p := range builtins() {
		if p.Name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownProfile, name, BuiltinNames())
}

// Builtins returns copies of all built-in profiles.
func Builtins() []*Profile {
	return builtins()
}

// BuiltinNames returns the names of the built-in profiles, sorted.
func BuiltinNames() []string {
	profiles := builtins()

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}

	slices.Sort(names)

	return names
}

// Load reads a profile from the YAML file at path and validates it.
func Load(path string) (*Profile, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(contents, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	if err := Validate(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Save writes the profile to path as YAML.
func Save(path string, profile *Profile) error {
	if profile == nil {
		return errProfileIsNotSet
	}

	if err := Validate(profile); err != nil {
		return err
	}

	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	return nil
}

// Validate checks the profile name and that its blobs form a valid planner table.
func Validate(profile *Profile) error {
	if profile == nil {
		return errProfileIsNotSet
	}

	if profile.Name == "" {
		return errProfileNameRequired
	}

	specs, err := profile.BlobSpecs()
	if err != nil {
		return err
	}

	if _, err = planner.New(specs); err != nil {
		return fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	return nil
}

// BlobSpecs converts the profile into the planner's blob table.
func (p *Profile) BlobSpecs() ([]planner.BlobSpec, error) {
	specs := make([]planner.BlobSpec, 0, len(p.Blobs))

	for _, b := range p.Blobs {
		mode, err := planner.ParseMode(b.Mode)
		if err != nil {
			return nil, fmt.Errorf("profile %s, blob %s: %w", p.Name, b.Name, err)
		}

		specs = append(specs, planner.BlobSpec{
			Name:            b.Name,
			Output:          b.Output,
			Partition:       b.Partition,
			Mode:            mode,
			SkipIncremental: b.FullOnly,
		})
	}

	return specs, nil
}

// Planner builds a planner for the profile.
func (p *Profile) Planner() (*planner.Planner, error) {
	specs, err := p.BlobSpecs()
	if err != nil {
		return nil, err
	}

	return planner.New(specs)
}
