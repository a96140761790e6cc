package planner

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the instruction form used for a blob in full plans.
type Mode int

const (
	// ModeUnconditional always extracts the blob to its partition.
	ModeUnconditional Mode = iota
	// ModeConditional extracts the blob only when the partition's SHA-1 differs.
	ModeConditional
)

const (
	modeUnconditionalName = "unconditional"
	modeConditionalName   = "conditional"
)

var (
	errUnknownMode      = errors.New("unknown install mode")
	errNoBlobs          = errors.New("no blobs configured")
	errEmptyBlobName    = errors.New("blob name is empty")
	errEmptyPartition   = errors.New("partition is empty")
	errDuplicateOutput  = errors.New("duplicate output name")
	errNestedOutputName = errors.New("output name must not contain a directory")
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeUnconditional:
		return modeUnconditionalName
	case ModeConditional:
		return modeConditionalName
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration value to a Mode. Empty means unconditional.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", modeUnconditionalName:
		return ModeUnconditional, nil
	case modeConditionalName:
		return ModeConditional, nil
	default:
		return ModeUnconditional, fmt.Errorf("%w: %q", errUnknownMode, s)
	}
}

// BlobSpec describes one firmware blob and where it is flashed.
type BlobSpec struct {
	// Name is the blob's file name under RADIO/ in target-files.
	Name string
	// Output is the file name inside the OTA package; defaults to Name.
	Output string
	// Partition is the by-name block device the blob is written to.
	Partition string
	// Mode is the instruction form used in full plans.
	// Incremental plans always write unconditionally.
	Mode Mode
	// SkipIncremental excludes the blob from incremental plans.
	SkipIncremental bool
}

// output returns the package file name for the blob.
func (s *BlobSpec) output() string {
	if s.Output == "" {
		return s.Name
	}

	return s.Output
}

// validate checks a single spec.
func (s *BlobSpec) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errEmptyBlobName
	}

	if strings.TrimSpace(s.Partition) == "" {
		return fmt.Errorf("%s: %w", s.Name, errEmptyPartition)
	}

	if strings.ContainsAny(s.output(), `/\`) {
		return fmt.Errorf("%s: %w", s.output(), errNestedOutputName)
	}

	if s.Mode != ModeUnconditional && s.Mode != ModeConditional {
		return fmt.Errorf("%s: %w: %d", s.Name, errUnknownMode, int(s.Mode))
	}

	return nil
}
