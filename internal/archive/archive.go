package archive

import (
	"errors"
	"fmt"
	"path"
)

// RadioPrefix is the namespace under which firmware blobs live in target-files.
const RadioPrefix = "RADIO/"

// ErrMissingEntry is returned when a required entry is absent from an archive.
var ErrMissingEntry = errors.New("missing archive entry")

// MissingEntryError names the entry that was required but absent.
type MissingEntryError struct {
	// Name is the archive-relative path of the absent entry.
	Name string
}

// Error implements error.
func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingEntry, e.Name)
}

// Is reports whether target is ErrMissingEntry.
func (e *MissingEntryError) Is(target error) bool {
	return target == ErrMissingEntry
}

// Reader is a read-only view over a named collection of byte blobs.
type Reader interface {
	// Lookup returns the entry's bytes and true when present,
	// or nil and false when the archive has no such entry.
	Lookup(name string) ([]byte, bool, error)
	// Size returns the uncompressed size of the entry when present.
	Size(name string) (int64, bool, error)
}

// Writer receives files for the output package.
type Writer interface {
	WriteFile(name string, data []byte) error
}

// RadioPath returns the archive path of a firmware blob.
func RadioPath(name string) string {
	return RadioPrefix + path.Clean(name)
}

// Require reads name from r and fails with a *MissingEntryError when absent.
func Require(r Reader, name string) ([]byte, error) {
	data, ok, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, &MissingEntryError{Name: name}
	}

	return data, nil
}
