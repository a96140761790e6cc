package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrOutputLocked is returned when another build holds the output package lock.
var ErrOutputLocked = errors.New("output package is locked by another build")

// DuplicateEntryError is returned when a file is written twice to the same package.
type DuplicateEntryError struct {
	// Name is the entry that already exists.
	Name string
}

// Error implements error.
func (e *DuplicateEntryError) Error() string {
	return "duplicate package entry: " + e.Name
}

// ZipReader is a read-only Reader over a zip archive.
type ZipReader struct {
	// files indexes archive members by name.
	files map[string]*zip.File
	// closer releases the underlying file, nil for in-memory readers.
	closer io.Closer
}

// OpenZip opens the zip archive at path.
func OpenZip(path string) (*ZipReader, error) {
	rc, err := zip.OpenReader(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	r := newZipReader(&rc.Reader)
	r.closer = rc

	return r, nil
}

// NewZipReader wraps an already opened zip payload of the given size.
func NewZipReader(ra io.ReaderAt, size int64) (*ZipReader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	return newZipReader(zr), nil
}

func newZipReader(zr *zip.Reader) *ZipReader {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	return &ZipReader{files: files}
}

// Lookup implements Reader.
func (r *ZipReader) Lookup(name string) ([]byte, bool, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("open entry %s: %w", name, err)
	}

	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("read entry %s: %w", name, err)
	}

	return data, true, nil
}

// Size implements Reader.
func (r *ZipReader) Size(name string) (int64, bool, error) {
	f, ok := r.files[name]
	if !ok {
		return 0, false, nil
	}

	return int64(f.UncompressedSize64), true, nil
}

// Close releases the underlying file.
func (r *ZipReader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}

	return r.closer.Close()
}

// ZipWriter writes the output package. The package path is locked for the
// lifetime of the writer.
type ZipWriter struct {
	file    *os.File
	zw      *zip.Writer
	lock    *flock.Flock
	written map[string]struct{}
}

// CreateZip creates (or truncates) the zip archive at path.
func CreateZip(path string) (*ZipWriter, error) {
	path = filepath.Clean(path)
	lock := flock.New(path + ".lock")

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrOutputLocked)
	}

	file, err := os.Create(path)
	if err != nil {
		_ = lock.Unlock()

		return nil, fmt.Errorf("create package: %w", err)
	}

	return &ZipWriter{
		file:    file,
		zw:      zip.NewWriter(file),
		lock:    lock,
		written: make(map[string]struct{}),
	}, nil
}

// WriteFile implements Writer.
func (w *ZipWriter) WriteFile(name string, data []byte) error {
	if _, ok := w.written[name]; ok {
		return &DuplicateEntryError{Name: name}
	}

	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}

	if _, err = fw.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}

	w.written[name] = struct{}{}

	return nil
}

// Close finalises the archive and releases the lock.
func (w *ZipWriter) Close() error {
	err := w.zw.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}

	if uerr := w.lock.Unlock(); err == nil {
		err = uerr
	}

	if err != nil {
		return fmt.Errorf("close package: %w", err)
	}

	return nil
}
