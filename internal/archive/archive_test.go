package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRadioPath checks the fixed namespace prefix.
func TestRadioPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "RADIO/bootloader.img", RadioPath("bootloader.img"))
	require.Equal(t, "RADIO/firmware.zip", RadioPath("./firmware.zip"))
}

// TestRequire_Missing verifies Require reports a MissingEntryError matching ErrMissingEntry.
func TestRequire_Missing(t *testing.T) {
	t.Parallel()

	r := NewMemoryArchive(nil)

	data, err := Require(r, "RADIO/bootloader.img")
	require.Nil(t, data)
	require.ErrorIs(t, err, ErrMissingEntry)

	var missing *MissingEntryError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "RADIO/bootloader.img", missing.Name)
}

// TestMemoryArchive_LookupCopies ensures callers cannot mutate stored entries.
func TestMemoryArchive_LookupCopies(t *testing.T) {
	t.Parallel()

	r := NewMemoryArchive(map[string][]byte{"a": []byte("ABC")})

	data, ok, err := r.Lookup("a")
	require.NoError(t, err)
	require.True(t, ok)

	data[0] = 'X'

	again, _, _ := r.Lookup("a")
	require.Equal(t, []byte("ABC"), again)

	size, ok, err := r.Size("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 3, size)

	_, ok, err = r.Lookup("b")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestMemoryArchive_WriteFileRejectsDuplicates checks duplicate detection.
func TestMemoryArchive_WriteFileRejectsDuplicates(t *testing.T) {
	t.Parallel()

	w := NewMemoryArchive(nil)
	require.NoError(t, w.WriteFile("bootloader.img", []byte("x")))

	var dup *DuplicateEntryError
	require.ErrorAs(t, w.WriteFile("bootloader.img", []byte("y")), &dup)
	require.Equal(t, 1, w.Len())
}

// TestZipRoundtrip writes a package with ZipWriter and reads it back with OpenZip.
func TestZipRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.zip")

	w, err := CreateZip(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteFile("RADIO/bootloader.img", []byte("ABC")))

	var dup *DuplicateEntryError
	require.ErrorAs(t, w.WriteFile("RADIO/bootloader.img", nil), &dup)
	require.NoError(t, w.Close())

	r, err := OpenZip(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, r.Close())
	})

	data, ok, err := r.Lookup("RADIO/bootloader.img")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("ABC"), data)

	size, ok, err := r.Size("RADIO/bootloader.img")
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 3, size)

	_, ok, err = r.Lookup("RADIO/vendor.img")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestCreateZip_Locked verifies a second writer on the same path is refused.
func TestCreateZip_Locked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.zip")

	first, err := CreateZip(path)
	require.NoError(t, err)

	_, err = CreateZip(path)
	require.ErrorIs(t, err, ErrOutputLocked)

	require.NoError(t, first.Close())

	second, err := CreateZip(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

// TestNewZipReader_InMemory reads an archive built in memory.
func TestNewZipReader_InMemory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("RADIO/vendor.img")
	require.NoError(t, err)
	_, err = fw.Write([]byte("XYZ"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := NewZipReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := Require(r, "RADIO/vendor.img")
	require.NoError(t, err)
	require.Equal(t, []byte("XYZ"), data)
}

// TestNewZipReader_Corrupt checks that a malformed archive surfaces an error.
func TestNewZipReader_Corrupt(t *testing.T) {
	t.Parallel()

	payload := []byte("not a zip")

	_, err := NewZipReader(bytes.NewReader(payload), int64(len(payload)))
	require.Error(t, err)
}
