package packager

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeZip creates a zip archive at dir/name holding entries.
func writeZip(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)

	for entry, data := range entries {
		w, err := zw.Create(entry)
		require.NoError(t, err)

		_, err = w.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}
