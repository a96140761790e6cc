package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tegra-otatools/internal/archive"
)

// TestDigest is deterministic and 40 hex characters long.
func TestDigest(t *testing.T) {
	t.Parallel()

	first := Digest([]byte("ABC"))
	require.Equal(t, first, Digest([]byte("ABC")))
	require.Len(t, first, 40)
	require.Equal(t, "3c01bdbb26f358bab27f267924aa2c9a03fcfdb8", first)
	require.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", Digest(nil))
}

// TestMakeConditionalInstallScript matches the template byte for byte.
func TestMakeConditionalInstallScript(t *testing.T) {
	t.Parallel()

	target := archive.NewMemoryArchive(map[string][]byte{"RADIO/bootloader.img": []byte("ABC")})

	got, err := MakeConditionalInstallScript(target, otaPartition, "bootloader.img")
	require.NoError(t, err)

	want := `ifelse((sha1_check(read_file("EMMC:` + otaPartition + `:3:3c01bdbb26f358bab27f267924aa2c9a03fcfdb8")) != ""),` +
		`(ui_print("` + otaPartition + ` already up to date")),` +
		`(package_extract_file("bootloader.img", "` + otaPartition + `")));`
	require.Equal(t, want, got)
}

// TestMakeConditionalInstallScript_Missing fails with ErrMissingEntry and returns no text.
func TestMakeConditionalInstallScript_Missing(t *testing.T) {
	t.Parallel()

	got, err := MakeConditionalInstallScript(archive.NewMemoryArchive(nil), otaPartition, "bootloader.img")
	require.ErrorIs(t, err, archive.ErrMissingEntry)
	require.Empty(t, got)
}

// TestMakeConditionalInstallScript_ReadError passes archive failures through.
func TestMakeConditionalInstallScript_ReadError(t *testing.T) {
	t.Parallel()

	_, err := MakeConditionalInstallScript(brokenArchive{}, otaPartition, "bootloader.img")
	require.ErrorIs(t, err, errBrokenArchive)
	require.NotErrorIs(t, err, archive.ErrMissingEntry)
}
