package edify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScript_PrintAndAppend verifies ordering and the ui_print form.
func TestScript_PrintAndAppend(t *testing.T) {
	t.Parallel()

	s := NewScript()
	require.Empty(t, s.String())

	s.Print("Writing bootloader.img...")
	s.AppendExtra(PackageExtractFile("bootloader.img", "/dev/block/platform/sdhci-tegra.3/by-name/OTA"))

	require.Equal(t, []string{
		`ui_print("Writing bootloader.img...");`,
		`package_extract_file("bootloader.img", "/dev/block/platform/sdhci-tegra.3/by-name/OTA");`,
	}, s.Lines())
	require.Equal(t, 2, s.Len())

	var buf bytes.Buffer

	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	require.Equal(t, s.String(), buf.String())
}

// TestScript_LinesIsCopy ensures callers cannot rewrite accumulated lines.
func TestScript_LinesIsCopy(t *testing.T) {
	t.Parallel()

	s := NewScript()
	s.AppendExtra("a")

	lines := s.Lines()
	lines[0] = "b"

	require.Equal(t, []string{"a"}, s.Lines())
}

// TestConditionalWrite matches the exact digest-checked template.
func TestConditionalWrite(t *testing.T) {
	t.Parallel()

	const partition = "/dev/block/platform/sdhci-tegra.3/by-name/OTA"

	got := ConditionalWrite(partition, 3, "3c01bdbb26f358bab27f267924aa2c9a03fcfdb8", "bootloader.img")

	want := `ifelse((sha1_check(read_file("EMMC:/dev/block/platform/sdhci-tegra.3/by-name/OTA:3:` +
		`3c01bdbb26f358bab27f267924aa2c9a03fcfdb8")) != ""),` +
		`(ui_print("/dev/block/platform/sdhci-tegra.3/by-name/OTA already up to date")),` +
		`(package_extract_file("bootloader.img", "/dev/block/platform/sdhci-tegra.3/by-name/OTA")));`

	require.Equal(t, want, got)
}
