package planner

import (
	"crypto/sha1" //nolint:gosec // The on-device updater only offers sha1_check.
	"encoding/hex"

	"github.com/oshokin/tegra-otatools/internal/archive"
	"github.com/oshokin/tegra-otatools/internal/edify"
)

// Digest returns the lowercase hex SHA-1 of data.
func Digest(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // See import.

	return hex.EncodeToString(sum[:])
}

// MakeConditionalInstallScript returns an instruction that writes the
// RADIO/ blob fileName to partition unless the partition already holds
// identical bytes. It fails with archive.ErrMissingEntry when the blob is
// absent from target.
func MakeConditionalInstallScript(target archive.Reader, partition, fileName string) (string, error) {
	data, err := archive.Require(target, archive.RadioPath(fileName))
	if err != nil {
		return "", err
	}

	return conditionalInstruction(data, partition, fileName), nil
}

func conditionalInstruction(data []byte, partition, output string) string {
	return edify.ConditionalWrite(partition, int64(len(data)), Digest(data), output)
}
