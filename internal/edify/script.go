package edify

import (
	"fmt"
	"io"
	"strings"
)

// Script is an ordered list of edify lines.
type Script struct {
	lines []string
}

// NewScript returns an empty script.
func NewScript() *Script {
	return &Script{}
}

// Print appends a ui_print line shown to the user during install.
func (s *Script) Print(message string) {
	s.lines = append(s.lines, fmt.Sprintf(`ui_print("%s");`, message))
}

// AppendExtra appends a raw instruction line.
func (s *Script) AppendExtra(line string) {
	s.lines = append(s.lines, line)
}

// Lines returns a copy of the accumulated lines.
func (s *Script) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Len returns the number of accumulated lines.
func (s *Script) Len() int {
	return len(s.lines)
}

// String renders the script with one instruction per line.
func (s *Script) String() string {
	if len(s.lines) == 0 {
		return ""
	}

	return strings.Join(s.lines, "\n") + "\n"
}

// WriteTo implements io.WriterTo.
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	if err != nil {
		return int64(n), fmt.Errorf("write script: %w", err)
	}

	return int64(n), nil
}

// PackageExtractFile writes fileName from the package to partition unconditionally.
func PackageExtractFile(fileName, partition string) string {
	return fmt.Sprintf(`package_extract_file("%s", "%s");`, fileName, partition)
}

// ConditionalWrite writes fileName to partition only when the first size
// bytes of the partition do not already hash to hexDigest.
func ConditionalWrite(partition string, size int64, hexDigest, fileName string) string {
	return fmt.Sprintf(
		`ifelse((sha1_check(read_file("EMMC:%s:%d:%s")) != ""),`+
			`(ui_print("%s already up to date")),`+
			`(package_extract_file("%s", "%s")));`,
		partition, size, hexDigest, partition, fileName, partition,
	)
}
