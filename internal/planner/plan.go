package planner

import (
	"fmt"

	"github.com/oshokin/tegra-otatools/internal/archive"
	"github.com/oshokin/tegra-otatools/internal/edify"
)

// Kind tells full plans from incremental ones.
type Kind string

const (
	// KindFull is a plan built from target-files alone.
	KindFull Kind = "full"
	// KindIncremental is a plan built from source and target files.
	KindIncremental Kind = "incremental"
)

// SkipReason explains why a blob produced no instruction.
type SkipReason string

const (
	// SkipAbsentFromSource means the source build has no such blob.
	SkipAbsentFromSource SkipReason = "absent from source_files"
	// SkipAbsentFromTarget means the target build has no such blob.
	SkipAbsentFromTarget SkipReason = "absent from target_files"
	// SkipUnchanged means source and target bytes are identical.
	SkipUnchanged SkipReason = "unchanged"
	// SkipFullOnly means the blob is only installed by full packages.
	SkipFullOnly SkipReason = "full install only"
)

// EmbeddedBlob is a file copied into the OTA package.
type EmbeddedBlob struct {
	// Name is the blob's file name under RADIO/.
	Name string
	// Output is the file name inside the package.
	Output string
	// Partition is where the instruction writes the blob.
	Partition string
	// Data holds the target build's bytes.
	Data []byte
}

// Instruction is the edify text that installs one embedded blob.
type Instruction struct {
	// Blob is the output name of the embedded blob.
	Blob string
	// Progress is shown to the user before the blob is written.
	Progress string
	// Text is the edify instruction.
	Text string
	// Conditional is set for digest-checked instructions.
	Conditional bool
}

// Skip records a blob that was left out of the plan.
type Skip struct {
	Blob   string
	Reason SkipReason
}

// Plan is the result of a planning pass. Blobs[i] is installed by Instructions[i].
type Plan struct {
	Kind         Kind
	Blobs        []EmbeddedBlob
	Instructions []Instruction
	Skipped      []Skip
}

// Empty reports whether the plan installs nothing.
func (p *Plan) Empty() bool {
	return len(p.Blobs) == 0
}

// TotalSize returns the number of bytes embedded by the plan.
func (p *Plan) TotalSize() int64 {
	var total int64
	for _, b := range p.Blobs {
		total += int64(len(b.Data))
	}

	return total
}

// add records an embed and its instruction as a pair.
func (p *Plan) add(blob EmbeddedBlob, instruction Instruction) {
	p.Blobs = append(p.Blobs, blob)
	p.Instructions = append(p.Instructions, instruction)
}

// skip records a skipped blob.
func (p *Plan) skip(name string, reason SkipReason) {
	p.Skipped = append(p.Skipped, Skip{Blob: name, Reason: reason})
}

// Apply writes each blob to out and appends its progress line and
// instruction to script. A blob's lines are appended only after its bytes
// were written.
func (p *Plan) Apply(out archive.Writer, script *edify.Script) error {
	for i, blob := range p.Blobs {
		if err := out.WriteFile(blob.Output, blob.Data); err != nil {
			return fmt.Errorf("embed %s: %w", blob.Output, err)
		}

		instruction := p.Instructions[i]
		script.Print(instruction.Progress)
		script.AppendExtra(instruction.Text)
	}

	return nil
}

// progressLine is the message printed before a blob is flashed.
func progressLine(output string) string {
	return "Writing " + output + "..."
}
