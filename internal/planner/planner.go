package planner

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/tegra-otatools/internal/archive"
	"github.com/oshokin/tegra-otatools/internal/edify"
	"github.com/oshokin/tegra-otatools/internal/logger"
)

// Planner builds install plans for a fixed blob table.
type Planner struct {
	specs []BlobSpec
}

// New validates blobs and returns a Planner for them.
func New(blobs []BlobSpec) (*Planner, error) {
	if len(blobs) == 0 {
		return nil, errNoBlobs
	}

	outputs := make(map[string]struct{}, len(blobs))

	for i := range blobs {
		if err := blobs[i].validate(); err != nil {
			return nil, err
		}

		out := blobs[i].output()
		if _, ok := outputs[out]; ok {
			return nil, fmt.Errorf("%s: %w", out, errDuplicateOutput)
		}

		outputs[out] = struct{}{}
	}

	return &Planner{
		specs: append([]BlobSpec(nil), blobs...),
	}, nil
}

// Specs returns a copy of the blob table.
func (p *Planner) Specs() []BlobSpec {
	return append([]BlobSpec(nil), p.specs...)
}

// PlanFull embeds every configured blob present in target.
func (p *Planner) PlanFull(ctx context.Context, target archive.Reader) (*Plan, error) {
	ctx = logger.WithName(ctx, "planner")
	plan := &Plan{Kind: KindFull}

	for i := range p.specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec := &p.specs[i]

		data, ok, err := target.Lookup(archive.RadioPath(spec.Name))
		if err != nil {
			return nil, fmt.Errorf("read %s from target_files: %w", spec.Name, err)
		}

		if !ok {
			logger.Infof(ctx, "no %s in target_files; skipping install", spec.Name)
			plan.skip(spec.Name, SkipAbsentFromTarget)

			continue
		}

		instruction := Instruction{
			Blob:     spec.output(),
			Progress: progressLine(spec.output()),
		}

		if spec.Mode == ModeConditional {
			instruction.Text = conditionalInstruction(data, spec.Partition, spec.output())
			instruction.Conditional = true
		} else {
			instruction.Text = edify.PackageExtractFile(spec.output(), spec.Partition)
		}

		embed(ctx, plan, spec, data, instruction)
	}

	return plan, nil
}

// PlanIncremental embeds the target bytes of every configured blob whose
// contents differ between source and target.
func (p *Planner) PlanIncremental(ctx context.Context, source, target archive.Reader) (*Plan, error) {
	ctx = logger.WithName(ctx, "planner")
	plan := &Plan{Kind: KindIncremental}

	for i := range p.specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec := &p.specs[i]

		if spec.SkipIncremental {
			logger.Debugf(ctx, "%s is installed by full packages only; skipping", spec.Name)
			plan.skip(spec.Name, SkipFullOnly)

			continue
		}

		path := archive.RadioPath(spec.Name)

		sourceData, ok, err := source.Lookup(path)
		if err != nil {
			return nil, fmt.Errorf("read %s from source_files: %w", spec.Name, err)
		}

		if !ok {
			logger.Infof(ctx, "no %s in source_files; skipping install", spec.Name)
			plan.skip(spec.Name, SkipAbsentFromSource)

			continue
		}

		targetData, ok, err := target.Lookup(path)
		if err != nil {
			return nil, fmt.Errorf("read %s from target_files: %w", spec.Name, err)
		}

		if !ok {
			logger.Infof(ctx, "no %s in target_files; skipping install", spec.Name)
			plan.skip(spec.Name, SkipAbsentFromTarget)

			continue
		}

		if bytes.Equal(sourceData, targetData) {
			logger.Infof(ctx, "%s unchanged; skipping install", spec.Name)
			plan.skip(spec.Name, SkipUnchanged)

			continue
		}

		embed(ctx, plan, spec, targetData, Instruction{
			Blob:     spec.output(),
			Progress: progressLine(spec.output()),
			Text:     edify.PackageExtractFile(spec.output(), spec.Partition),
		})
	}

	return plan, nil
}

func embed(ctx context.Context, plan *Plan, spec *BlobSpec, data []byte, instruction Instruction) {
	logger.InfoKV(ctx, "Embedding firmware blob",
		"blob", spec.output(),
		"partition", spec.Partition,
		"size", humanize.IBytes(uint64(len(data))),
		"conditional", instruction.Conditional,
	)

	plan.add(EmbeddedBlob{
		Name:      spec.Name,
		Output:    spec.output(),
		Partition: spec.Partition,
		Data:      data,
	}, instruction)
}
