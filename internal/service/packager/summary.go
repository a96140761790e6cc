package packager

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/oshokin/tegra-otatools/internal/config"
	"github.com/oshokin/tegra-otatools/internal/planner"
)

// RenderSummary renders the plan as a table of embedded and skipped blobs.
func RenderSummary(plan *planner.Plan) string {
	tw := newTable("Blob", "Partition", "Size", "Action")

	for i, b := range plan.Blobs {
		action := "write"
		if plan.Instructions[i].Conditional {
			action = "write if sha1 differs"
		}

		tw.AppendRow(table.Row{b.Output, b.Partition, humanize.IBytes(uint64(len(b.Data))), action})
	}

	for _, s := range plan.Skipped {
		tw.AppendRow(table.Row{s.Blob, "", "", "skip: " + string(s.Reason)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.SetTitle(string(plan.Kind) + " install, " + strconv.Itoa(len(plan.Blobs)) + " blob(s), " +
		humanize.IBytes(uint64(plan.TotalSize())))

	return tw.Render()
}

// RenderProfiles renders the blob tables of profiles.
func RenderProfiles(profiles []*config.Profile) string {
	tw := newTable("Profile", "Blob", "Partition", "Mode", "Incremental")

	for _, p := range profiles {
		for _, b := range p.Blobs {
			mode := b.Mode
			if mode == "" {
				mode = planner.ModeUnconditional.String()
			}

			incremental := "yes"
			if b.FullOnly {
				incremental = "no"
			}

			tw.AppendRow(table.Row{p.Name, b.Name, b.Partition, mode, incremental})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	return tw.Render()
}

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}

	tw.AppendHeader(header)

	return tw
}
