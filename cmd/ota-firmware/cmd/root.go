package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/tegra-otatools/internal/config"
	"github.com/oshokin/tegra-otatools/internal/logger"
	"github.com/oshokin/tegra-otatools/internal/service/packager"
	"github.com/oshokin/tegra-otatools/internal/version"
)

// errUnknownLogLevel is returned for unparsable --log-level values.
var errUnknownLogLevel = errors.New("unknown log level")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	profile     string
	profilePath string
	logLevel    string
}

// planFlags configure the full and incremental subcommands.
type planFlags struct {
	output   string
	script   string
	manifest string
	dryRun   bool
	summary  bool
}

// Execute runs the ota-firmware CLI and exits with non-zero status on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := new(globalFlags)

	root := &cobra.Command{
		Use:   "ota-firmware",
		Short: "Embed Tegra firmware blobs into OTA packages.",
		Long: `Plans which firmware blobs from RADIO/ in target-files go into an OTA package
and generates the edify instructions that flash them.

Full packages embed every blob the target build carries. Incremental packages
embed only blobs whose bytes changed since the source build.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(flags.logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, flags.logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}

	root.PersistentFlags().
		StringVarP(&flags.profile, "profile", "p", config.DefaultProfile, "built-in device profile")
	root.PersistentFlags().
		StringVar(&flags.profilePath, "profile-file", "", "YAML device profile (overrides --profile)")
	root.PersistentFlags().
		StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newFullCmd(flags),
		newIncrementalCmd(flags),
		newImageScriptCmd(),
		newProfilesCmd(),
	)

	version.AttachCobraVersionCommand(root)

	return root
}

func newFullCmd(global *globalFlags) *cobra.Command {
	flags := new(planFlags)

	c := &cobra.Command{
		Use:   "full <target-files.zip>",
		Short: "Plan a full OTA package.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runPlan(c, global, flags, "", args[0])
		},
	}

	bindPlanFlags(c, flags)

	return c
}

func newIncrementalCmd(global *globalFlags) *cobra.Command {
	flags := new(planFlags)

	c := &cobra.Command{
		Use:   "incremental <source-files.zip> <target-files.zip>",
		Short: "Plan an incremental OTA package.",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runPlan(c, global, flags, args[0], args[1])
		},
	}

	bindPlanFlags(c, flags)

	return c
}

func newImageScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image-script <target-files.zip> <partition> <file-name>",
		Short: "Print a digest-checked install instruction for a RADIO/ blob.",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			text, err := packager.ImageScript(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.OutOrStdout(), text)

			return err
		},
	}
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List built-in device profiles.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(c.OutOrStdout(), packager.RenderProfiles(config.Builtins()))

			return err
		},
	}
}

func bindPlanFlags(c *cobra.Command, flags *planFlags) {
	c.Flags().StringVarP(&flags.output, "output", "o", "firmware-ota.zip", "path of the package fragment to write")
	c.Flags().StringVar(&flags.script, "script", "", "also write the edify lines to this file")
	c.Flags().StringVar(&flags.manifest, "manifest", "", "write a YAML manifest of embedded blobs")
	c.Flags().BoolVar(&flags.dryRun, "dry-run", false, "plan and print the script without writing the package")
	c.Flags().BoolVar(&flags.summary, "summary", true, "print a summary table")
}

func runPlan(c *cobra.Command, global *globalFlags, flags *planFlags, source, target string) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	res, err := packager.Run(ctx, &packager.Options{
		TargetPath:   target,
		SourcePath:   source,
		OutputPath:   flags.output,
		ScriptPath:   flags.script,
		ManifestPath: flags.manifest,
		Profile:      global.profile,
		ProfilePath:  global.profilePath,
		DryRun:       flags.dryRun,
	})
	if err != nil {
		return err
	}

	out := c.OutOrStdout()

	if flags.summary {
		if _, err = fmt.Fprintln(out, packager.RenderSummary(res.Plan)); err != nil {
			return err
		}
	}

	if flags.dryRun {
		_, err = res.Script.WriteTo(out)
	}

	return err
}
