package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/tegra-otatools/internal/archive"
	"github.com/oshokin/tegra-otatools/internal/config"
	"github.com/oshokin/tegra-otatools/internal/edify"
	"github.com/oshokin/tegra-otatools/internal/logger"
	"github.com/oshokin/tegra-otatools/internal/planner"
)

// ScriptEntry is the package entry holding the generated edify lines.
const ScriptEntry = "updater-script.extra"

// Options contains inputs for the packager entry point.
type Options struct {
	// TargetPath is the target-files zip of the new build.
	TargetPath string
	// SourcePath is the target-files zip of the previous build; empty for full packages.
	SourcePath string
	// OutputPath is where the package fragment is written.
	OutputPath string
	// ScriptPath optionally receives a copy of the edify lines.
	ScriptPath string
	// ManifestPath optionally receives the YAML manifest.
	ManifestPath string
	// Profile is the name of a built-in device profile.
	Profile string
	// ProfilePath is a YAML profile that takes precedence over Profile.
	ProfilePath string
	// DryRun plans and renders the script without writing the package.
	DryRun bool
}

// Result is what a packaging run produced.
type Result struct {
	// Profile is the device profile that was used.
	Profile *config.Profile
	// Plan is the install plan.
	Plan *planner.Plan
	// Script holds the edify lines generated for the plan.
	Script *edify.Script
}

var (
	errTargetRequired = errors.New("target files must be provided")
	errOutputRequired = errors.New("output path must be provided")
)

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "packager")

	if err := validate(opts); err != nil {
		return nil, err
	}

	profile, err := ResolveProfile(opts.Profile, opts.ProfilePath)
	if err != nil {
		return nil, err
	}

	plan, err := buildPlan(ctx, profile, opts)
	if err != nil {
		return nil, err
	}

	script := edify.NewScript()

	if opts.DryRun {
		if err = plan.Apply(archive.NewMemoryArchive(nil), script); err != nil {
			return nil, err
		}

		logger.Info(ctx, "Dry run, package not written")
	} else if err = writePackage(ctx, opts.OutputPath, plan, script); err != nil {
		return nil, err
	}

	if err = writeSidecars(ctx, opts, profile, plan, script); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Packager completed successfully",
		"kind", plan.Kind,
		"profile", profile.Name,
		"embedded", len(plan.Blobs),
		"skipped", len(plan.Skipped),
	)

	return &Result{
		Profile: profile,
		Plan:    plan,
		Script:  script,
	}, nil
}

// ResolveProfile loads the profile file when given, otherwise the named
// built-in profile, otherwise the default one.
func ResolveProfile(name, path string) (*config.Profile, error) {
	if path != "" {
		return config.Load(path)
	}

	if name == "" {
		name = config.DefaultProfile
	}

	return config.Builtin(name)
}

func validate(opts *Options) error {
	if opts.TargetPath == "" {
		return errTargetRequired
	}

	if !opts.DryRun && opts.OutputPath == "" {
		return errOutputRequired
	}

	return nil
}

// buildPlan opens the archives and plans a full or incremental package.
func buildPlan(ctx context.Context, profile *config.Profile, opts *Options) (*planner.Plan, error) {
	pl, err := profile.Planner()
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	target, err := archive.OpenZip(opts.TargetPath)
	if err != nil {
		return nil, err
	}

	// Read-only, nothing to flush.
	defer func() {
		_ = target.Close()
	}()

	if opts.SourcePath == "" {
		logger.InfoKV(ctx, "Planning full install", "target", opts.TargetPath, "profile", profile.Name)

		return pl.PlanFull(ctx, target)
	}

	source, err := archive.OpenZip(opts.SourcePath)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = source.Close()
	}()

	logger.InfoKV(ctx, "Planning incremental install",
		"source", opts.SourcePath,
		"target", opts.TargetPath,
		"profile", profile.Name,
	)

	return pl.PlanIncremental(ctx, source, target)
}

// writePackage applies the plan to a new zip at path. A failed write removes the partial package.
func writePackage(ctx context.Context, path string, plan *planner.Plan, script *edify.Script) (err error) {
	out, err := archive.CreateZip(path)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := out.Close()
		if err == nil {
			err = closeErr
		}

		if err != nil {
			_ = os.Remove(filepath.Clean(path))
		}
	}()

	if err = plan.Apply(out, script); err != nil {
		return err
	}

	if err = out.WriteFile(ScriptEntry, []byte(script.String())); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Package written", "path", path, "instructions", len(plan.Instructions))

	return nil
}

// writeSidecars writes the optional script copy and manifest.
func writeSidecars(
	ctx context.Context,
	opts *Options,
	profile *config.Profile,
	plan *planner.Plan,
	script *edify.Script,
) error {
	if opts.ScriptPath != "" {
		if err := os.WriteFile(filepath.Clean(opts.ScriptPath), []byte(script.String()), config.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write script: %w", err)
		}

		logger.InfoKV(ctx, "Script written", "path", opts.ScriptPath)
	}

	if opts.ManifestPath != "" {
		if err := SaveManifest(opts.ManifestPath, NewManifest(profile.Name, plan)); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Manifest written", "path", opts.ManifestPath)
	}

	return nil
}

// ImageScript returns the digest-checked instruction that writes the
// RADIO/ blob fileName from the target-files at targetPath to partition.
func ImageScript(targetPath, partition, fileName string) (string, error) {
	target, err := archive.OpenZip(targetPath)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = target.Close()
	}()

	return planner.MakeConditionalInstallScript(target, partition, fileName)
}
