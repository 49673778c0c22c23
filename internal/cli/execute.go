package cli

import (
	"context"
	"errors"
	"os"

	"romforge/internal/buildlog"
	"romforge/internal/config"
	"romforge/internal/pipeline"
)

// Result is the outcome of executing an invocation.
type Result struct {
	ExitCode int
}

// Execute maps a canonical Invocation onto the pipeline:
// load config, rebase paths onto the project root, run the stages, render
// the report, and translate failures to exit codes.
func Execute(ctx context.Context, inv Invocation) (Result, error) {
	log := buildlog.New()

	cfg, err := config.Load(inv.ConfigPath)
	if err != nil {
		log.Failf("%v", err)
		return Result{ExitCode: ExitConfigError}, err
	}
	cfg = cfg.ResolveUnder(inv.Root)

	build := pipeline.New(cfg, log)
	build.Package = inv.Dist

	rep, err := build.Run(ctx)
	if err != nil {
		log.Failf("%v", err)
		return Result{ExitCode: exitCodeForBuildError(err)}, err
	}

	rep.Render(os.Stdout)
	return Result{ExitCode: ExitSuccess}, nil
}

func exitCodeForBuildError(err error) int {
	var internal *pipeline.InternalConsistencyError
	if errors.As(err, &internal) {
		return ExitInternalError
	}
	// MissingInput, UnmetDependency, PatchFailure, PackagingFailure: all
	// fatal build conditions with the same observable severity.
	return ExitBuildFailure
}
