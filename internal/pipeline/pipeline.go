// Package pipeline sequences a ROM build: preflight validation, workspace
// preparation, source-patch application, binary-patch application,
// verification, and optional distribution packaging.
//
// Control flow is strictly linear and fail-fast. Each stage must fully
// succeed before the next begins; a fatal condition anywhere aborts the
// whole build. There is no rollback: an aborted build leaves the working
// image with exactly the patches applied before the failure.
package pipeline

import (
	"context"
	"os"
	"time"

	"romforge/internal/buildlog"
	"romforge/internal/config"
	"romforge/internal/patch"
	"romforge/internal/report"
	"romforge/internal/rom"
	"romforge/internal/toolchain"
)

// Build carries everything the stages share: configuration, the status
// logger, the subprocess invoker, and the resolved tools. It is constructed
// once per invocation and passed by handle into every stage; there is no
// ambient global state.
type Build struct {
	Config  config.Config
	Log     *buildlog.Logger
	Invoker *toolchain.Invoker

	// Package enables the flag-gated distribution packaging stage.
	Package bool

	assembler toolchain.Tool
	codec     toolchain.Tool

	report *report.Report
}

// New prepares a build of the given configuration.
func New(cfg config.Config, log *buildlog.Logger) *Build {
	if log == nil {
		log = buildlog.New()
	}
	return &Build{
		Config:  cfg,
		Log:     log,
		Invoker: toolchain.NewInvoker(),
	}
}

// Run executes the stages in order and returns the build report on
// success. On failure the returned error identifies the stage and, for
// patch failures, the offending file.
func (b *Build) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	b.report = report.New(b.Config.Base, b.Config.WorkingImage())

	stages := []func(context.Context) error{
		b.preflight,
		b.prepareWorkspace,
		b.applySourcePatches,
		b.applyBinaryPatches,
		b.verify,
		b.packageDist,
	}
	for _, stage := range stages {
		if err := stage(ctx); err != nil {
			return nil, err
		}
	}

	b.report.Elapsed = time.Since(start)
	return b.report, nil
}

// preflight validates the base image and resolves the external tools. Tool
// resolution happens before the header strip, the one mutation this stage
// may perform: the base image must never be touched if the remaining
// stages cannot run.
func (b *Build) preflight(context.Context) error {
	base := b.Config.Base

	if _, err := os.Stat(base); err != nil {
		if os.IsNotExist(err) {
			return &MissingInputError{Path: base}
		}
		return &InternalConsistencyError{Message: "stat base image", Cause: err}
	}

	assembler, err := toolchain.Resolve(b.Config.Tools.Assembler)
	if err != nil {
		return &UnmetDependencyError{Tool: b.Config.Tools.Assembler, Cause: err}
	}
	codec, err := toolchain.Resolve(b.Config.Tools.Codec)
	if err != nil {
		return &UnmetDependencyError{Tool: b.Config.Tools.Codec, Cause: err}
	}
	b.assembler = assembler
	b.codec = codec
	b.Log.Infof("tools: assembler=%s codec=%s", assembler.Path, codec.Path)

	size, err := rom.FileSize(base)
	if err != nil {
		return &InternalConsistencyError{Message: "stat base image", Cause: err}
	}

	switch size {
	case b.Config.CleanSize:
		b.Log.Okf("base image %s: %d bytes, unheadered", base, size)
	case b.Config.CleanSize + b.Config.HeaderSize:
		b.Log.Infof("base image %s carries a %d-byte copier header, stripping", base, b.Config.HeaderSize)
		if err := rom.StripCopierHeader(base, b.Config.HeaderSize); err != nil {
			return &InternalConsistencyError{Message: "strip copier header", Cause: err}
		}
		b.report.HeaderStripped = true
		b.Log.Okf("base image normalized to %d bytes", b.Config.CleanSize)
	default:
		// The pipeline does not validate structural correctness of a
		// non-canonical image; downstream tools will fail if it is unusable.
		b.Log.Warnf("base image %s is %d bytes, expected %d or %d",
			base, size, b.Config.CleanSize, b.Config.CleanSize+b.Config.HeaderSize)
	}
	return nil
}

// prepareWorkspace creates the output directory and copies the validated
// base image to the working path. Every build starts from a pristine copy;
// later stages mutate only the working path.
func (b *Build) prepareWorkspace(context.Context) error {
	if err := os.MkdirAll(b.Config.OutDir, 0o755); err != nil {
		return &InternalConsistencyError{Message: "create output directory", Cause: err}
	}
	working := b.Config.WorkingImage()
	if err := rom.CopyFile(b.Config.Base, working); err != nil {
		return &InternalConsistencyError{Message: "copy base image to workspace", Cause: err}
	}
	b.Log.Okf("working image: %s", working)
	return nil
}

// applySourcePatches runs the assembler once per discovered .asm file, in
// sorted path order, mutating the working image in place.
func (b *Build) applySourcePatches(ctx context.Context) error {
	files, err := patch.DiscoverSource(b.Config.SrcDir)
	if err != nil {
		return &InternalConsistencyError{Message: "discover source patches", Cause: err}
	}
	if len(files) == 0 {
		b.Log.Infof("no source patches under %s", b.Config.SrcDir)
		return nil
	}

	working := b.Config.WorkingImage()
	for _, f := range files {
		b.Log.Infof("asm %s", f)
		res, err := b.Invoker.Run(ctx, b.assembler, f, working)
		if err != nil {
			return &PatchFailureError{Tool: b.assembler.Name, File: f, Cause: err}
		}
		if !res.Ok() {
			return &PatchFailureError{Tool: b.assembler.Name, File: f, ExitCode: res.ExitCode}
		}
		b.report.SourceApplied++
	}
	b.Log.Okf("%d source patches applied", b.report.SourceApplied)
	return nil
}

// applyBinaryPatches applies the discovered IPS/BPS patches cumulatively
// onto the working image, in sorted path order. Files with an unrecognized
// extension are skipped with a warning; a codec failure on a recognized
// format is fatal, identical in severity to an assembler failure.
func (b *Build) applyBinaryPatches(ctx context.Context) error {
	units, err := patch.DiscoverBinary(b.Config.PatchesDir)
	if err != nil {
		return &InternalConsistencyError{Message: "discover binary patches", Cause: err}
	}
	if len(units) == 0 {
		b.Log.Infof("no binary patches under %s", b.Config.PatchesDir)
		return nil
	}

	working := b.Config.WorkingImage()
	for _, u := range units {
		switch u.Format {
		case patch.FormatIPS, patch.FormatBPS:
			b.Log.Infof("%s %s", u.Format, u.Path)
			// Source and destination are the working image: each patch is
			// applied on top of the previous one's result.
			res, err := b.Invoker.Run(ctx, b.codec, "--apply", u.Path, working, working)
			if err != nil {
				return &PatchFailureError{Tool: b.codec.Name, File: u.Path, Cause: err}
			}
			if !res.Ok() {
				return &PatchFailureError{Tool: b.codec.Name, File: u.Path, ExitCode: res.ExitCode}
			}
			b.report.BinaryApplied++
		case patch.FormatUnknown:
			b.Log.Warnf("skipping %s: unrecognized patch format", u.Path)
			b.report.BinarySkipped++
		}
	}
	b.Log.Okf("%d binary patches applied, %d skipped", b.report.BinaryApplied, b.report.BinarySkipped)
	return nil
}

// verify reports the final working image's size and content digests. The
// image is guaranteed to exist by the earlier stages, so a read failure
// here is a defect, not an expected runtime condition.
func (b *Build) verify(context.Context) error {
	working := b.Config.WorkingImage()

	size, err := rom.FileSize(working)
	if err != nil {
		return &InternalConsistencyError{Message: "read working image for verification", Cause: err}
	}
	md5hex, sha1hex, err := rom.FileDigests(working)
	if err != nil {
		return &InternalConsistencyError{Message: "digest working image", Cause: err}
	}

	b.report.Size = size
	b.report.MD5 = md5hex
	b.report.SHA1 = sha1hex
	b.Log.Okf("verify: %d bytes md5=%s sha1=%s", size, md5hex, sha1hex)
	return nil
}

// packageDist creates a distributable delta between the base image's
// current on-disk contents (post-strip, if preflight stripped a header)
// and the final working image. A failure here is fatal to the process but
// the primary build artifact already exists and is valid.
func (b *Build) packageDist(ctx context.Context) error {
	if !b.Package {
		return nil
	}

	dist := b.Config.DistArtifact()
	b.Log.Infof("packaging %s", dist)
	res, err := b.Invoker.Run(ctx, b.codec, "--create", b.Config.Base, b.Config.WorkingImage(), dist)
	if err != nil {
		return &PackagingFailureError{Cause: err}
	}
	if !res.Ok() {
		return &PackagingFailureError{ExitCode: res.ExitCode}
	}
	b.report.DistArtifact = dist
	b.Log.Okf("distribution patch: %s", dist)
	return nil
}
