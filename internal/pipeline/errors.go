package pipeline

import "fmt"

// The fatal build failure classes. Each is a distinct error type so the CLI
// can map classes to exit codes with errors.As, mirroring how non-fatal
// anomalies (size mismatch, unrecognized patch format) are only ever logged
// and never surfaced as errors.

// MissingInputError reports an absent base image. The pipeline never starts
// mutation in this state.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input: base image %s does not exist", e.Path)
}

// UnmetDependencyError reports an unresolvable external tool, detected
// before any file mutation.
type UnmetDependencyError struct {
	Tool  string
	Cause error
}

func (e *UnmetDependencyError) Error() string {
	return fmt.Sprintf("unmet dependency: %s", e.Tool)
}

func (e *UnmetDependencyError) Unwrap() error { return e.Cause }

// PatchFailureError reports a failed assembler or codec invocation on a
// specific patch file. The working image is left as-is: every patch before
// the failing one is applied, nothing after it is attempted.
type PatchFailureError struct {
	Tool     string
	File     string
	ExitCode int
	Cause    error
}

func (e *PatchFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("patch failure: %s on %s: %v", e.Tool, e.File, e.Cause)
	}
	return fmt.Sprintf("patch failure: %s exited with status %d on %s", e.Tool, e.ExitCode, e.File)
}

func (e *PatchFailureError) Unwrap() error { return e.Cause }

// PackagingFailureError reports a failed distribution-patch creation. It
// occurs after the working image is complete and verified, so the build
// artifact itself remains valid.
type PackagingFailureError struct {
	ExitCode int
	Cause    error
}

func (e *PackagingFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("packaging failure: %v", e.Cause)
	}
	return fmt.Sprintf("packaging failure: codec exited with status %d", e.ExitCode)
}

func (e *PackagingFailureError) Unwrap() error { return e.Cause }

// InternalConsistencyError reports a state earlier stages guarantee cannot
// happen, such as the verifier failing to read the image the pipeline just
// wrote. Treated as a defect, not an expected runtime condition.
type InternalConsistencyError struct {
	Message string
	Cause   error
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency: %s", e.Message)
}

func (e *InternalConsistencyError) Unwrap() error { return e.Cause }
