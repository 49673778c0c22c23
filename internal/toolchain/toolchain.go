// Package toolchain is the subprocess boundary to the external native tools
// the build delegates to: the assembler, the patch codec, and the emulator.
//
// Tools communicate success or failure solely through their process exit
// status. Their stdout/stderr are passed through to the operator and never
// parsed for control decisions.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Tool is a resolved external program.
type Tool struct {
	// Name is the configured name (bare name or explicit path).
	Name string

	// Path is the resolved executable path.
	Path string
}

// Resolve locates a tool. Bare names are looked up on PATH; names
// containing a separator are checked directly, matching exec.LookPath
// semantics.
func Resolve(name string) (Tool, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return Tool{}, fmt.Errorf("tool %q not found: %w", name, err)
	}
	return Tool{Name: name, Path: path}, nil
}

// Result is the outcome of one tool invocation. A non-zero ExitCode is a
// tool-reported failure; it is not an error at this layer so callers can
// attach the failing file to the report.
type Result struct {
	ExitCode int
}

// Ok reports whether the tool signalled success.
func (r Result) Ok() bool { return r.ExitCode == 0 }

// Invoker runs tools synchronously with pass-through output.
type Invoker struct {
	// Stdout and Stderr receive the tool's output. Defaults to the
	// process's own streams; tests capture them instead.
	Stdout io.Writer
	Stderr io.Writer
}

// NewInvoker returns an Invoker wired to the process's stdout/stderr.
func NewInvoker() *Invoker {
	return &Invoker{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run invokes the tool with the given arguments and blocks until it exits.
// The returned error is reserved for infrastructure failures (the process
// could not be started); a tool that runs and exits non-zero yields a nil
// error and the exit code in the Result.
func (v *Invoker) Run(ctx context.Context, tool Tool, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, tool.Path, args...)
	cmd.Stdout = v.Stdout
	cmd.Stderr = v.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{}, fmt.Errorf("start %s: %w", tool.Name, err)
	}
	return Result{ExitCode: 0}, nil
}
