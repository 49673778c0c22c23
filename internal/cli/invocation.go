// Package cli canonicalizes command-line input into an Invocation and maps
// it onto the build pipeline, translating outcomes to semantic exit codes.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"romforge/internal/config"
)

// Semantic exit codes. The exit status is the build's sole machine-readable
// success signal.
const (
	ExitSuccess           = 0
	ExitBuildFailure      = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Invocation is the canonicalized description of a run. All paths are
// absolute once parsing succeeds.
type Invocation struct {
	// Root is the project root every relative config path resolves under.
	Root string

	// ConfigPath locates the optional YAML config file.
	ConfigPath string

	// Dist enables the distribution packaging stage.
	Dist bool
}

// InvocationError carries a semantic exit code alongside the message.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags (excluding argv[0]) into a canonical
// Invocation. Parsing errors are returned, never printed.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("romforge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var root string
	var configPath string
	var dist bool
	fs.StringVar(&root, "C", ".", "Project root directory.")
	fs.StringVar(&configPath, "config", config.DefaultPath, "Build config file, relative to the project root.")
	fs.BoolVar(&dist, "dist", false, "Also produce a distributable patch of the build.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Invocation{}, invalidInvocationf("resolve project root %q: %v", root, err)
	}

	if configPath == "" {
		return Invocation{}, invalidInvocationf("-config must not be empty")
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(absRoot, configPath)
	}

	return Invocation{
		Root:       absRoot,
		ConfigPath: filepath.Clean(configPath),
		Dist:       dist,
	}, nil
}

// ExitCodeOf extracts a semantic exit code from an error.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil && invErr.ExitCode != 0 {
		return invErr.ExitCode
	}
	return ExitInternalError
}
