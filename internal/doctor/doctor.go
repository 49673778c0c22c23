// Package doctor verifies that the external tools the build depends on are
// resolvable in the environment. It has no dependency on build state: it
// can run before any project exists.
package doctor

import (
	"fmt"
	"io"

	"romforge/internal/toolchain"
)

// CheckResult is the outcome of probing one named tool.
type CheckResult struct {
	Name string
	Path string
	Err  error
}

// Ok reports whether the tool resolved.
func (c CheckResult) Ok() bool { return c.Err == nil }

// Check probes every named tool in order.
func Check(names []string) []CheckResult {
	results := make([]CheckResult, len(names))
	for i, name := range names {
		tool, err := toolchain.Resolve(name)
		results[i] = CheckResult{Name: name, Path: tool.Path, Err: err}
	}
	return results
}

// Report writes a per-item pass/fail line for each result plus an
// aggregate line, and returns the number of failed checks.
func Report(w io.Writer, results []CheckResult) (failed int) {
	for _, r := range results {
		if r.Ok() {
			fmt.Fprintf(w, "[ ok ] %-12s %s\n", r.Name, r.Path)
		} else {
			fmt.Fprintf(w, "[fail] %-12s not found\n", r.Name)
			failed++
		}
	}
	if failed == 0 {
		fmt.Fprintf(w, "[ ok ] all %d dependencies available\n", len(results))
	} else {
		fmt.Fprintf(w, "[fail] %d of %d dependencies missing\n", failed, len(results))
	}
	return failed
}
