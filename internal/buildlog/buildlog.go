// Package buildlog prints the leveled status lines the build pipeline emits
// for the operator. Informational lines go to one writer and problems to
// another; the aggregate process exit code, not the log text, is the
// machine-readable success signal.
package buildlog

import (
	"fmt"
	"io"
	"os"
)

// Logger writes tagged status lines. The zero value is not usable; construct
// with New or NewWithWriters.
type Logger struct {
	out io.Writer
	err io.Writer
}

// New returns a Logger writing info/ok lines to stdout and warn/fail lines
// to stderr.
func New() *Logger {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters returns a Logger with explicit writers. Tests use this to
// capture output.
func NewWithWriters(out, err io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	if err == nil {
		err = io.Discard
	}
	return &Logger{out: out, err: err}
}

// Infof reports pipeline progress.
func (l *Logger) Infof(format string, args ...any) {
	fmt.Fprintf(l.out, "[info] "+format+"\n", args...)
}

// Okf reports a completed step.
func (l *Logger) Okf(format string, args ...any) {
	fmt.Fprintf(l.out, "[ ok ] "+format+"\n", args...)
}

// Warnf reports a non-fatal anomaly. The pipeline continues.
func (l *Logger) Warnf(format string, args ...any) {
	fmt.Fprintf(l.err, "[warn] "+format+"\n", args...)
}

// Failf reports a fatal condition. The caller is responsible for aborting.
func (l *Logger) Failf(format string, args ...any) {
	fmt.Fprintf(l.err, "[fail] "+format+"\n", args...)
}
