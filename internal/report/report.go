// Package report assembles the end-of-build summary: what was built, how
// many patches went in, and the identifying digests of the result. The
// report is rendered for the operator and never persisted.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Report summarizes one completed build.
type Report struct {
	// RunID uniquely identifies this build invocation in the log.
	RunID string

	BaseImage    string
	WorkingImage string

	// HeaderStripped records whether preflight removed a copier header
	// from the base image.
	HeaderStripped bool

	// Size is the final working image's byte length.
	Size int64

	// MD5 and SHA1 are the informational content digests of the final
	// working image. Neither gates success.
	MD5  string
	SHA1 string

	SourceApplied int
	BinaryApplied int
	BinarySkipped int

	// DistArtifact is set when packaging ran.
	DistArtifact string

	Elapsed time.Duration
}

// New starts a report for a build of base into working.
func New(base, working string) *Report {
	return &Report{
		RunID:        uuid.NewString(),
		BaseImage:    base,
		WorkingImage: working,
	}
}

// Render writes the human-readable summary.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "build %s\n", r.RunID)
	fmt.Fprintf(w, "  base:     %s\n", r.BaseImage)
	fmt.Fprintf(w, "  output:   %s\n", r.WorkingImage)
	fmt.Fprintf(w, "  size:     %d bytes\n", r.Size)
	fmt.Fprintf(w, "  md5:      %s\n", r.MD5)
	fmt.Fprintf(w, "  sha1:     %s\n", r.SHA1)
	fmt.Fprintf(w, "  patches:  %d asm, %d binary (%d skipped)\n",
		r.SourceApplied, r.BinaryApplied, r.BinarySkipped)
	if r.DistArtifact != "" {
		fmt.Fprintf(w, "  dist:     %s\n", r.DistArtifact)
	}
	fmt.Fprintf(w, "  elapsed:  %s\n", r.Elapsed.Round(time.Millisecond))
}
