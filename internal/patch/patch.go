// Package patch discovers the patch files a build applies and classifies
// binary patches by format.
//
// Discovery order is the pipeline's only ordering guarantee: files are
// sorted by full path, ascending, bytewise. Two builds over the same trees
// therefore always apply patches in the same sequence.
package patch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceSuffix identifies assembly source patches.
const SourceSuffix = ".asm"

// Format classifies a binary patch by its file extension.
type Format int

const (
	// FormatUnknown marks a file in the patches tree whose extension is not
	// a recognized patch format. The applier skips these with a warning
	// rather than failing, since the tree may hold notes or other files.
	FormatUnknown Format = iota

	// FormatIPS is the classic IPS record-based patch format.
	FormatIPS

	// FormatBPS is the checksummed delta format produced by Floating IPS.
	FormatBPS
)

func (f Format) String() string {
	switch f {
	case FormatIPS:
		return "ips"
	case FormatBPS:
		return "bps"
	default:
		return "unknown"
	}
}

// FormatOf classifies a path by extension, case-insensitively.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ips":
		return FormatIPS
	case ".bps":
		return FormatBPS
	default:
		return FormatUnknown
	}
}

// Unit is one discovered binary patch file.
type Unit struct {
	Path   string
	Format Format
}

// DiscoverSource walks dir recursively and returns every .asm file, sorted
// by full path. A missing dir yields an empty set: a project with no source
// patches is a supported state, not an error.
func DiscoverSource(dir string) ([]string, error) {
	files, err := walkFiles(dir, func(path string) bool {
		return strings.HasSuffix(strings.ToLower(path), SourceSuffix)
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// DiscoverBinary walks dir recursively and returns every regular file,
// classified by format, sorted by full path. Unknown-format files are
// included so the applier can report them as skipped.
func DiscoverBinary(dir string) ([]Unit, error) {
	files, err := walkFiles(dir, func(string) bool { return true })
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	units := make([]Unit, len(files))
	for i, f := range files {
		units[i] = Unit{Path: f, Format: FormatOf(f)}
	}
	return units, nil
}

func walkFiles(dir string, keep func(string) bool) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
