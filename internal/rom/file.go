package rom

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// FileSize returns the on-disk byte length of path.
func FileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// StripCopierHeader rewrites the file at path with its first headerSize
// bytes removed. The write goes through a temp file in the same directory
// and a rename, so a crash mid-strip cannot truncate the original.
func StripCopierHeader(path string, headerSize int64) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) < headerSize {
		return fmt.Errorf("%s is smaller than the %d-byte header", path, headerSize)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".strip-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data[headerSize:]); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write stripped image: %w", err)
	}
	// CreateTemp opens 0600; carry the original mode over to the replacement.
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod stripped image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close stripped image: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// FileDigests streams the file at path through MD5 and SHA-1 and returns
// both hex digests. Unlike Image.Digests this hashes the file as-is,
// copier header included if one is present.
func FileDigests(path string) (md5hex, sha1hex string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	m := md5.New()
	s := sha1.New()
	if _, err := io.Copy(io.MultiWriter(m, s), f); err != nil {
		return "", "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hexSum(m), hexSum(s), nil
}

func hexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// CopyFile copies src to dst, overwriting dst. Used to produce the working
// image from the base image.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
