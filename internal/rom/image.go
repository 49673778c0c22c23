// Package rom models an SNES ROM image on disk: the optional copier header
// some dumps carry, the internal cartridge header, checksums, and the
// content digests the build report carries.
package rom

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
)

// CopierHeaderSize is the size of the optional header prepended by old
// copier devices. A headered dump is exactly this many bytes longer than a
// power-of-two ROM.
const CopierHeaderSize = 512

// Image is a ROM loaded fully into memory. The copier header, if present,
// is detected at load time; all offsets on the accessor methods address the
// unheadered ROM data.
type Image struct {
	Path string

	// raw is the full file contents including any copier header.
	raw []byte

	// HasCopierHeader reports whether raw starts with a 512-byte copier
	// header (file size is 512 beyond a 1 KiB multiple).
	HasCopierHeader bool
}

// Open reads an image from disk and detects the copier header.
func Open(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom %s: %w", path, err)
	}
	return &Image{
		Path:            path,
		raw:             raw,
		HasCopierHeader: len(raw)%1024 == CopierHeaderSize,
	}, nil
}

// FileSize is the on-disk size including any copier header.
func (img *Image) FileSize() int64 { return int64(len(img.raw)) }

// Size is the size of the ROM data with the copier header excluded.
func (img *Image) Size() int64 { return int64(len(img.Data())) }

// Data returns the ROM data with the copier header excluded.
func (img *Image) Data() []byte {
	if img.HasCopierHeader {
		return img.raw[CopierHeaderSize:]
	}
	return img.raw
}

// Read returns up to length bytes of ROM data starting at offset. Reads
// past the end are truncated, not an error.
func (img *Image) Read(offset, length int64) []byte {
	data := img.Data()
	if offset < 0 || offset >= int64(len(data)) {
		return nil
	}
	end := offset + length
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[offset:end]
}

// Digests computes the MD5 and SHA-1 hex digests of the ROM data (copier
// header excluded), matching how ROM databases identify dumps.
func (img *Image) Digests() (md5hex, sha1hex string) {
	m := md5.Sum(img.Data())
	s := sha1.Sum(img.Data())
	return hex.EncodeToString(m[:]), hex.EncodeToString(s[:])
}
