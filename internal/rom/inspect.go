package rom

import (
	"fmt"
	"strings"
)

// Hexdump renders length bytes of ROM data starting at offset as a classic
// offset/hex/ASCII dump.
func (img *Image) Hexdump(offset, length int64) string {
	data := img.Read(offset, length)
	var sb strings.Builder
	for i := 0; i < len(data); i += 16 {
		chunk := data[i:min(i+16, len(data))]

		hexParts := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for j, b := range chunk {
			hexParts[j] = fmt.Sprintf("%02X", b)
			if b >= 0x20 && b < 0x7F {
				ascii[j] = b
			} else {
				ascii[j] = '.'
			}
		}
		fmt.Fprintf(&sb, "  %06X: %-48s %s\n", offset+int64(i), strings.Join(hexParts, " "), ascii)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Diff is a single byte difference between two images.
type Diff struct {
	Offset   int64
	Original byte
	Modified byte
}

// Compare returns all byte differences between the ROM data of two images,
// in ascending offset order. A size mismatch is reported separately by the
// second return value (zero when sizes match).
func Compare(a, b *Image) (diffs []Diff, sizeDelta int64) {
	da, db := a.Data(), b.Data()
	n := min(len(da), len(db))
	for i := 0; i < n; i++ {
		if da[i] != db[i] {
			diffs = append(diffs, Diff{Offset: int64(i), Original: da[i], Modified: db[i]})
		}
	}
	return diffs, int64(len(db)) - int64(len(da))
}
