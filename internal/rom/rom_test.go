package rom

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeHiROM builds a 64 KiB image with a valid internal header at $FFB0.
func makeHiROM(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, 65536)

	// Titles are space-padded to 21 bytes on real cartridges.
	copy(data[hiROMHeaderOffset+0x10:], "TEST CARTRIDGE       ")
	data[hiROMHeaderOffset+0x25] = 0x31 // map mode
	data[hiROMHeaderOffset+0x27] = 6    // 64 KB
	data[hiROMHeaderOffset+0x28] = 3    // 8 KB SRAM
	data[hiROMHeaderOffset+0x29] = 1    // US
	data[hiROMHeaderOffset+0x2B] = 0    // v1.0
	binary.LittleEndian.PutUint16(data[hiROMHeaderOffset+0x2C:], 0xEDCB) // complement
	binary.LittleEndian.PutUint16(data[hiROMHeaderOffset+0x2E:], 0x1234) // checksum
	return data
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestOpenUnheadered(t *testing.T) {
	img, err := Open(writeImage(t, "test.sfc", makeHiROM(t)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.HasCopierHeader {
		t.Error("64 KiB image must not be detected as headered")
	}
	if img.Size() != 65536 || img.FileSize() != 65536 {
		t.Errorf("size = %d, file size = %d", img.Size(), img.FileSize())
	}
}

func TestOpenHeadered(t *testing.T) {
	romData := makeHiROM(t)
	headered := append(make([]byte, CopierHeaderSize), romData...)

	img, err := Open(writeImage(t, "test.smc", headered))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !img.HasCopierHeader {
		t.Fatal("expected copier header detection")
	}
	if img.Size() != 65536 {
		t.Errorf("rom data size = %d", img.Size())
	}
	if !bytes.Equal(img.Data(), romData) {
		t.Error("Data must exclude the copier header")
	}
	// Header fields must still decode at the unheadered offsets.
	if img.MappingMode() != MappingHiROM {
		t.Errorf("mapping = %s", img.MappingMode())
	}
}

func TestReadHeaderHiROM(t *testing.T) {
	img, err := Open(writeImage(t, "test.sfc", makeHiROM(t)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if img.MappingMode() != MappingHiROM {
		t.Fatalf("mapping = %s, want HiROM", img.MappingMode())
	}

	h, err := img.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Title != "TEST CARTRIDGE" {
		t.Errorf("title = %q", h.Title)
	}
	if h.ROMSizeKB != 64 {
		t.Errorf("rom size = %d KB", h.ROMSizeKB)
	}
	if h.SRAMSizeKB != 8 {
		t.Errorf("sram size = %d KB", h.SRAMSizeKB)
	}
	if h.Checksum != 0x1234 || h.Complement != 0xEDCB {
		t.Errorf("checksum = %04X complement = %04X", h.Checksum, h.Complement)
	}
	if !h.Valid() {
		t.Error("checksum/complement pair should validate")
	}
}

func TestMappingModeLoROM(t *testing.T) {
	data := make([]byte, 32768)
	binary.LittleEndian.PutUint16(data[loROMHeaderOffset+0x2C:], 0xFFFF)
	binary.LittleEndian.PutUint16(data[loROMHeaderOffset+0x2E:], 0x0000)

	img, err := Open(writeImage(t, "lorom.sfc", data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.MappingMode() != MappingLoROM {
		t.Errorf("mapping = %s, want LoROM", img.MappingMode())
	}
}

func TestMappingModeUnknown(t *testing.T) {
	img, err := Open(writeImage(t, "junk.sfc", make([]byte, 65536)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.MappingMode() != MappingUnknown {
		t.Errorf("mapping = %s, want Unknown", img.MappingMode())
	}
}

func TestChecksum(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = 1
	}
	img, err := Open(writeImage(t, "sum.sfc", data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := img.Checksum(); got != 1024 {
		t.Errorf("checksum = %d, want 1024", got)
	}
}

func TestDigests(t *testing.T) {
	data := makeHiROM(t)
	img, err := Open(writeImage(t, "test.sfc", data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	m := md5.Sum(data)
	s := sha1.Sum(data)
	md5hex, sha1hex := img.Digests()
	if md5hex != hex.EncodeToString(m[:]) {
		t.Errorf("md5 = %s", md5hex)
	}
	if sha1hex != hex.EncodeToString(s[:]) {
		t.Errorf("sha1 = %s", sha1hex)
	}
}

func TestFileDigestsMatchImageDigestsWhenUnheadered(t *testing.T) {
	data := makeHiROM(t)
	path := writeImage(t, "test.sfc", data)

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	imgMD5, imgSHA1 := img.Digests()

	fileMD5, fileSHA1, err := FileDigests(path)
	if err != nil {
		t.Fatalf("FileDigests: %v", err)
	}
	if fileMD5 != imgMD5 || fileSHA1 != imgSHA1 {
		t.Error("file digests must match image digests for unheadered images")
	}
}

func TestStripCopierHeader(t *testing.T) {
	romData := make([]byte, 1024)
	for i := range romData {
		romData[i] = byte(i)
	}
	headered := append(bytes.Repeat([]byte{0xAA}, 512), romData...)
	path := writeImage(t, "headered.smc", headered)

	if err := StripCopierHeader(path, 512); err != nil {
		t.Fatalf("StripCopierHeader: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stripped: %v", err)
	}
	if len(got) != 1024 {
		t.Fatalf("stripped size = %d, want 1024", len(got))
	}
	if !bytes.Equal(got, romData) {
		t.Error("stripped contents must equal the original minus the header")
	}
}

func TestStripCopierHeaderPreservesMode(t *testing.T) {
	path := writeImage(t, "headered.smc", make([]byte, 1536))
	if err := os.Chmod(path, 0o664); err != nil {
		t.Fatal(err)
	}

	if err := StripCopierHeader(path, 512); err != nil {
		t.Fatalf("StripCopierHeader: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o664 {
		t.Errorf("mode after strip = %o, want 664", fi.Mode().Perm())
	}
}

func TestStripCopierHeaderTooSmall(t *testing.T) {
	path := writeImage(t, "tiny.smc", make([]byte, 100))
	if err := StripCopierHeader(path, 512); err == nil {
		t.Fatal("expected error stripping a file smaller than the header")
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("new contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale and much longer contents"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new contents" {
		t.Errorf("dst = %q", got)
	}
}

func TestHexdump(t *testing.T) {
	data := make([]byte, 65536)
	copy(data[0x100:], "Hello!")
	img, err := Open(writeImage(t, "dump.sfc", data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	out := img.Hexdump(0x100, 16)
	if !strings.Contains(out, "000100:") {
		t.Errorf("missing offset column:\n%s", out)
	}
	if !strings.Contains(out, "48 65 6C 6C 6F 21") {
		t.Errorf("missing hex bytes:\n%s", out)
	}
	if !strings.Contains(out, "Hello!") {
		t.Errorf("missing ascii column:\n%s", out)
	}
}

func TestCompare(t *testing.T) {
	a := makeHiROM(t)
	b := append([]byte(nil), a...)
	b[0x10] = 0xFF
	b[0x20] = 0xEE

	imgA, err := Open(writeImage(t, "a.sfc", a))
	if err != nil {
		t.Fatal(err)
	}
	imgB, err := Open(writeImage(t, "b.sfc", b))
	if err != nil {
		t.Fatal(err)
	}

	diffs, sizeDelta := Compare(imgA, imgB)
	if sizeDelta != 0 {
		t.Errorf("size delta = %d", sizeDelta)
	}
	if len(diffs) != 2 {
		t.Fatalf("diffs = %d, want 2", len(diffs))
	}
	if diffs[0].Offset != 0x10 || diffs[0].Modified != 0xFF {
		t.Errorf("first diff = %+v", diffs[0])
	}
	if diffs[1].Offset != 0x20 {
		t.Errorf("second diff = %+v", diffs[1])
	}
}

func TestCompareSizeMismatch(t *testing.T) {
	imgA, err := Open(writeImage(t, "a.sfc", make([]byte, 2048)))
	if err != nil {
		t.Fatal(err)
	}
	imgB, err := Open(writeImage(t, "b.sfc", make([]byte, 4096)))
	if err != nil {
		t.Fatal(err)
	}

	diffs, sizeDelta := Compare(imgA, imgB)
	if len(diffs) != 0 {
		t.Errorf("diffs = %d", len(diffs))
	}
	if sizeDelta != 2048 {
		t.Errorf("size delta = %d, want 2048", sizeDelta)
	}
}

func TestHiROMBusToPC(t *testing.T) {
	// HiROM maps bank $C0 onward linearly over the ROM file.
	got, err := HiROMBusToPC(0xC00000)
	if err != nil {
		t.Fatalf("HiROMBusToPC($C00000): %v", err)
	}
	if got != 0 {
		t.Errorf("HiROMBusToPC($C00000) = %#x, want 0", got)
	}
	got, err = HiROMBusToPC(0xCC0000)
	if err != nil {
		t.Fatalf("HiROMBusToPC($CC0000): %v", err)
	}
	if got != 0x0C0000 {
		t.Errorf("HiROMBusToPC($CC0000) = %#x, want 0x0C0000", got)
	}
}

func TestBusAddressToPCLoROM(t *testing.T) {
	data := make([]byte, 32768)
	binary.LittleEndian.PutUint16(data[loROMHeaderOffset+0x2C:], 0xFFFF)
	binary.LittleEndian.PutUint16(data[loROMHeaderOffset+0x2E:], 0x0000)

	img, err := Open(writeImage(t, "lorom.sfc", data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// LoROM maps $00:8000 to the start of the ROM file.
	pc, err := img.BusAddressToPC(0x008000)
	if err != nil {
		t.Fatalf("BusAddressToPC($00:8000): %v", err)
	}
	if pc != 0 {
		t.Errorf("BusAddressToPC($00:8000) = %#x, want 0", pc)
	}
}
