package rom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Internal cartridge header locations. The header sits at the end of the
// first bank, so its file offset depends on the mapping mode.
const (
	loROMHeaderOffset = 0x7FB0
	hiROMHeaderOffset = 0xFFB0
)

// MappingMode is the cartridge address mapping detected from the internal
// header.
type MappingMode string

const (
	MappingLoROM   MappingMode = "LoROM"
	MappingHiROM   MappingMode = "HiROM"
	MappingUnknown MappingMode = "Unknown"
)

// rawHeader mirrors the $FFB0 extended header layout byte for byte so it
// can be decoded with binary.Read.
type rawHeader struct {
	MakerCode        uint16
	GameCode         uint32
	Fixed1           [7]byte
	ExpansionRAMSize byte
	SpecialVersion   byte
	CartridgeSubType byte
	Title            [21]byte
	MapMode          byte
	CartridgeType    byte
	ROMSize          byte
	RAMSize          byte
	DestinationCode  byte
	Fixed2           byte
	MaskROMVersion   byte
	Complement       uint16
	Checksum         uint16
}

// Header is the decoded internal cartridge header.
type Header struct {
	Title         string
	MapMode       byte
	CartridgeType byte
	ROMSizeKB     int
	SRAMSizeKB    int
	Country       byte
	Developer     byte
	Version       byte
	Complement    uint16
	Checksum      uint16
}

// Valid reports whether the stored checksum and complement are consistent.
func (h Header) Valid() bool {
	return h.Checksum^h.Complement == 0xFFFF
}

// MappingMode detects LoROM vs HiROM by checking which candidate header
// location holds a consistent checksum/complement pair.
func (img *Image) MappingMode() MappingMode {
	if img.headerValidAt(loROMHeaderOffset) {
		return MappingLoROM
	}
	if img.headerValidAt(hiROMHeaderOffset) {
		return MappingHiROM
	}
	return MappingUnknown
}

func (img *Image) headerValidAt(offset int64) bool {
	b := img.Read(offset+0x2C, 4)
	if len(b) < 4 {
		return false
	}
	complement := binary.LittleEndian.Uint16(b[0:2])
	checksum := binary.LittleEndian.Uint16(b[2:4])
	return checksum^complement == 0xFFFF
}

// HeaderOffset returns the file offset of the internal header for the
// detected mapping mode. An undetectable mapping falls back to HiROM, the
// mode of the supported title.
func (img *Image) HeaderOffset() int64 {
	if img.MappingMode() == MappingLoROM {
		return loROMHeaderOffset
	}
	return hiROMHeaderOffset
}

// ReadHeader decodes the internal cartridge header.
func (img *Image) ReadHeader() (Header, error) {
	offset := img.HeaderOffset()
	raw := img.Read(offset, 0x30)
	if int64(len(raw)) < 0x30 {
		return Header{}, fmt.Errorf("rom too small for internal header at 0x%X", offset)
	}

	var rh rawHeader
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &rh); err != nil {
		return Header{}, fmt.Errorf("decode internal header: %w", err)
	}

	h := Header{
		Title:         strings.TrimRight(printableTitle(rh.Title[:]), " "),
		MapMode:       rh.MapMode,
		CartridgeType: rh.CartridgeType,
		ROMSizeKB:     1 << rh.ROMSize,
		Country:       rh.DestinationCode,
		Developer:     rh.Fixed2,
		Version:       rh.MaskROMVersion,
		Complement:    rh.Complement,
		Checksum:      rh.Checksum,
	}
	if rh.RAMSize != 0 {
		h.SRAMSizeKB = 1 << rh.RAMSize
	}
	return h, nil
}

func printableTitle(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7F {
			out[i] = c
		} else {
			out[i] = '?'
		}
	}
	return string(out)
}

// Checksum computes the 16-bit SNES checksum: the sum of all ROM data bytes
// modulo 65536. Only correct as-is for power-of-two ROM sizes, which covers
// the canonical image.
func (img *Image) Checksum() uint16 {
	var sum uint32
	for _, b := range img.Data() {
		sum += uint32(b)
	}
	return uint16(sum)
}
