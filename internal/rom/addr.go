package rom

import (
	"github.com/alttpo/snes/mapping/hirom"
	"github.com/alttpo/snes/mapping/lorom"
)

// BusAddressToPC converts a 24-bit SNES bus address to a file offset in the
// unheadered ROM data, using the image's detected mapping mode. Bus
// addresses outside the cartridge ROM area return an error.
func (img *Image) BusAddressToPC(busAddr uint32) (uint32, error) {
	if img.MappingMode() == MappingLoROM {
		return lorom.BusAddressToPak(busAddr)
	}
	return hirom.BusAddressToPak(busAddr)
}

// HiROMBusToPC converts a HiROM bus address to a file offset without
// needing a loaded image. The known-offset tables are expressed as bus
// addresses and converted for display.
func HiROMBusToPC(busAddr uint32) (uint32, error) {
	return hirom.BusAddressToPak(busAddr)
}
