// rominfo is a read-only SNES ROM inspection utility. It is not part of
// the build pipeline: it never mutates an image.
//
// Usage:
//
//	rominfo info <rom>
//	rominfo checksum <rom>
//	rominfo hexdump <rom> [-offset 0x0] [-length 256]
//	rominfo compare <rom> <modified>
//	rominfo offsets
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"romforge/internal/rom"
)

// Known Chrono Trigger data locations, as HiROM bus addresses.
var knownOffsets = map[string]uint32{
	"dialogue_pointers": 0xDEF000,
	"item_data":         0xCC0000,
	"enemy_data":        0xCC5000,
	"tech_data":         0xCC1B68,
	"character_stats":   0xCC2500,
	"shop_data":         0xCC0E00,
	"location_names":    0xC6F200,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = cmdInfo(os.Args[2:])
	case "checksum":
		err = cmdChecksum(os.Args[2:])
	case "hexdump":
		err = cmdHexdump(os.Args[2:])
	case "compare":
		err = cmdCompare(os.Args[2:])
	case "offsets":
		err = cmdOffsets()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rominfo <info|checksum|hexdump|compare|offsets> [args]")
}

func openArg(args []string, name string) (*rom.Image, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("rominfo %s: rom path required", name)
	}
	return rom.Open(args[0])
}

func cmdInfo(args []string) error {
	img, err := openArg(args, "info")
	if err != nil {
		return err
	}
	header, err := img.ReadHeader()
	if err != nil {
		return err
	}
	md5hex, sha1hex := img.Digests()

	fmt.Printf("File Size: %d bytes\n", img.FileSize())
	fmt.Printf("Copier Header: %v\n", img.HasCopierHeader)
	fmt.Printf("ROM Size: %d bytes (%d KB)\n", img.Size(), img.Size()/1024)
	fmt.Printf("Mapping Mode: %s\n", img.MappingMode())
	fmt.Println()
	fmt.Printf("Title: %s\n", header.Title)
	fmt.Printf("ROM: %d KB  SRAM: %d KB\n", header.ROMSizeKB, header.SRAMSizeKB)
	fmt.Printf("Country: %d  Version: 1.%d\n", header.Country, header.Version)
	fmt.Printf("Checksum: 0x%04X  Complement: 0x%04X  Valid: %v\n",
		header.Checksum, header.Complement, header.Valid())
	fmt.Println()
	fmt.Printf("MD5:  %s\n", md5hex)
	fmt.Printf("SHA1: %s\n", sha1hex)
	return nil
}

func cmdChecksum(args []string) error {
	img, err := openArg(args, "checksum")
	if err != nil {
		return err
	}
	header, err := img.ReadHeader()
	if err != nil {
		return err
	}
	computed := img.Checksum()
	fmt.Printf("Computed: 0x%04X  Stored: 0x%04X  Match: %v\n",
		computed, header.Checksum, computed == header.Checksum)
	return nil
}

func cmdHexdump(args []string) error {
	fs := flag.NewFlagSet("hexdump", flag.ContinueOnError)
	offset := fs.String("offset", "0x0", "Start offset (hex or decimal).")
	length := fs.String("length", "256", "Number of bytes (hex or decimal).")
	rest, err := splitRomArg(fs, args, "hexdump")
	if err != nil {
		return err
	}

	img, err := rom.Open(rest)
	if err != nil {
		return err
	}
	off, err := parseNumber(*offset)
	if err != nil {
		return fmt.Errorf("invalid -offset: %w", err)
	}
	n, err := parseNumber(*length)
	if err != nil {
		return fmt.Errorf("invalid -length: %w", err)
	}
	fmt.Println(img.Hexdump(off, n))
	return nil
}

// splitRomArg parses flags that may appear before or after the single rom
// positional argument.
func splitRomArg(fs *flag.FlagSet, args []string, name string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		// Maybe the rom came first: rominfo hexdump rom.sfc -offset ...
		if len(args) >= 1 && args[0] != "" && args[0][0] != '-' {
			if err := fs.Parse(args[1:]); err != nil {
				return "", err
			}
			if fs.NArg() == 0 {
				return args[0], nil
			}
		}
		return "", fmt.Errorf("rominfo %s: exactly one rom path required", name)
	}
	return fs.Arg(0), nil
}

func parseNumber(s string) (int64, error) {
	// Base 0 accepts both 0x-prefixed hex and decimal.
	return strconv.ParseInt(s, 0, 64)
}

func cmdCompare(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("rominfo compare: two rom paths required")
	}
	a, err := rom.Open(args[0])
	if err != nil {
		return err
	}
	b, err := rom.Open(args[1])
	if err != nil {
		return err
	}

	diffs, sizeDelta := rom.Compare(a, b)
	if len(diffs) == 0 && sizeDelta == 0 {
		fmt.Println("ROMs are identical.")
		return nil
	}

	fmt.Printf("Found %d difference(s):\n", len(diffs))
	const limit = 100
	for i, d := range diffs {
		if i == limit {
			fmt.Printf("  ... and %d more differences\n", len(diffs)-limit)
			break
		}
		fmt.Printf("  0x%06X: %02X -> %02X\n", d.Offset, d.Original, d.Modified)
	}
	if sizeDelta != 0 {
		fmt.Printf("  Size difference: %d vs %d bytes\n", a.Size(), b.Size())
	}
	return nil
}

func cmdOffsets() error {
	names := make([]string, 0, len(knownOffsets))
	for name := range knownOffsets {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Known Chrono Trigger data locations (HiROM):")
	for _, name := range names {
		bus := knownOffsets[name]
		pc, err := rom.HiROMBusToPC(bus)
		if err != nil {
			return fmt.Errorf("map $%06X: %w", bus, err)
		}
		fmt.Printf("  %-20s bus $%06X  file 0x%06X\n", name, bus, pc)
	}
	return nil
}
