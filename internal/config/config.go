// Package config defines the YAML build configuration and its defaults.
//
// Every path is interpreted relative to the project root unless absolute.
// A missing config file is not an error: the defaults describe the
// conventional project layout (base.smc at the root, src/ and patches/
// trees, out/ for build products).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file romforge looks for when -config is not given.
const DefaultPath = "romforge.yml"

// Tools names the external programs the pipeline shells out to. Each may be
// a bare name (resolved on PATH) or an explicit path.
type Tools struct {
	// Assembler mutates a ROM in place from an assembly patch file.
	Assembler string `yaml:"assembler"`

	// Codec applies and creates binary patches (IPS/BPS).
	Codec string `yaml:"codec"`

	// Emulator is used interactively by the operator; the build never
	// invokes it, but romdoctor verifies it is present.
	Emulator string `yaml:"emulator"`
}

// Config is the full build configuration.
type Config struct {
	// Base is the path to the unmodified input ROM.
	Base string `yaml:"base"`

	// SrcDir is the tree searched recursively for .asm source patches.
	SrcDir string `yaml:"src"`

	// PatchesDir is the tree searched recursively for .ips/.bps patches.
	PatchesDir string `yaml:"patches"`

	// OutDir receives the working image and the optional distribution patch.
	OutDir string `yaml:"out"`

	// CleanSize is the canonical unheadered ROM size in bytes.
	CleanSize int64 `yaml:"clean_size"`

	// HeaderSize is the size of the optional copier header some ROM dumps
	// carry in front of the ROM data.
	HeaderSize int64 `yaml:"header_size"`

	Tools Tools `yaml:"tools"`
}

// Default returns the conventional configuration: a 4 MiB HiROM image named
// base.smc, possibly prefixed by a 512-byte copier header.
func Default() Config {
	return Config{
		Base:       "base.smc",
		SrcDir:     "src",
		PatchesDir: "patches",
		OutDir:     "out",
		CleanSize:  4194304,
		HeaderSize: 512,
		Tools: Tools{
			Assembler: "asar",
			Codec:     "flips",
			Emulator:  "snes9x",
		},
	}
}

// Load reads a YAML config file, filling unset fields from Default. A
// missing file yields the defaults; a present but malformed file is an
// error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes, filling unset fields from Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Base == "" {
		return fmt.Errorf("config: base must not be empty")
	}
	if c.CleanSize <= 0 {
		return fmt.Errorf("config: clean_size must be positive (got %d)", c.CleanSize)
	}
	if c.HeaderSize <= 0 {
		return fmt.Errorf("config: header_size must be positive (got %d)", c.HeaderSize)
	}
	if c.Tools.Assembler == "" || c.Tools.Codec == "" {
		return fmt.Errorf("config: tools.assembler and tools.codec must not be empty")
	}
	return nil
}

// WorkingImage is the fixed path of the build's mutable ROM copy.
func (c Config) WorkingImage() string {
	return filepath.Join(c.OutDir, "rom.sfc")
}

// DistArtifact is the fixed path of the optional distribution patch.
func (c Config) DistArtifact() string {
	return filepath.Join(c.OutDir, "dist.bps")
}

// ResolveUnder rebases every relative path in the config onto root. Tool
// names are left alone: bare names resolve on PATH, explicit paths stay
// explicit.
func (c Config) ResolveUnder(root string) Config {
	c.Base = resolve(root, c.Base)
	c.SrcDir = resolve(root, c.SrcDir)
	c.PatchesDir = resolve(root, c.PatchesDir)
	c.OutDir = resolve(root, c.OutDir)
	return c
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}
