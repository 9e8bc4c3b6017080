// Package devcfg loads the station file: where the flash image lives and
// how the configuration store should be opened over it.
package devcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Station is the top-level station file.
type Station struct {
	Flash FlashConfig `yaml:"flash"`
	Store StoreConfig `yaml:"store"`
}

// FlashConfig describes the flash image backing the store.
type FlashConfig struct {
	Image      string `yaml:"image"`
	EraseBlock int64  `yaml:"erase_block"`
	SizeBytes  int64  `yaml:"size_bytes"`
}

// StoreConfig carries store open options.
type StoreConfig struct {
	Integrity         string `yaml:"integrity"` // "sha256" or "checksum"
	AllowDefaultWrite bool   `yaml:"allow_default_write"`
}

// Default geometry: a 32 KiB image with 4 KiB erase blocks, matching the
// reference layout.
const (
	DefaultEraseBlock = 4096
	DefaultImageSize  = 32 * 1024
	DefaultIntegrity  = "sha256"
)

// Load reads, normalizes, and validates a station file.
func Load(path string) (Station, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Station{}, fmt.Errorf("devcfg: read %s: %w", path, err)
	}
	var st Station
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return Station{}, fmt.Errorf("devcfg: parse %s: %w", path, err)
	}
	st.normalize()
	if err := st.validate(); err != nil {
		return Station{}, fmt.Errorf("devcfg: %s: %w", path, err)
	}
	return st, nil
}

// normalize fills unset fields with defaults.
func (s *Station) normalize() {
	if s.Flash.EraseBlock == 0 {
		s.Flash.EraseBlock = DefaultEraseBlock
	}
	if s.Flash.SizeBytes == 0 {
		s.Flash.SizeBytes = DefaultImageSize
	}
	if s.Store.Integrity == "" {
		s.Store.Integrity = DefaultIntegrity
	}
}

// validate rejects geometry the store cannot open.
func (s *Station) validate() error {
	if s.Flash.Image == "" {
		return fmt.Errorf("flash.image is required")
	}
	if s.Flash.EraseBlock <= 0 {
		return fmt.Errorf("flash.erase_block must be positive, got %d", s.Flash.EraseBlock)
	}
	if s.Flash.SizeBytes <= 0 || s.Flash.SizeBytes%s.Flash.EraseBlock != 0 {
		return fmt.Errorf("flash.size_bytes (%d) must be a positive multiple of erase_block (%d)",
			s.Flash.SizeBytes, s.Flash.EraseBlock)
	}
	switch s.Store.Integrity {
	case "sha256", "checksum":
	default:
		return fmt.Errorf("store.integrity must be sha256 or checksum, got %q", s.Store.Integrity)
	}
	return nil
}
