package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the address-space geometry. The host sets these once; all
// derived sizes are computed from them.
type Config struct {
	OffsetWidth         int    `json:"OFFSET_WIDTH"`          // Bits per table level
	VirtualAddressWidth int    `json:"VIRTUAL_ADDRESS_WIDTH"` // Total virtual address bits
	TablesDepth         int    `json:"TABLES_DEPTH"`          // Table levels above the leaves
	NumFrames           uint64 `json:"NUM_FRAMES"`            // Physical frames available
	LogLevel            string `json:"LOG_LEVEL"`
}

// DefaultConfig mirrors the classic build: 16-word pages, 4 table levels,
// a 1M-word virtual space over 16 frames.
func DefaultConfig() *Config {
	return &Config{
		OffsetWidth:         4,
		VirtualAddressWidth: 20,
		TablesDepth:         4,
		NumFrames:           16,
		LogLevel:            "info",
	}
}

// LoadConfig reads a JSON config file and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects geometries the translation layer cannot serve. A full
// walk pins one frame per level plus the root, so NumFrames must cover
// TablesDepth+1 frames; anything smaller is a configuration error, not a
// runtime condition.
func (c *Config) Validate() error {
	if c.OffsetWidth <= 0 {
		return fmt.Errorf("OFFSET_WIDTH must be positive, got %d", c.OffsetWidth)
	}
	if c.TablesDepth <= 0 {
		return fmt.Errorf("TABLES_DEPTH must be positive, got %d", c.TablesDepth)
	}
	if c.VirtualAddressWidth <= c.OffsetWidth {
		return fmt.Errorf("VIRTUAL_ADDRESS_WIDTH (%d) must exceed OFFSET_WIDTH (%d)",
			c.VirtualAddressWidth, c.OffsetWidth)
	}
	if c.VirtualAddressWidth < c.OffsetWidth*c.TablesDepth {
		return fmt.Errorf("VIRTUAL_ADDRESS_WIDTH (%d) too small for %d table levels of %d bits",
			c.VirtualAddressWidth, c.TablesDepth, c.OffsetWidth)
	}
	if c.NumFrames < uint64(c.TablesDepth)+1 {
		return fmt.Errorf("NUM_FRAMES (%d) cannot hold a full walk of depth %d",
			c.NumFrames, c.TablesDepth)
	}
	return nil
}

// PageSize is the number of words per frame, and entries per table.
func (c *Config) PageSize() uint64 {
	return 1 << c.OffsetWidth
}

// NumPages is the number of virtual pages in the address space.
func (c *Config) NumPages() uint64 {
	return 1 << (c.VirtualAddressWidth - c.OffsetWidth)
}

// VirtualMemorySize is the virtual address space size in words.
func (c *Config) VirtualMemorySize() uint64 {
	return 1 << c.VirtualAddressWidth
}

// PhysicalMemorySize is the RAM size in words.
func (c *Config) PhysicalMemorySize() uint64 {
	return c.NumFrames * c.PageSize()
}
