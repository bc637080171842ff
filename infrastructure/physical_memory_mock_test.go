package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func mockConfig() *Config {
	return &Config{
		OffsetWidth:         4,
		VirtualAddressWidth: 12,
		TablesDepth:         2,
		NumFrames:           8,
		LogLevel:            "error",
	}
}

func TestReadWriteWord(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	memory.WriteWord(37, -5)

	assert.Equal(t, Word(-5), memory.ReadWord(37))
	assert.Equal(t, Word(0), memory.ReadWord(38))
}

func TestEvictPage_RestorePage_RoundTrip(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	for offset := uint64(0); offset < 16; offset++ {
		memory.WriteWord(16+offset, Word(offset*3))
	}

	memory.EvictPage(1, 42)

	// Trash the frame, then bring the page back.
	for offset := uint64(0); offset < 16; offset++ {
		memory.WriteWord(16+offset, -1)
	}
	memory.RestorePage(1, 42)

	for offset := uint64(0); offset < 16; offset++ {
		assert.Equal(t, Word(offset*3), memory.ReadWord(16+offset))
	}
	assert.Equal(t, 1, memory.Evictions())
	assert.Equal(t, 1, memory.Restores())
	assert.Equal(t, 1, memory.SwapLen())
}

func TestRestorePage_NeverStored_ZeroFills(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	for offset := uint64(0); offset < 16; offset++ {
		memory.WriteWord(32+offset, 9)
	}

	memory.RestorePage(2, 7)

	for offset := uint64(0); offset < 16; offset++ {
		assert.Equal(t, Word(0), memory.ReadWord(32+offset))
	}
	assert.False(t, memory.PageStored(7))
}

func TestEvictPage_OverwritesPreviousImage(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	memory.WriteWord(16, 1)
	memory.EvictPage(1, 42)
	memory.WriteWord(16, 2)
	memory.EvictPage(1, 42)

	memory.WriteWord(16, 0)
	memory.RestorePage(1, 42)

	assert.Equal(t, Word(2), memory.ReadWord(16))
	assert.Equal(t, 1, memory.SwapLen())
}

// The swap store holds plain msgpack images; a stored page must decode
// back to the frame's words.
func TestEvictPage_ImageDecodes(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	memory.WriteWord(16, 11)
	memory.WriteWord(31, 22)
	memory.EvictPage(1, 5)

	var image []Word
	require.Nil(t, msgpack.Unmarshal(memory.swap[5], &image))

	require.Len(t, image, 16)
	assert.Equal(t, Word(11), image[0])
	assert.Equal(t, Word(22), image[15])
}

func TestReadWord_AddressOutOfRange_Panics(t *testing.T) {
	memory := NewPhysicalMemoryMock(mockConfig())

	assert.Panics(t, func() { memory.ReadWord(8 * 16) })
}
