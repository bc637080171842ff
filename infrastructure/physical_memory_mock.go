package infrastructure

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// PhysicalMemoryMock is an in-memory physical memory for tests and hosts
// without real hardware. Evicted pages are kept as msgpack-encoded images
// keyed by virtual page number, standing in for a swap file.
type PhysicalMemoryMock struct {
	ram      []Word
	swap     map[uint64][]byte
	pageSize uint64

	evictions int
	restores  int
}

// NewPhysicalMemoryMock returns a zeroed RAM with an empty swap store.
func NewPhysicalMemoryMock(config *Config) *PhysicalMemoryMock {
	return &PhysicalMemoryMock{
		ram:      make([]Word, config.PhysicalMemorySize()),
		swap:     make(map[uint64][]byte),
		pageSize: config.PageSize(),
	}
}

// ReadWord reads one word of RAM
func (m *PhysicalMemoryMock) ReadWord(addr uint64) Word {
	m.checkAddr(addr)
	return m.ram[addr]
}

// WriteWord writes one word of RAM
func (m *PhysicalMemoryMock) WriteWord(addr uint64, value Word) {
	m.checkAddr(addr)
	m.ram[addr] = value
}

// EvictPage serializes the frame's contents into the swap store.
func (m *PhysicalMemoryMock) EvictPage(frame uint64, pageNum uint64) {
	base := frame * m.pageSize
	m.checkAddr(base + m.pageSize - 1)

	image := make([]Word, m.pageSize)
	copy(image, m.ram[base:base+m.pageSize])

	encoded, err := msgpack.Marshal(image)
	if err != nil {
		panic(fmt.Sprintf("could not encode page %d: %v", pageNum, err))
	}

	m.swap[pageNum] = encoded
	m.evictions++
}

// RestorePage copies the stored image for pageNum into the frame. Pages
// never stored restore as zeroes.
func (m *PhysicalMemoryMock) RestorePage(frame uint64, pageNum uint64) {
	base := frame * m.pageSize
	m.checkAddr(base + m.pageSize - 1)

	encoded, ok := m.swap[pageNum]
	if !ok {
		for i := uint64(0); i < m.pageSize; i++ {
			m.ram[base+i] = 0
		}
		m.restores++
		return
	}

	var image []Word
	if err := msgpack.Unmarshal(encoded, &image); err != nil {
		panic(fmt.Sprintf("could not decode page %d: %v", pageNum, err))
	}

	copy(m.ram[base:base+m.pageSize], image)
	m.restores++
}

// Evictions returns the number of EvictPage calls.
func (m *PhysicalMemoryMock) Evictions() int {
	return m.evictions
}

// Restores returns the number of RestorePage calls.
func (m *PhysicalMemoryMock) Restores() int {
	return m.restores
}

// PageStored reports whether the swap store holds an image for pageNum.
func (m *PhysicalMemoryMock) PageStored(pageNum uint64) bool {
	_, ok := m.swap[pageNum]
	return ok
}

// SwapLen returns the number of pages in the swap store.
func (m *PhysicalMemoryMock) SwapLen() int {
	return len(m.swap)
}

func (m *PhysicalMemoryMock) checkAddr(addr uint64) {
	if addr >= uint64(len(m.ram)) {
		panic(fmt.Sprintf("physical address %d out of range (%d words)", addr, len(m.ram)))
	}
}
