package vm

import (
	"errors"
	"log/slog"

	"github.com/Ra0R/vmm_lab02/infrastructure"
)

var (
	Package = "vm"

	// ErrInvalidAddress is returned when a virtual address falls outside
	// the configured address space.
	ErrInvalidAddress = errors.New(Package + "- virtual address out of range")
)

const (
	actionRead = iota
	actionWrite
)

// Manager serves one virtual address space over a physical memory. Frame 0
// is the permanent root of the page-table tree; a zero table entry means
// "no child". Single-threaded: callers wanting concurrency must serialize
// around the whole of Read/Write, there is no finer safe point inside the
// walk.
type Manager struct {
	config *infrastructure.Config
	memory infrastructure.PhysicalMemory
	log    *slog.Logger
}

// NewManager wires a translation layer over the given physical memory. A
// nil logger silences the layer.
func NewManager(config *infrastructure.Config, memory infrastructure.PhysicalMemory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = infrastructure.NewSilentLogger()
	}
	return &Manager{
		config: config,
		memory: memory,
		log:    logger,
	}
}

// Initialize zeroes the root table. Must be called once before any
// translation.
func (m *Manager) Initialize() {
	m.clearTable(0)
}

// Read translates virtualAddress and returns the word stored there.
func (m *Manager) Read(virtualAddress uint64) (infrastructure.Word, error) {
	var value infrastructure.Word
	if err := m.access(virtualAddress, &value, actionRead); err != nil {
		return 0, err
	}
	return value, nil
}

// Write translates virtualAddress and stores value there.
func (m *Manager) Write(virtualAddress uint64, value infrastructure.Word) error {
	return m.access(virtualAddress, &value, actionWrite)
}

// access walks the page-table tree from the root, growing it as it goes.
// Read and write share the walk and differ only in the final word access.
func (m *Manager) access(virtualAddress uint64, value *infrastructure.Word, action int) error {
	if virtualAddress >= m.config.VirtualMemorySize() {
		m.log.Warn("invalid virtual address", "address", virtualAddress)
		return ErrInvalidAddress
	}

	page := virtualAddress >> m.config.OffsetWidth
	frame := uint64(0)

	for i := 0; i < m.config.TablesDepth; i++ {
		slot := m.physicalAddress(frame, m.levelOffset(virtualAddress, i))
		child := uint64(m.memory.ReadWord(slot))

		if child == 0 {
			// Missing link: manufacture a frame. The current frame is the
			// one whose slot we are about to fill, so the allocator must
			// not recycle it.
			child = m.acquireFrame(page, frame, i)
			m.memory.WriteWord(slot, infrastructure.Word(child))

			if i == m.config.TablesDepth-1 {
				// New leaf: bring the page in from the backing store.
				m.memory.RestorePage(child, page)
				m.log.Debug("page restored", "page", page, "frame", child)
			}
		}

		frame = child
	}

	addr := m.physicalAddress(frame, m.levelOffset(virtualAddress, m.config.TablesDepth))
	if action == actionRead {
		*value = m.memory.ReadWord(addr)
	} else {
		m.memory.WriteWord(addr, *value)
	}
	return nil
}
