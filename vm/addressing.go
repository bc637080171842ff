package vm

// levelOffset extracts the table index used at walk level d. The slice at
// level d occupies bits [(TablesDepth-d)*OffsetWidth, ...+OffsetWidth) of
// the virtual address; the top-most slice is clipped to
// VirtualAddressWidth and zero-extended when the width is not an exact
// multiple.
func (m *Manager) levelOffset(virtualAddress uint64, d int) uint64 {
	idx := (m.config.TablesDepth - d) * m.config.OffsetWidth
	bits := m.config.VirtualAddressWidth - idx
	if bits > m.config.OffsetWidth {
		bits = m.config.OffsetWidth
	}
	return (virtualAddress >> idx) & (uint64(1)<<bits - 1)
}

// physicalAddress composes a frame number and an in-frame offset.
func (m *Manager) physicalAddress(frame uint64, offset uint64) uint64 {
	return frame*m.config.PageSize() + offset
}

// cyclicDistance treats the page-number space as a ring and returns the
// shorter way around between a and b. Eviction candidates are ranked by
// this distance from the incoming page.
func (m *Manager) cyclicDistance(a uint64, b uint64) uint64 {
	diff := a - b
	if b > a {
		diff = b - a
	}
	if wrapped := m.config.NumPages() - diff; wrapped < diff {
		return wrapped
	}
	return diff
}

// clearTable zeroes every word of a frame.
func (m *Manager) clearTable(frame uint64) {
	for offset := uint64(0); offset < m.config.PageSize(); offset++ {
		m.memory.WriteWord(m.physicalAddress(frame, offset), 0)
	}
}
