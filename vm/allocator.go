package vm

// frameRef names a frame together with the physical address of the parent
// slot pointing at it. Clearing that slot detaches the frame from the tree.
type frameRef struct {
	frame      uint64
	parentSlot uint64
}

// pageRef is a resident leaf: its frame plus the virtual page it holds.
type pageRef struct {
	frameRef
	pageNum uint64
}

// walkState is the visitor state one survey pass fills in: the first empty
// interior table, the highest frame number named by any slot, and the leaf
// whose page lies furthest (cyclically) from the page being brought in.
// A frame number of 0 in a candidate means "none found yet"; that also
// keeps the root out of every candidate set.
type walkState struct {
	page   uint64 // page being swapped in
	source uint64 // frame the walk is standing on, never returned

	empty   frameRef
	victim  pageRef
	maxUsed uint64
	maxDist uint64
}

// survey is a depth-first pass over the page-table tree. prefix is the
// accumulated virtual page number down to the current node; at leaf depth
// it is the full page number of the resident page.
func (m *Manager) survey(state *walkState, depth int, parentSlot uint64, frame uint64, prefix uint64) {
	if depth == m.config.TablesDepth {
		dist := m.cyclicDistance(prefix, state.page)
		if dist > state.maxDist && frame != state.source {
			state.maxDist = dist
			state.victim = pageRef{frameRef{frame, parentSlot}, prefix}
		}
		return
	}

	isEmpty := true
	for offset := uint64(0); offset < m.config.PageSize(); offset++ {
		slot := m.physicalAddress(frame, offset)
		child := uint64(m.memory.ReadWord(slot))
		if child == 0 {
			continue
		}
		if child > state.maxUsed {
			state.maxUsed = child
		}
		isEmpty = false
		m.survey(state, depth+1, slot, child, (prefix<<m.config.OffsetWidth)|offset)
	}

	// First empty table found wins; the source frame stays attached.
	if isEmpty && frame != state.source && state.empty.frame == 0 {
		state.empty = frameRef{frame, parentSlot}
	}
}

// acquireFrame finds or manufactures a frame to link below sourceFrame at
// walk depth d: reuse an empty interior table, extend into a never-used
// frame, or evict the leaf furthest from page. The returned frame is never
// 0 and never sourceFrame; when it will hold an interior table it comes
// back fully zeroed. The caller restores leaf contents itself.
func (m *Manager) acquireFrame(page uint64, sourceFrame uint64, d int) uint64 {
	state := walkState{page: page, source: sourceFrame}
	m.survey(&state, 0, 0, 0, 0)

	var frame uint64
	switch {
	case state.empty.frame != 0:
		// An interior table with no live children: detach and recycle.
		m.memory.WriteWord(state.empty.parentSlot, 0)
		frame = state.empty.frame
		m.log.Debug("reusing empty table", "frame", frame)

	case state.maxUsed+1 < m.config.NumFrames:
		frame = state.maxUsed + 1
		m.log.Debug("extending into unused frame", "frame", frame)

	default:
		// Memory is saturated: detach the victim, write it back, reuse
		// its frame. The parent slot is cleared before the eviction
		// completes.
		m.memory.WriteWord(state.victim.parentSlot, 0)
		m.memory.EvictPage(state.victim.frame, state.victim.pageNum)
		frame = state.victim.frame
		m.log.Info("page evicted", "page", state.victim.pageNum, "frame", frame, "incoming", page)
	}

	if d < m.config.TablesDepth-1 {
		// The frame will hold an interior table and must start with no
		// children.
		m.clearTable(frame)
	}
	return frame
}
