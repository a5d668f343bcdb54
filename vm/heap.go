package vm

const (
	defaultHeapSize = 4096
	minGrowth       = 256
)

// Heap is the fixed-layout node vector described in §3/§4.1: nodes live
// in a single contiguous slice addressed by Index, bump-allocated, and
// grown by doubling when the ephemeral region is exhausted. Index 0 is
// reserved and never allocated.
//
// mem_low (§4.1 "the low-water mark") splits the heap into definition
// space (index < low, frozen once a definition commits, never touched by
// GC) and ephemeral space (index >= low: stack, program, dumps,
// intermediate lists).
type Heap struct {
	nodes []Node
	free  Index // next free index; len(nodes) tracks capacity
	low   Index // mem_low

	dicts    map[Index][]DictEntry // DICT side table, keyed by the owning node's Val
	nextDict Index

	maxSize uint64 // 0 = unbounded, in cells

	used       uint64 // cumulative watermark of memory_used()
	gcCount    uint64
	freedBytes uint64
}

// NewHeap allocates a Heap with the given initial capacity (cells) and
// an optional maximum (0 = unbounded, per vm.Config.MaxMemorySize).
func NewHeap(initial int, max uint64) *Heap {
	if initial <= 0 {
		initial = defaultHeapSize
	}
	h := &Heap{
		nodes:    make([]Node, 1, initial), // index 0 reserved, never used
		free:     1,
		low:      1,
		dicts:    make(map[Index][]DictEntry),
		nextDict: 1,
		maxSize:  max,
	}
	return h
}

// Cap returns the current capacity in cells.
func (h *Heap) Cap() int { return len(h.nodes) }

// Free returns the next free index (current high-water allocation mark).
func (h *Heap) Free() Index { return h.free }

// Low returns the current mem_low value.
func (h *Heap) Low() Index { return h.low }

// AdvanceLow freezes everything allocated so far into definition space.
// Called after a definition body is fully linked into the symbol table
// (§4.1: "After each definition is committed, mem_low advances to the
// current free index").
func (h *Heap) AdvanceLow() { h.low = h.free }

// Node returns the node at index i. Index 0 always yields the zero Node
// (ILLEGAL tag, NilIndex links), matching the "null sentinel" invariant.
func (h *Heap) Node(i Index) Node {
	if i == NilIndex || int(i) >= len(h.nodes) {
		return Node{}
	}
	return h.nodes[i]
}

// Set overwrites the node at index i. Used only by primitives that are
// documented to mutate in place (session/variable roots); ordinary
// evaluation never mutates a node after it is built (§3: "Strings ...
// immutable once stored").
func (h *Heap) Set(i Index, n Node) {
	if i != NilIndex && int(i) < len(h.nodes) {
		h.nodes[i] = n
	}
}

// MemoryUsed reports cells currently in the allocated (ephemeral+
// definition) region.
func (h *Heap) MemoryUsed() uint64 { return uint64(h.free) }

// MemoryMax reports the configured maximum in cells (0 = unbounded).
func (h *Heap) MemoryMax() uint64 { return h.maxSize }

// GCCount reports the number of completed mark/scan cycles.
func (h *Heap) GCCount() uint64 { return h.gcCount }

// alloc reserves n contiguous cells and returns the index of the first
// one, growing the backing slice if needed. It never collects; callers
// (new_node's slow path) decide when to collect first.
func (h *Heap) alloc(n int) Index {
	need := int(h.free) + n
	if need > cap(h.nodes) {
		h.grow(need)
	}
	idx := h.free
	if need > len(h.nodes) {
		h.nodes = h.nodes[:need]
	}
	h.free = Index(need)
	return idx
}

func (h *Heap) grow(need int) {
	newCap := cap(h.nodes)
	if newCap == 0 {
		newCap = defaultHeapSize
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]Node, len(h.nodes), newCap)
	copy(grown, h.nodes)
	h.nodes = grown
}

// shrink halves capacity when post-GC occupancy drops below 10% (§4.1
// growth policy), but never below defaultHeapSize and never below the
// space already frozen by mem_low.
func (h *Heap) shrink() {
	occupancy := float64(h.free) / float64(cap(h.nodes))
	if occupancy >= 0.10 {
		return
	}
	newCap := cap(h.nodes) / 2
	if newCap < defaultHeapSize || newCap < int(h.low) {
		return
	}
	shrunk := make([]Node, h.free, newCap)
	copy(shrunk, h.nodes[:h.free])
	h.nodes = shrunk
}

// hasRoom reports whether n more cells fit without growing.
func (h *Heap) hasRoom(n int) bool {
	return int(h.free)+n <= cap(h.nodes)
}

// newNode allocates one node with the given tag/payload/next, used by
// new_node after the allocator/GC slow path has already ensured room (or
// decided to grow anyway). It does not itself trigger GC — that
// decision belongs to Context.newNode, which knows about
// reading_definition.
func (h *Heap) newNode(n Node) Index {
	idx := h.alloc(1)
	h.nodes[idx] = n
	return idx
}

// newDict allocates a fresh, empty DICT side-table slot and returns the
// Val to store in the owning DICT node.
func (h *Heap) newDict() Index {
	id := h.nextDict
	h.nextDict++
	h.dicts[id] = nil
	return id
}

// dictEntries returns the backing slice for a DICT node's Val.
func (h *Heap) dictEntries(id Index) []DictEntry { return h.dicts[id] }

// setDictEntries replaces the backing slice for a DICT node's Val.
func (h *Heap) setDictEntries(id Index, entries []DictEntry) { h.dicts[id] = entries }
