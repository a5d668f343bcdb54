package vm

// GC is a per-context tracing collector over the ephemeral region of a
// Heap (index >= Heap.low). §9 of the specification explicitly sanctions
// replacing the reference implementation's conservative-native-stack
// mark/scan with a precise collector, because every root the evaluator
// ever needs is already explicit: the operand stack, the program
// register, the dump stack and the symbol table's user-variable roots
// (§4.2: "this replaces the conservative scan entirely and is sound
// because the evaluator already knows every root").
//
// Because nodes are addressed by Index into a single Go slice rather
// than by raw pointer, growing the heap (Heap.grow) never invalidates an
// Index — append-style growth keeps every existing index valid. That
// retires the reference implementation's COPIED-tag forwarding trick for
// the growth case entirely. Forwarding is needed only to *reclaim*
// ephemeral garbage, i.e. to compact index >= low back down after a
// collection, and there it is kept in the visited map below rather than
// in COPIED-tagged nodes.
type GC struct {
	trace bool
	// visited maps an old ephemeral index to its new (compacted) index
	// for the duration of one Collect call.
	visited map[Index]Index
}

// NewGC creates a collector for one context. trace enables GC-trace
// diagnostics routed through the context's I/O vtable (§4.5 Config.
// GCTrace).
func NewGC(trace bool) *GC {
	return &GC{trace: trace, visited: make(map[Index]Index)}
}

// roots enumerates every GC root of a context: the operand stack head,
// the program register, the dump stack frames, and the symbol table's
// user-variable root slots (§3 "six root registers", §4.2).
func (ctx *Context) roots() []Index {
	r := make([]Index, 0, 8+len(ctx.dump.frames))
	r = append(r, ctx.stack, ctx.program, ctx.continuation)
	r = append(r, ctx.dump.frames...)
	for _, idx := range ctx.symtab.Roots() {
		r = append(r, idx)
	}
	// On a task context, bodyCache holds every USER_DEFINED body already
	// deep-copied in from the parent (§4.4 resolveBody); those copies
	// are reachable only through the cache, so they need to be rooted
	// explicitly or a collection would reclaim them out from under a
	// symbol the child hasn't re-resolved since.
	for _, idx := range ctx.bodyCache {
		r = append(r, idx)
	}
	return r
}

// Collect reclaims unreferenced ephemeral cells, preserving everything
// reachable from ctx.roots(). Definition space (index < Heap.low) is
// never touched (§4.2 "Definition immunity").
//
// GC is forbidden while a definition is being read or while a parallel
// deep-copy is in flight (§4.2 ordering/safety); Context.allocate
// enforces that by simply not calling Collect in those windows.
func (ctx *Context) Collect() {
	h := ctx.heap
	gc := ctx.gc
	gc.visited = make(map[Index]Index, int(h.free-h.low))

	// Compacted ephemeral region starts immediately after mem_low.
	dst := h.low
	scratch := make([]Node, 0, int(h.free-h.low))

	// mark copies a reachable node (and, for LIST, its Val subchain) into
	// scratch the first time it is visited and memoizes old->new so
	// shared sub-structure is copied once. Next-chains are walked via
	// this same memoized recursion; since chain length is bounded by live
	// ephemeral cell count it never approaches Go's stack limits in
	// practice, and memoization makes it safe against the shared-tail
	// aliasing that a plain iterative walk would have to special-case.
	var mark func(old Index) Index
	mark = func(old Index) Index {
		if old == NilIndex || old < h.low {
			return old
		}
		if nu, ok := gc.visited[old]; ok {
			return nu
		}
		n := h.nodes[old]
		nu := dst + Index(len(scratch))
		gc.visited[old] = nu
		scratch = append(scratch, n)
		if n.Tag == LIST {
			scratch[len(scratch)-1].Val = mark(n.Val)
		}
		scratch[len(scratch)-1].Next = mark(n.Next)
		return nu
	}

	for _, r := range ctx.roots() {
		mark(r)
	}
	// DICT values live in a side table keyed by dict id, not by heap
	// Index, so the chain walk above never visits them. Treat every
	// dict entry's Value as an implicit extra root so it survives
	// compaction; this is conservative (a dict dropped from every other
	// root still keeps its values alive) but never leaves a dict entry
	// pointing at a compacted-away index.
	for _, entries := range h.dicts {
		for _, e := range entries {
			mark(e.Value)
		}
	}

	before := h.free - h.low
	after := Index(len(scratch))

	copy(h.nodes[h.low:], scratch)
	h.free = h.low + after
	h.nodes = h.nodes[:h.free]

	// Rewrite roots to their compacted locations.
	ctx.stack = remap(gc.visited, ctx.stack, h.low)
	ctx.program = remap(gc.visited, ctx.program, h.low)
	ctx.continuation = remap(gc.visited, ctx.continuation, h.low)
	for i, f := range ctx.dump.frames {
		ctx.dump.frames[i] = remap(gc.visited, f, h.low)
	}
	ctx.symtab.RemapRoots(func(idx Index) Index { return remap(gc.visited, idx, h.low) })
	for sym, idx := range ctx.bodyCache {
		ctx.bodyCache[sym] = remap(gc.visited, idx, h.low)
	}
	for id, entries := range h.dicts {
		for i, e := range entries {
			entries[i].Value = remap(gc.visited, e.Value, h.low)
		}
		h.dicts[id] = entries
	}

	h.gcCount++
	if before > after {
		h.freedBytes += uint64(before - after)
	}
	h.shrink()

	if gc.trace && ctx.io != nil {
		ctx.io.Tracef("gc #%d: %d -> %d ephemeral cells\n", h.gcCount, before, after)
	}
}

func remap(visited map[Index]Index, idx, low Index) Index {
	if idx == NilIndex || idx < low {
		return idx
	}
	if nu, ok := visited[idx]; ok {
		return nu
	}
	return idx
}
