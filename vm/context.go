package vm

import "bufio"

// Config configures a new Context (§4.5 JoyConfig). Unspecified (zero)
// fields keep their zero values: Autoput = AutoputNever, Echo = EchoOff,
// GCTrace = false. NewContext does not replace a zero Autoput with
// AutoputPop.
type Config struct {
	InitialHeapSize int    // cells; 0 = default
	MaxHeapSize     uint64 // cells; 0 = unbounded
	GCTrace         bool
	Autoput         Autoput
	Echo            Echo
	UndefError      bool // §4.3: raise on an empty user-definition body
	IO              IO   // nil = stdio adapter, see NewStdIO
}

// Autoput is the policy controlling whether/how the operand stack is
// printed after each top-level phrase (§6).
type Autoput int

const (
	AutoputNever Autoput = iota
	AutoputPop           // print and pop the top item
	AutoputAll           // print the entire stack, leaving it intact
)

// Echo controls whether/how REPL input lines are echoed (§6).
type Echo int

const (
	EchoOff Echo = iota
	EchoLine
	EchoLineTab
	EchoLineNumber
)

// Stats mirrors EnvStats (original_source/include/internal/env_types.h):
// the subset of runtime counters exposed at the embedding boundary.
type Stats struct {
	Calls int64
	Opers int64
}

// Context is the unit of isolation (§3 "Context"): one heap, one GC
// instance, one symbol table, the six root registers, scanner/echo
// state, an I/O vtable, configuration flags and an error-recovery
// target. A host program drives the interpreter entirely through a
// *Context (the Go realization of the opaque JoyContext handle, §4.5).
type Context struct {
	heap   *Heap
	gc     *GC
	symtab *SymbolTable

	stack        Index
	program      Index
	continuation Index
	dump         DumpStack

	module string // current module path for definitions being read

	readingDefinition bool // §4.1: GC disabled while true
	copyingAcrossCtx  bool // §4.2: GC disabled during a parallel deep-copy

	cfg   Config
	io    IO
	stats Stats

	lastError *Error

	// parentHeap and bodyCache exist only on task contexts created by
	// cloneForTask (§4.4): the symbol table is shared with the parent,
	// but a USER_DEFINED entry's Body index addresses the PARENT's heap.
	// resolveBody (eval.go) lazily deep-copies a body into this
	// context's own heap the first time it is called, and bodyCache
	// remembers the translation so repeated calls don't re-copy.
	parentHeap *Heap
	bodyCache  map[Index]Index

	reader Reader
}

// Reader is the scanner/parser collaborator EvalString and EvalFile
// delegate to (§6: "the scanner/reader is an explicit collaborator,
// not part of vm"). internal/reader implements it; vm only depends on
// the interface, so the dependency points one way.
type Reader interface {
	// ReadPhrase scans the next '.'-terminated top-level phrase from
	// src, builds its factor chain into ctx's heap, and returns the
	// chain head. It returns io.EOF (unwrapped) when src is exhausted
	// with no further phrase to read.
	ReadPhrase(ctx *Context, src *bufio.Reader) (Index, error)
}

// SetReader installs the collaborator EvalString/EvalFile/LoadStdlib
// use to turn source text into factor chains. A host composing its own
// binary calls this once after NewContext, before any Eval*/LoadStdlib
// call or internal/repl.New — cmd/joy does it once up front since both
// its file-argument and REPL code paths need it.
func (ctx *Context) SetReader(r Reader) { ctx.reader = r }

// NewContext creates a fresh, independent interpreter context.
func NewContext(cfg Config) *Context {
	ctx := &Context{
		heap:   NewHeap(cfg.InitialHeapSize, cfg.MaxHeapSize),
		gc:     NewGC(cfg.GCTrace),
		symtab: NewSymbolTable(),
		cfg:    cfg,
		io:     cfg.IO,
	}
	if ctx.io == nil {
		ctx.io = NewStdIO()
	}
	return ctx
}

// Close releases the context's resources. It is always safe to call on
// a context that is done being used; Go's GC owns the backing memory,
// so Close mainly exists to give hosts the symmetrical create/destroy
// pairing the embedding façade promises (§4.5 joy_destroy) and to make
// reuse-after-close a visible bug rather than silent corruption.
func (ctx *Context) Close() {
	ctx.heap = nil
	ctx.symtab = nil
	ctx.stack, ctx.program, ctx.continuation = NilIndex, NilIndex, NilIndex
}

// Heap exposes the node heap for packages that build node structures
// directly (the reader, and combinators that need EnsureCapacity before
// a batch build).
func (ctx *Context) Heap() *Heap { return ctx.heap }

// SymbolTable exposes the symbol table for the reader (definitions) and
// for primitive registration.
func (ctx *Context) SymbolTable() *SymbolTable { return ctx.symtab }

// Dump exposes the combinator save-stack (§4.3).
func (ctx *Context) Dump() *DumpStack { return &ctx.dump }

// IO exposes the I/O vtable so primitives can read/write through it
// (§4.5 "All output-producing primitives ... MUST route through this
// vtable").
func (ctx *Context) IO() IO { return ctx.io }

// Config returns the context's configuration.
func (ctx *Context) Config() Config { return ctx.cfg }

// SetAutoput / GetAutoput, SetEcho / GetEcho: runtime-adjustable mirrors of
// the `setautoput`/`setecho` Joy primitives (§6).
func (ctx *Context) SetAutoput(a Autoput) { ctx.cfg.Autoput = a }
func (ctx *Context) GetAutoput() Autoput  { return ctx.cfg.Autoput }
func (ctx *Context) SetEcho(e Echo)       { ctx.cfg.Echo = e }
func (ctx *Context) GetEcho() Echo        { return ctx.cfg.Echo }

// Stats returns a snapshot of the runtime counters.
func (ctx *Context) Stats() Stats { return ctx.stats }

// MemoryUsed / MemoryMax / GCCount: embedding façade introspection
// (§4.5 joy_memory_used/joy_memory_max/joy_gc_count).
func (ctx *Context) MemoryUsed() uint64 { return ctx.heap.MemoryUsed() }
func (ctx *Context) MemoryMax() uint64  { return ctx.heap.MemoryMax() }
func (ctx *Context) GCCount() uint64    { return ctx.heap.GCCount() }

// LastError returns the error captured by the most recent failing
// evaluation (§4.5 joy_error_message/line/column). Its value is
// undefined after a successful call, per spec.md §4.5.
func (ctx *Context) LastError() *Error { return ctx.lastError }

// allocate is new_node's entry point (§4.1 "Allocation protocol"): fast
// path just bumps the free pointer; if that would overflow capacity, and
// a definition is not currently being read, it collects the ephemeral
// region first and grows only if collection didn't free enough room.
// During a definition read, or during a parallel cross-context copy, GC
// is disabled entirely and the allocator just grows (§4.1, §4.2).
func (ctx *Context) allocate(n Node) Index {
	h := ctx.heap
	if !h.hasRoom(1) && !ctx.readingDefinition && !ctx.copyingAcrossCtx {
		ctx.Collect()
	}
	return h.newNode(n)
}

// NewNode is the public form of new_node (§4.1), for the reader and
// primitives that need a bare node not linked onto any existing chain.
func (ctx *Context) NewNode(tag Tag, next Index) Index {
	return ctx.allocate(Node{Tag: tag, Next: next})
}

// NewNodeFrom copies the header and payload of the node at src into a
// fresh location linked with the given next — "copying without cloning
// the next chain" (§4.1 new_node_from). This is what the evaluator uses
// to push a fresh copy of a self-quoting literal (§4.3 step 4), so that
// mutating a pushed value never corrupts the quotation it came from.
func (ctx *Context) NewNodeFrom(src, next Index) Index {
	n := ctx.heap.Node(src)
	n.Next = next
	return ctx.allocate(n)
}

// Cons allocates a new LIST-element node holding head's payload with
// Next pointing at tail — the basic list-building primitive used by the
// reader and by combinators constructing results.
func (ctx *Context) Cons(head Node, tail Index) Index {
	head.Next = tail
	return ctx.allocate(head)
}

// EnsureCapacity guarantees room for n more cells without an
// intervening GC, for batch builders that hold bare indices across
// several allocations (§4.1 ensure_capacity).
func (ctx *Context) EnsureCapacity(n int) {
	if !ctx.heap.hasRoom(n) {
		ctx.heap.grow(int(ctx.heap.free) + n)
	}
}

// NewDict allocates an empty DICT node.
func (ctx *Context) NewDict() Index {
	id := ctx.heap.newDict()
	return ctx.allocate(Node{Tag: DICT, Val: id})
}

// DictGet looks up key in the dict identified by a DICT node's Val.
func (ctx *Context) DictGet(dictVal Index, key string) (Index, bool) {
	for _, e := range ctx.heap.dictEntries(dictVal) {
		if e.Key == key {
			return e.Value, true
		}
	}
	return NilIndex, false
}

// DictPut sets key to value in the dict identified by dictVal, replacing
// any existing entry for key (insertion order of the remainder is
// preserved; §3 "insertion order irrelevant" to lookup semantics).
func (ctx *Context) DictPut(dictVal Index, key string, value Index) {
	entries := ctx.heap.dictEntries(dictVal)
	for i, e := range entries {
		if e.Key == key {
			entries[i].Value = value
			ctx.heap.setDictEntries(dictVal, entries)
			return
		}
	}
	ctx.heap.setDictEntries(dictVal, append(entries, DictEntry{Key: key, Value: value}))
}

// DictEntries returns the entries backing a DICT node's Val, in
// insertion order (stable only for iteration/printing — §3 says lookup
// never depends on order).
func (ctx *Context) DictEntries(dictVal Index) []DictEntry {
	return ctx.heap.dictEntries(dictVal)
}

// NodeAt reads the node stored at idx without touching the stack, for
// primitives that reach a value indirectly (e.g. through a DictEntry).
func (ctx *Context) NodeAt(idx Index) Node {
	return ctx.heap.Node(idx)
}

// ListToSlice walks a list chain (as found in a LIST node's Val) into a
// slice of Node, front to back.
func (ctx *Context) ListToSlice(head Index) []Node {
	var out []Node
	for i := head; i != NilIndex; i = ctx.heap.Node(i).Next {
		out = append(out, ctx.heap.Node(i))
	}
	return out
}

// SliceToList builds a fresh list chain from a slice of Node, front to
// back, and returns its head.
func (ctx *Context) SliceToList(elems []Node) Index {
	head := NilIndex
	for i := len(elems) - 1; i >= 0; i-- {
		head = ctx.Cons(elems[i], head)
	}
	return head
}

// resolveBody returns the heap-local index of entry's body, lazily
// copying it over from parentHeap on a task context's first reference
// to a given symbol (§4.4 step 2: "a USER_DEFINED body is fetched from
// the parent heap and deep-copied into the child heap the first time
// the child's evaluator resolves that symbol"). On an ordinary (non-
// task) context parentHeap is nil and the body index is already local.
func (ctx *Context) resolveBody(symIdx Index, entry Entry) Index {
	if ctx.parentHeap == nil || entry.Body == NilIndex {
		return entry.Body
	}
	if cached, ok := ctx.bodyCache[symIdx]; ok {
		return cached
	}
	copied := deepCopyChain(ctx.parentHeap, ctx, entry.Body)
	ctx.bodyCache[symIdx] = copied
	return copied
}

// BeginDefinition / EndDefinition bracket a definition read, disabling
// GC for the duration (§4.1: "GC is forbidden while the parser is
// reading a definition") and, on success, advancing mem_low to freeze
// the new nodes into definition space (§4.1).
func (ctx *Context) BeginDefinition() { ctx.readingDefinition = true }

func (ctx *Context) EndDefinition(commit bool) {
	ctx.readingDefinition = false
	if commit {
		ctx.heap.AdvanceLow()
	}
}
