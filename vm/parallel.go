package vm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the implementation-defined minimum input size
// below which coordination cost dominates and every parallel combinator
// degrades to sequential execution (§4.4 "Fallback").
const parallelThreshold = 8

// noopIO is installed on cloned task contexts: "workers do not perform
// I/O; callbacks in the child context are set to null at clone time"
// (§5 Shared resources).
type noopIO struct{}

func (noopIO) ReadChar() (rune, bool)                                       { return 0, false }
func (noopIO) WriteChar(rune)                                               {}
func (noopIO) WriteString(string)                                          {}
func (noopIO) OnError(Result, string, string, int, int)                    {}
func (noopIO) Tracef(string, ...interface{})                               {}
func (noopIO) Err() error                                                  { return nil }

// cloneForTask derives a child context as described in §4.4 step 1: a
// fresh heap and GC instance, the parent's symbol table shared
// read-only (workers never define anything — §5), zeroed registers, no
// I/O, and a back-pointer to the parent's heap so USER_DEFINED bodies
// can be lazily copied in on first reference (resolveBody, eval.go).
func (ctx *Context) cloneForTask() *Context {
	child := &Context{
		heap:       NewHeap(0, ctx.cfg.MaxHeapSize),
		gc:         NewGC(ctx.cfg.GCTrace),
		symtab:     ctx.symtab,
		cfg:        ctx.cfg,
		io:         noopIO{},
		parentHeap: ctx.heap,
		bodyCache:  make(map[Index]Index),
	}
	return child
}

// deepCopyNode copies a single value (and, recursively, any LIST/DICT
// structure it owns) from src into dst, discarding whatever the
// original's Next happened to be — callers use this to lift one popped
// stack value across a context boundary, not a whole stack.
func deepCopyNode(src *Heap, dst *Context, n Node) Index {
	n.Next = NilIndex
	switch n.Tag {
	case LIST:
		n.Val = deepCopyChain(src, dst, n.Val)
	case DICT:
		n.Val = deepCopyDict(src, dst, n.Val)
	}
	return dst.allocate(n)
}

// deepCopyChain copies an entire node chain (a list's element chain, or
// a definition body's factor list) from src into dst. The chain itself
// is walked iteratively; only LIST/DICT sub-structure recurses, bounded
// by actual nesting depth rather than chain length (§4.4: "Next-chains
// are copied by iteration (never recursion) ... only LIST value
// subchains recurse, bounded by actual nesting depth").
func deepCopyChain(src *Heap, dst *Context, head Index) Index {
	if head == NilIndex {
		return NilIndex
	}
	var elems []Node
	for i := head; i != NilIndex; i = src.Node(i).Next {
		elems = append(elems, src.Node(i))
	}
	newHead := NilIndex
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		switch e.Tag {
		case LIST:
			e.Val = deepCopyChain(src, dst, e.Val)
		case DICT:
			e.Val = deepCopyDict(src, dst, e.Val)
		}
		e.Next = newHead
		newHead = dst.allocate(e)
	}
	return newHead
}

func deepCopyDict(src *Heap, dst *Context, id Index) Index {
	entries := src.dictEntries(id)
	newID := dst.heap.newDict()
	out := make([]DictEntry, len(entries))
	for i, e := range entries {
		out[i] = DictEntry{Key: e.Key, Value: deepCopyNode(src, dst, src.Node(e.Value))}
	}
	dst.heap.setDictEntries(newID, out)
	return newID
}

// destroyTask drops a finished worker's context. Go's garbage collector
// owns the actual memory; this just makes reuse a visible bug (§4.4
// step 6 "Destroy").
func destroyTask(child *Context) { child.heap = nil }

// runQuotationOn copies quotation and input across into a fresh child
// context, executes it, and copies the single result value back into
// parent, all per §4.4 steps 1-4.
func (ctx *Context) runQuotationOn(quotation Index, input Node, op string) (Index, error) {
	child := ctx.cloneForTask()
	defer destroyTask(child)

	quotCopy := deepCopyChain(ctx.heap, child, quotation)
	child.Push(deepCopyNode(ctx.heap, child, input))

	if err := child.Exec(quotCopy); err != nil {
		return NilIndex, fmt.Errorf("%s: %w", op, err)
	}
	res, err := child.Pop(op)
	if err != nil {
		return NilIndex, err
	}
	return deepCopyNode(child.heap, ctx, res), nil
}

// ParallelMap implements pmap (§4.4 "Parallel map"): results appear at
// the index corresponding to their input regardless of completion
// order. Falls back to a plain sequential map below parallelThreshold.
func (ctx *Context) ParallelMap(quotation, listHead Index) (Index, error) {
	elems := ctx.ListToSlice(listHead)
	if len(elems) < parallelThreshold {
		return ctx.sequentialMap(quotation, elems)
	}

	results := make([]Index, len(elems))
	g, _ := errgroup.WithContext(context.Background())
	for i, el := range elems {
		i, el := i, el
		g.Go(func() error {
			res, err := ctx.runQuotationOn(quotation, el, "pmap")
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return NilIndex, err
	}
	return ctx.chainFromCopiedIndices(results), nil
}

// MapSequential implements plain `map`: always sequential, regardless
// of parallelThreshold (the parallel variant is `pmap`, ParallelMap).
func (ctx *Context) MapSequential(quotation, listHead Index) (Index, error) {
	return ctx.sequentialMap(quotation, ctx.ListToSlice(listHead))
}

func (ctx *Context) sequentialMap(quotation Index, elems []Node) (Index, error) {
	out := make([]Node, len(elems))
	for i, el := range elems {
		ctx.Push(el)
		if err := ctx.Exec(quotation); err != nil {
			return NilIndex, err
		}
		res, err := ctx.Pop("map")
		if err != nil {
			return NilIndex, err
		}
		out[i] = res
	}
	return ctx.SliceToList(out), nil
}

// ParallelFilter implements pfilter (§4.4 "Parallel filter"): kept
// elements appear in input order. The predicate quotation must leave a
// BOOLEAN on top of the stack.
func (ctx *Context) ParallelFilter(quotation, listHead Index) (Index, error) {
	elems := ctx.ListToSlice(listHead)
	if len(elems) < parallelThreshold {
		return ctx.sequentialFilter(quotation, elems)
	}

	keep := make([]bool, len(elems))
	g, _ := errgroup.WithContext(context.Background())
	for i, el := range elems {
		i, el := i, el
		g.Go(func() error {
			res, err := ctx.runQuotationOn(quotation, el, "pfilter")
			if err != nil {
				return err
			}
			n := ctx.heap.Node(res)
			if n.Tag != BOOLEAN {
				return NewError(TYPE, "pfilter: predicate must leave a boolean")
			}
			keep[i] = n.Num != 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return NilIndex, err
	}
	var out []Node
	for i, el := range elems {
		if keep[i] {
			out = append(out, el)
		}
	}
	return ctx.SliceToList(out), nil
}

// FilterSequential implements plain `filter`: always sequential (the
// parallel variant is `pfilter`, ParallelFilter).
func (ctx *Context) FilterSequential(quotation, listHead Index) (Index, error) {
	return ctx.sequentialFilter(quotation, ctx.ListToSlice(listHead))
}

func (ctx *Context) sequentialFilter(quotation Index, elems []Node) (Index, error) {
	var out []Node
	for _, el := range elems {
		ctx.Push(el)
		if err := ctx.Exec(quotation); err != nil {
			return NilIndex, err
		}
		keep, err := ctx.PopBool("filter")
		if err != nil {
			return NilIndex, err
		}
		if keep {
			out = append(out, el)
		}
	}
	return ctx.SliceToList(out), nil
}

// ParallelFork implements pfork (§4.4 "Parallel fork"): both quotations
// see the same input; both results are pushed, the second quotation's
// result ending up on top.
func (ctx *Context) ParallelFork(quot1, quot2 Index, input Node) error {
	var r1, r2 Index
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() (err error) { r1, err = ctx.runQuotationOn(quot1, input, "pfork"); return })
	g.Go(func() (err error) { r2, err = ctx.runQuotationOn(quot2, input, "pfork"); return })
	if err := g.Wait(); err != nil {
		return err
	}
	ctx.PushIndex(r1)
	ctx.PushIndex(r2)
	return nil
}

// ParallelReduce implements preduce (§4.4 "Parallel reduce"): the
// combiner must be associative; pairs are combined in a binary tree,
// adjacent elements paired left-to-right at each level.
func (ctx *Context) ParallelReduce(quotation, listHead Index) (Index, error) {
	elems := ctx.ListToSlice(listHead)
	if len(elems) == 0 {
		return NilIndex, NewError(RUNTIME, "preduce: empty aggregate")
	}
	if len(elems) == 1 {
		return ctx.Cons(elems[0], NilIndex), nil
	}
	if len(elems) < parallelThreshold {
		return ctx.sequentialReduce(quotation, elems)
	}

	level := elems
	for len(level) > 1 {
		pairs := len(level) / 2
		odd := len(level)%2 == 1
		results := make([]Node, pairs)
		g, _ := errgroup.WithContext(context.Background())
		for i := 0; i < pairs; i++ {
			i := i
			a, b := level[2*i], level[2*i+1]
			g.Go(func() error {
				res, err := ctx.combinePair(quotation, a, b)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return NilIndex, err
		}
		if odd {
			results = append(results, level[len(level)-1])
		}
		level = results
	}
	return ctx.Cons(level[0], NilIndex), nil
}

func (ctx *Context) sequentialReduce(quotation Index, elems []Node) (Index, error) {
	acc := elems[0]
	for _, el := range elems[1:] {
		var err error
		acc, err = ctx.combinePairSequential(quotation, acc, el)
		if err != nil {
			return NilIndex, err
		}
	}
	return ctx.Cons(acc, NilIndex), nil
}

// combinePair runs the combiner quotation on (a, b) inside a fresh child
// context and copies the single result node back.
func (ctx *Context) combinePair(quotation Index, a, b Node) (Node, error) {
	child := ctx.cloneForTask()
	defer destroyTask(child)

	quotCopy := deepCopyChain(ctx.heap, child, quotation)
	child.Push(deepCopyNode(ctx.heap, child, a))
	child.Push(deepCopyNode(ctx.heap, child, b))
	if err := child.Exec(quotCopy); err != nil {
		return Node{}, fmt.Errorf("preduce: %w", err)
	}
	res, err := child.Pop("preduce")
	if err != nil {
		return Node{}, err
	}
	idx := deepCopyNode(child.heap, ctx, res)
	return ctx.heap.Node(idx), nil
}

func (ctx *Context) combinePairSequential(quotation Index, a, b Node) (Node, error) {
	ctx.Push(a)
	ctx.Push(b)
	if err := ctx.Exec(quotation); err != nil {
		return Node{}, err
	}
	return ctx.Pop("reduce")
}

// chainFromCopiedIndices links together nodes that have already been
// allocated independently in ctx's heap (their Next fields are each
// NilIndex from allocate), preserving the given order.
func (ctx *Context) chainFromCopiedIndices(idxs []Index) Index {
	head := NilIndex
	for i := len(idxs) - 1; i >= 0; i-- {
		n := ctx.heap.Node(idxs[i])
		n.Next = head
		ctx.heap.Set(idxs[i], n)
		head = idxs[i]
	}
	return head
}
