package vm

// The operand stack is not a separate array: it is a node chain rooted
// at ctx.stack, topmost element first, exactly like any other list
// (§3 "list = singly linked chain of nodes"). Push/Pop below are the Go
// realization of the reference implementation's typed stack macros
// (runtime.h's ONEPARAM/TWOPARAMS/STRING/INTEGER/... family), each
// primitive calls into them instead of poking env->stck directly.

// Depth returns the number of items on the operand stack.
func (ctx *Context) Depth() int {
	n := 0
	for i := ctx.stack; i != NilIndex; i = ctx.heap.Node(i).Next {
		n++
	}
	return n
}

// Empty reports whether the operand stack has no items.
func (ctx *Context) Empty() bool { return ctx.stack == NilIndex }

// Clear empties the operand stack. Idempotent by construction (§8
// "Idempotent clear: executing stack-clear twice equals executing it
// once" — Clear on an already-empty stack is a no-op).
func (ctx *Context) Clear() { ctx.stack = NilIndex }

// Push allocates a node for n with Next pointing at the current stack
// head, and makes it the new head.
func (ctx *Context) Push(n Node) Index {
	n.Next = ctx.stack
	idx := ctx.allocate(n)
	ctx.stack = idx
	return idx
}

// PushIndex pushes an already-allocated node, relinking its Next onto
// the current stack (used when moving a value between stack-like roots
// without reallocating it, e.g. combinators shuffling the dump).
func (ctx *Context) PushIndex(idx Index) {
	if idx == NilIndex {
		return
	}
	n := ctx.heap.Node(idx)
	n.Next = ctx.stack
	ctx.heap.Set(idx, n)
	ctx.stack = idx
}

// Pop removes and returns the top of the operand stack. It raises
// STACK_UNDERFLOW if the stack is empty, in the operation's name.
func (ctx *Context) Pop(op string) (Node, error) {
	if ctx.stack == NilIndex {
		return Node{}, NewError(STACK_UNDERFLOW, "%s: one parameter required", op)
	}
	n := ctx.heap.Node(ctx.stack)
	ctx.stack = n.Next
	return n, nil
}

// PopIndex is like Pop but returns the node's index rather than its
// value, for callers that want to relink it elsewhere (e.g. pushing it
// onto the dump stack).
func (ctx *Context) PopIndex(op string) (Index, error) {
	if ctx.stack == NilIndex {
		return NilIndex, NewError(STACK_UNDERFLOW, "%s: one parameter required", op)
	}
	idx := ctx.stack
	ctx.stack = ctx.heap.Node(idx).Next
	return idx, nil
}

// Top returns the top of stack without popping it.
func (ctx *Context) Top() Node { return ctx.heap.Node(ctx.stack) }

// StackHead returns the index of the current operand stack's top node
// (NilIndex if empty), for primitives that need to alias the whole
// stack as a list value (`stack`) rather than walk it.
func (ctx *Context) StackHead() Index { return ctx.stack }

// SetStackHead replaces the entire operand stack with the chain rooted
// at head, aliasing it rather than copying (`unstack`).
func (ctx *Context) SetStackHead(head Index) { ctx.stack = head }

// Need checks that at least n items are present, raising
// STACK_UNDERFLOW named after op otherwise. It mirrors runtime.h's
// ONEPARAM/TWOPARAMS/.../FIVEPARAMS family.
func (ctx *Context) Need(op string, n int) error {
	i := ctx.stack
	for ; n > 0 && i != NilIndex; n-- {
		i = ctx.heap.Node(i).Next
	}
	if n > 0 {
		return NewError(STACK_UNDERFLOW, "%s: requires %d parameter(s)", op, n)
	}
	return nil
}

// NthNode returns the node n levels down from the top (0 = top), the Go
// equivalent of chasing nextnode1/nextnode2/... from runtime.h.
func (ctx *Context) NthNode(n int) Node {
	i := ctx.stack
	for ; n > 0 && i != NilIndex; n-- {
		i = ctx.heap.Node(i).Next
	}
	return ctx.heap.Node(i)
}

// expectTag raises TYPE named after op if got != want.
func expectTag(op string, want, got Tag) error {
	if got != want {
		return NewError(TYPE, "%s: expected %s, got %s", op, want, got)
	}
	return nil
}

// PopInteger pops and type-checks an INTEGER.
func (ctx *Context) PopInteger(op string) (int64, error) {
	n, err := ctx.Pop(op)
	if err != nil {
		return 0, err
	}
	if err := expectTag(op, INTEGER, n.Tag); err != nil {
		return 0, err
	}
	return n.Num, nil
}

// PopFloat pops a FLOAT, or an INTEGER promoted to float (the FLOATABLE
// convention from runtime.h).
func (ctx *Context) PopFloat(op string) (float64, error) {
	n, err := ctx.Pop(op)
	if err != nil {
		return 0, err
	}
	switch n.Tag {
	case FLOAT:
		return n.Dbl, nil
	case INTEGER:
		return float64(n.Num), nil
	default:
		return 0, NewError(TYPE, "%s: expected a number, got %s", op, n.Tag)
	}
}

// PopString pops and type-checks a STRING.
func (ctx *Context) PopString(op string) (string, error) {
	n, err := ctx.Pop(op)
	if err != nil {
		return "", err
	}
	if err := expectTag(op, STRING, n.Tag); err != nil {
		return "", err
	}
	return n.Str, nil
}

// PopBool pops and type-checks a BOOLEAN.
func (ctx *Context) PopBool(op string) (bool, error) {
	n, err := ctx.Pop(op)
	if err != nil {
		return false, err
	}
	if err := expectTag(op, BOOLEAN, n.Tag); err != nil {
		return false, err
	}
	return n.Num != 0, nil
}

// PopQuotation pops and type-checks a LIST (a "quotation" when used as a
// combinator argument), returning the head of its element chain.
func (ctx *Context) PopQuotation(op string) (Index, error) {
	n, err := ctx.Pop(op)
	if err != nil {
		return NilIndex, err
	}
	if err := expectTag(op, LIST, n.Tag); err != nil {
		return NilIndex, err
	}
	return n.Val, nil
}

// PushInt pushes a fresh INTEGER node.
func (ctx *Context) PushInt(v int64) Index { return ctx.Push(Node{Tag: INTEGER, Num: v}) }

// PushFloat pushes a fresh FLOAT node.
func (ctx *Context) PushFloat(v float64) Index { return ctx.Push(Node{Tag: FLOAT, Dbl: v}) }

// PushBool pushes a fresh BOOLEAN node.
func (ctx *Context) PushBool(v bool) Index {
	n := int64(0)
	if v {
		n = 1
	}
	return ctx.Push(Node{Tag: BOOLEAN, Num: n})
}

// PushString pushes a fresh STRING node.
func (ctx *Context) PushString(s string) Index { return ctx.Push(Node{Tag: STRING, Str: s}) }

// PushChar pushes a fresh CHARACTER node.
func (ctx *Context) PushChar(r rune) Index { return ctx.Push(Node{Tag: CHARACTER, Num: int64(r)}) }

// PushQuotation pushes a fresh LIST node wrapping the chain at head.
func (ctx *Context) PushQuotation(head Index) Index { return ctx.Push(Node{Tag: LIST, Val: head}) }

// PushSet pushes a fresh SET node.
func (ctx *Context) PushSet(bits uint64) Index { return ctx.Push(Node{Tag: SET, Set: bits}) }
