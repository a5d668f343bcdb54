package vm

// Exec drives the evaluator over the factor list rooted at program,
// against ctx's operand stack (§4.3). It is safe to call recursively —
// combinators that invoke a quotation call Exec again, and that nested
// call runs to completion (or raises) before the outer call resumes.
func (ctx *Context) Exec(program Index) error {
	for {
		if program == NilIndex {
			return nil
		}
		// Publish the program as a GC root before any allocation that
		// might follow (§4.3 step 2).
		ctx.program = program
		factor := ctx.heap.Node(program)
		rest := factor.Next

		switch factor.Tag {
		case USER_DEFINED:
			entry := ctx.symtab.Entry(factor.Val)
			if entry.IsUser {
				if entry.Body == NilIndex {
					if ctx.cfg.UndefError {
						return NewError(RUNTIME, "%s: undefined", entry.Name)
					}
					// §9 Open Question: the reference implementation
					// continues execution silently; we do the same.
				} else {
					body := ctx.resolveBody(factor.Val, entry)
					if rest == NilIndex {
						// Tail call: reuse this loop iteration instead of
						// recursing into Exec (§4.3 "reuses the current
						// evaluation frame").
						program = body
						continue
					}
					if err := ctx.Exec(body); err != nil {
						return err
					}
				}
			} else if entry.Prim != nil {
				ctx.stats.Calls++
				if err := entry.Prim(ctx); err != nil {
					return err
				}
			} else {
				return NewError(RUNTIME, "%s: undefined", entry.Name)
			}

		case ANONYMOUS_FUNCTION:
			prim, ok := ctx.symtab.PrimitiveByID(factor.Val)
			if !ok {
				return NewError(RUNTIME, "unresolved primitive reference")
			}
			ctx.stats.Opers++
			if err := prim(ctx); err != nil {
				return err
			}

		default:
			if !factor.Tag.IsLiteral() {
				return NewError(TYPE, "invalid factor: %s", factor.Tag)
			}
			// Self-quoting literal: push a fresh copy, never the shared
			// node itself, so two executions of the same quotation never
			// alias result structure (§4.3 step 4, §8 "Interning of
			// literal nodes").
			ctx.Push(Node{Tag: factor.Tag, Num: factor.Num, Dbl: factor.Dbl, Set: factor.Set, Str: factor.Str, Val: copyLiteralVal(ctx, factor)})
		}

		program = rest
	}
}

// copyLiteralVal deep-copies the payload a literal's Val may reference.
// For LIST, that means recursively copying the element chain so the
// pushed copy shares no ephemeral structure with the quotation's
// original child (§8's interning test: mutating one execution's result
// must not affect another). For every other tag Val is either unused or
// an opaque identifier (DICT's side-table id, which the pushed copy
// shares with the original rather than copying). Nested LIST values are
// copied at every depth by copyListChain.
func copyLiteralVal(ctx *Context, factor Node) Index {
	if factor.Tag != LIST {
		return factor.Val
	}
	return copyListChain(ctx, factor.Val)
}

func copyListChain(ctx *Context, head Index) Index {
	if head == NilIndex {
		return NilIndex
	}
	elems := ctx.ListToSlice(head)
	out := make([]Node, len(elems))
	for i, e := range elems {
		out[i] = e
		if e.Tag == LIST {
			out[i].Val = copyListChain(ctx, e.Val)
		}
	}
	return ctx.SliceToList(out)
}
