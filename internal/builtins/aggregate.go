package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerAggregate wires the list/aggregate family named by
// src/builtin/aggregate.c (cons/swons/first/rest/uncons/unswons/concat/
// enconcat/at/of/size/null/small/take/drop/split/list/assign/unassign).
// The individual/*.c sources themselves were not part of the retrieved
// original_source slice, so each operation below follows the language's
// documented stack effect rather than a specific .c file.
func registerAggregate(ctx *vm.Context) {
	def(ctx, "cons", func(ctx *vm.Context) error {
		if err := ctx.Need("cons", 2); err != nil {
			return err
		}
		agg, err := ctx.Pop("cons")
		if err != nil {
			return err
		}
		x, err := ctx.Pop("cons")
		if err != nil {
			return err
		}
		head, err := consInto(ctx, "cons", agg, x)
		if err != nil {
			return err
		}
		ctx.Push(head)
		return nil
	})

	def(ctx, "swons", func(ctx *vm.Context) error {
		if err := ctx.Need("swons", 2); err != nil {
			return err
		}
		x, err := ctx.Pop("swons")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("swons")
		if err != nil {
			return err
		}
		head, err := consInto(ctx, "swons", agg, x)
		if err != nil {
			return err
		}
		ctx.Push(head)
		return nil
	})

	def(ctx, "first", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("first")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "first", agg)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			return vm.NewError(vm.RUNTIME, "first: empty aggregate")
		}
		ctx.Push(elems[0])
		return nil
	})

	def(ctx, "rest", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("rest")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "rest", agg)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			return vm.NewError(vm.RUNTIME, "rest: empty aggregate")
		}
		pushRest(ctx, agg, elems[1:])
		return nil
	})

	def(ctx, "uncons", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("uncons")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "uncons", agg)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			return vm.NewError(vm.RUNTIME, "uncons: empty aggregate")
		}
		ctx.Push(elems[0])
		pushRest(ctx, agg, elems[1:])
		return nil
	})

	def(ctx, "unswons", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("unswons")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "unswons", agg)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			return vm.NewError(vm.RUNTIME, "unswons: empty aggregate")
		}
		pushRest(ctx, agg, elems[1:])
		ctx.Push(elems[0])
		return nil
	})

	def(ctx, "concat", func(ctx *vm.Context) error {
		if err := ctx.Need("concat", 2); err != nil {
			return err
		}
		b, err := ctx.Pop("concat")
		if err != nil {
			return err
		}
		a, err := ctx.Pop("concat")
		if err != nil {
			return err
		}
		if a.Tag != b.Tag {
			return vm.NewError(vm.TYPE, "concat: operands must share a type")
		}
		switch a.Tag {
		case vm.LIST:
			ae, be := ctx.ListToSlice(a.Val), ctx.ListToSlice(b.Val)
			ctx.PushQuotation(ctx.SliceToList(append(append([]vm.Node{}, ae...), be...)))
		case vm.STRING:
			ctx.PushString(a.Str + b.Str)
		default:
			return vm.NewError(vm.TYPE, "concat: expected a list or string, got %s", a.Tag)
		}
		return nil
	})

	def(ctx, "enconcat", func(ctx *vm.Context) error {
		if err := ctx.Need("enconcat", 3); err != nil {
			return err
		}
		b, err := ctx.Pop("enconcat")
		if err != nil {
			return err
		}
		a, err := ctx.Pop("enconcat")
		if err != nil {
			return err
		}
		x, err := ctx.Pop("enconcat")
		if err != nil {
			return err
		}
		joined, err := consInto(ctx, "enconcat", a, x)
		if err != nil {
			return err
		}
		if joined.Tag != b.Tag {
			return vm.NewError(vm.TYPE, "enconcat: operands must share a type")
		}
		switch joined.Tag {
		case vm.LIST:
			ae, be := ctx.ListToSlice(joined.Val), ctx.ListToSlice(b.Val)
			ctx.PushQuotation(ctx.SliceToList(append(append([]vm.Node{}, ae...), be...)))
		case vm.STRING:
			ctx.PushString(joined.Str + b.Str)
		}
		return nil
	})

	def(ctx, "at", func(ctx *vm.Context) error {
		if err := ctx.Need("at", 2); err != nil {
			return err
		}
		i, err := ctx.PopInteger("at")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("at")
		if err != nil {
			return err
		}
		return pushNth(ctx, "at", agg, i)
	})

	def(ctx, "of", func(ctx *vm.Context) error {
		if err := ctx.Need("of", 2); err != nil {
			return err
		}
		agg, err := ctx.Pop("of")
		if err != nil {
			return err
		}
		i, err := ctx.PopInteger("of")
		if err != nil {
			return err
		}
		return pushNth(ctx, "of", agg, i)
	})

	def(ctx, "size", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("size")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "size", agg)
		if err != nil {
			return err
		}
		ctx.PushInt(int64(len(elems)))
		return nil
	})

	def(ctx, "null", func(ctx *vm.Context) error {
		n, err := ctx.Pop("null")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.LIST:
			ctx.PushBool(n.Val == vm.NilIndex)
		case vm.STRING:
			ctx.PushBool(n.Str == "")
		case vm.INTEGER:
			ctx.PushBool(n.Num == 0)
		case vm.FLOAT:
			ctx.PushBool(n.Dbl == 0)
		case vm.SET:
			ctx.PushBool(n.Set == 0)
		default:
			ctx.PushBool(false)
		}
		return nil
	})

	def(ctx, "small", func(ctx *vm.Context) error {
		agg, err := ctx.Pop("small")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "small", agg)
		if err != nil {
			return err
		}
		ctx.PushBool(len(elems) <= 1)
		return nil
	})

	def(ctx, "take", func(ctx *vm.Context) error { return takeDrop(ctx, "take", true) })
	def(ctx, "drop", func(ctx *vm.Context) error { return takeDrop(ctx, "drop", false) })

	def(ctx, "split", func(ctx *vm.Context) error {
		if err := ctx.Need("split", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("split")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("split")
		if err != nil {
			return err
		}
		elems, err := toElems(ctx, "split", agg)
		if err != nil {
			return err
		}
		var yes, no []vm.Node
		for _, el := range elems {
			ctx.Push(el)
			if err := ctx.Exec(q); err != nil {
				return err
			}
			keep, err := ctx.PopBool("split")
			if err != nil {
				return err
			}
			if keep {
				yes = append(yes, el)
			} else {
				no = append(no, el)
			}
		}
		ctx.PushQuotation(ctx.SliceToList(yes))
		ctx.PushQuotation(ctx.SliceToList(no))
		return nil
	})

	def(ctx, "list", func(ctx *vm.Context) error {
		n, err := ctx.Pop("list")
		if err != nil {
			return err
		}
		ctx.PushBool(n.Tag == vm.LIST)
		return nil
	})

	def(ctx, "assign", func(ctx *vm.Context) error {
		if err := ctx.Need("assign", 2); err != nil {
			return err
		}
		name, err := ctx.PopString("assign")
		if err != nil {
			return err
		}
		val, err := ctx.PopIndex("assign")
		if err != nil {
			return err
		}
		ctx.SymbolTable().DeclareRoot("", name, val)
		return nil
	})

	def(ctx, "unassign", func(ctx *vm.Context) error {
		name, err := ctx.PopString("unassign")
		if err != nil {
			return err
		}
		if idx, ok := ctx.SymbolTable().Lookup("", name); ok {
			ctx.SymbolTable().SetBody(idx, vm.NilIndex)
		}
		return nil
	})
}

func toElems(ctx *vm.Context, op string, agg vm.Node) ([]vm.Node, error) {
	switch agg.Tag {
	case vm.LIST:
		return ctx.ListToSlice(agg.Val), nil
	case vm.STRING:
		elems := make([]vm.Node, 0, len(agg.Str))
		for _, r := range agg.Str {
			elems = append(elems, vm.Node{Tag: vm.CHARACTER, Num: int64(r)})
		}
		return elems, nil
	default:
		return nil, vm.NewError(vm.TYPE, "%s: expected an aggregate, got %s", op, agg.Tag)
	}
}

func pushRest(ctx *vm.Context, agg vm.Node, rest []vm.Node) {
	if agg.Tag == vm.STRING {
		var sb []rune
		for _, n := range rest {
			sb = append(sb, rune(n.Num))
		}
		ctx.PushString(string(sb))
		return
	}
	ctx.PushQuotation(ctx.SliceToList(rest))
}

func consInto(ctx *vm.Context, op string, agg, x vm.Node) (vm.Node, error) {
	switch agg.Tag {
	case vm.LIST:
		return vm.Node{Tag: vm.LIST, Val: ctx.Cons(x, agg.Val)}, nil
	case vm.STRING:
		if x.Tag != vm.CHARACTER {
			return vm.Node{}, vm.NewError(vm.TYPE, "%s: expected a character for a string aggregate", op)
		}
		return vm.Node{Tag: vm.STRING, Str: string(rune(x.Num)) + agg.Str}, nil
	default:
		return vm.Node{}, vm.NewError(vm.TYPE, "%s: expected a list or string, got %s", op, agg.Tag)
	}
}

func pushNth(ctx *vm.Context, op string, agg vm.Node, i int64) error {
	elems, err := toElems(ctx, op, agg)
	if err != nil {
		return err
	}
	if i < 0 || int(i) >= len(elems) {
		return vm.NewError(vm.RUNTIME, "%s: index out of range", op)
	}
	ctx.Push(elems[i])
	return nil
}

func takeDrop(ctx *vm.Context, op string, take bool) error {
	if err := ctx.Need(op, 2); err != nil {
		return err
	}
	n, err := ctx.PopInteger(op)
	if err != nil {
		return err
	}
	agg, err := ctx.Pop(op)
	if err != nil {
		return err
	}
	elems, err := toElems(ctx, op, agg)
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	if int(n) > len(elems) {
		n = int64(len(elems))
	}
	if take {
		pushRest(ctx, agg, elems[:n])
	} else {
		pushRest(ctx, agg, elems[n:])
	}
	return nil
}
