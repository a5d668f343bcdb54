// Package builtins restores the primitive families spec.md keeps out of
// architecture scope but a runnable interpreter needs: stack shuffling,
// arithmetic, booleans, comparisons, combinators, aggregates, sets,
// strings, JSON, dicts, vectors, a session store, randomness and I/O.
// Each file is grounded on its original_source/src/builtin/*.c
// counterpart; Register wires every family into a fresh vm.Context's
// symbol table.
package builtins

import "github.com/shakfu/joy-sub000/vm"

// Register installs every primitive family into ctx's symbol table.
// cmd/joy calls this once per freshly created context,
// mirroring the reference implementation's initialization of its
// builtin dispatch table at startup.
func Register(ctx *vm.Context) {
	registerStack(ctx)
	registerArith(ctx)
	registerBoolean(ctx)
	registerComparison(ctx)
	registerCombinators(ctx)
	registerAggregate(ctx)
	registerSets(ctx)
	registerStrings(ctx)
	registerJSON(ctx)
	registerDict(ctx)
	registerVector(ctx)
	registerSession(ctx)
	registerRand(ctx)
	registerIO(ctx)
}

func def(ctx *vm.Context, name string, fn vm.Primitive) {
	ctx.SymbolTable().DefinePrimitive("", name, fn)
}

// dipped wraps op as "[op] dip": the top item is set aside, op runs on
// the stack beneath it, then the set-aside item is restored on top
// (src/builtin/dipped.h's DIPPED macro, generalized to a function
// wrapper since Go has no textual macros).
func dipped(op vm.Primitive) vm.Primitive {
	return func(ctx *vm.Context) error {
		top, err := ctx.Pop("dip")
		if err != nil {
			return err
		}
		if err := op(ctx); err != nil {
			return err
		}
		ctx.Push(top)
		return nil
	}
}

func registerStack(ctx *vm.Context) {
	dup := func(ctx *vm.Context) error {
		if err := ctx.Need("dup", 1); err != nil {
			return err
		}
		ctx.Push(ctx.Top())
		return nil
	}
	def(ctx, "dup", dup)
	def(ctx, "dupd", dipped(dup))

	def(ctx, "id", func(ctx *vm.Context) error { return nil })

	def(ctx, "over", func(ctx *vm.Context) error {
		if err := ctx.Need("over", 2); err != nil {
			return err
		}
		ctx.Push(ctx.NthNode(1))
		return nil
	})

	def(ctx, "pick", func(ctx *vm.Context) error {
		if err := ctx.Need("pick", 1); err != nil {
			return err
		}
		n, err := ctx.PopInteger("pick")
		if err != nil {
			return err
		}
		ctx.Push(ctx.NthNode(int(n)))
		return nil
	})

	pop := func(ctx *vm.Context) error {
		_, err := ctx.Pop("pop")
		return err
	}
	def(ctx, "pop", pop)
	def(ctx, "popd", dipped(pop))

	def(ctx, "rolldown", func(ctx *vm.Context) error {
		if err := ctx.Need("rolldown", 3); err != nil {
			return err
		}
		z, _ := ctx.Pop("rolldown")
		y, _ := ctx.Pop("rolldown")
		x, _ := ctx.Pop("rolldown")
		ctx.Push(y)
		ctx.Push(z)
		ctx.Push(x)
		return nil
	})
	def(ctx, "rolldownd", dipped(func(ctx *vm.Context) error {
		if err := ctx.Need("rolldown", 3); err != nil {
			return err
		}
		z, _ := ctx.Pop("rolldown")
		y, _ := ctx.Pop("rolldown")
		x, _ := ctx.Pop("rolldown")
		ctx.Push(y)
		ctx.Push(z)
		ctx.Push(x)
		return nil
	}))

	def(ctx, "rollup", func(ctx *vm.Context) error {
		if err := ctx.Need("rollup", 3); err != nil {
			return err
		}
		z, _ := ctx.Pop("rollup")
		y, _ := ctx.Pop("rollup")
		x, _ := ctx.Pop("rollup")
		ctx.Push(z)
		ctx.Push(x)
		ctx.Push(y)
		return nil
	})
	def(ctx, "rollupd", dipped(func(ctx *vm.Context) error {
		if err := ctx.Need("rollup", 3); err != nil {
			return err
		}
		z, _ := ctx.Pop("rollup")
		y, _ := ctx.Pop("rollup")
		x, _ := ctx.Pop("rollup")
		ctx.Push(z)
		ctx.Push(x)
		ctx.Push(y)
		return nil
	}))

	rotate := func(ctx *vm.Context) error {
		if err := ctx.Need("rotate", 3); err != nil {
			return err
		}
		z, _ := ctx.Pop("rotate")
		y, _ := ctx.Pop("rotate")
		x, _ := ctx.Pop("rotate")
		ctx.Push(z)
		ctx.Push(y)
		ctx.Push(x)
		return nil
	}
	def(ctx, "rotate", rotate)
	def(ctx, "rotated", dipped(rotate))

	def(ctx, "stack", func(ctx *vm.Context) error {
		ctx.PushQuotation(ctx.StackHead())
		return nil
	})

	swap := func(ctx *vm.Context) error {
		if err := ctx.Need("swap", 2); err != nil {
			return err
		}
		y, _ := ctx.Pop("swap")
		x, _ := ctx.Pop("swap")
		ctx.Push(y)
		ctx.Push(x)
		return nil
	}
	def(ctx, "swap", swap)
	def(ctx, "swapd", dipped(swap))

	def(ctx, "unstack", func(ctx *vm.Context) error {
		head, err := ctx.PopQuotation("unstack")
		if err != nil {
			return err
		}
		ctx.SetStackHead(head)
		return nil
	})
}
