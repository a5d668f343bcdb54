package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerCombinators wires the sequential control-flow combinators
// (src/builtin/combinators.c names the family: dip, map, filter, fold,
// step, times, while, cleave, construct, app1..app4, infra) on top of
// vm.Context.Exec, plus the parallel ones already implemented in
// vm/parallel.go (pmap/pfilter/pfork/preduce, §4.4).
func registerCombinators(ctx *vm.Context) {
	def(ctx, "i", func(ctx *vm.Context) error {
		q, err := ctx.PopQuotation("i")
		if err != nil {
			return err
		}
		return ctx.Exec(q)
	})

	def(ctx, "dip", func(ctx *vm.Context) error {
		if err := ctx.Need("dip", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("dip")
		if err != nil {
			return err
		}
		x, err := ctx.Pop("dip")
		if err != nil {
			return err
		}
		if err := ctx.Exec(q); err != nil {
			return err
		}
		ctx.Push(x)
		return nil
	})

	def(ctx, "map", func(ctx *vm.Context) error {
		if err := ctx.Need("map", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("map")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("map")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "map: expected a list, got %s", agg.Tag)
		}
		head, err := ctx.MapSequential(q, agg.Val)
		if err != nil {
			return err
		}
		ctx.PushQuotation(head)
		return nil
	})

	def(ctx, "filter", func(ctx *vm.Context) error {
		if err := ctx.Need("filter", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("filter")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("filter")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "filter: expected a list, got %s", agg.Tag)
		}
		head, err := ctx.FilterSequential(q, agg.Val)
		if err != nil {
			return err
		}
		ctx.PushQuotation(head)
		return nil
	})

	def(ctx, "fold", func(ctx *vm.Context) error {
		if err := ctx.Need("fold", 3); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("fold")
		if err != nil {
			return err
		}
		init, err := ctx.Pop("fold")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("fold")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "fold: expected a list, got %s", agg.Tag)
		}
		acc := init
		for _, el := range ctx.ListToSlice(agg.Val) {
			ctx.Push(acc)
			ctx.Push(el)
			if err := ctx.Exec(q); err != nil {
				return err
			}
			acc, err = ctx.Pop("fold")
			if err != nil {
				return err
			}
		}
		ctx.Push(acc)
		return nil
	})

	def(ctx, "step", func(ctx *vm.Context) error {
		if err := ctx.Need("step", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("step")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("step")
		if err != nil {
			return err
		}
		var elems []vm.Node
		switch agg.Tag {
		case vm.LIST:
			elems = ctx.ListToSlice(agg.Val)
		case vm.STRING:
			for _, r := range agg.Str {
				elems = append(elems, vm.Node{Tag: vm.CHARACTER, Num: int64(r)})
			}
		default:
			return vm.NewError(vm.TYPE, "step: expected an aggregate, got %s", agg.Tag)
		}
		for _, el := range elems {
			ctx.Push(el)
			if err := ctx.Exec(q); err != nil {
				return err
			}
		}
		return nil
	})

	def(ctx, "times", func(ctx *vm.Context) error {
		if err := ctx.Need("times", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("times")
		if err != nil {
			return err
		}
		n, err := ctx.PopInteger("times")
		if err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if err := ctx.Exec(q); err != nil {
				return err
			}
		}
		return nil
	})

	def(ctx, "while", func(ctx *vm.Context) error {
		if err := ctx.Need("while", 2); err != nil {
			return err
		}
		body, err := ctx.PopQuotation("while")
		if err != nil {
			return err
		}
		cond, err := ctx.PopQuotation("while")
		if err != nil {
			return err
		}
		for {
			if err := ctx.Exec(cond); err != nil {
				return err
			}
			keep, err := ctx.PopBool("while")
			if err != nil {
				return err
			}
			if !keep {
				return nil
			}
			if err := ctx.Exec(body); err != nil {
				return err
			}
		}
	})

	def(ctx, "cond", func(ctx *vm.Context) error {
		cases, err := ctx.PopQuotation("cond")
		if err != nil {
			return err
		}
		for _, c := range ctx.ListToSlice(cases) {
			if c.Tag != vm.LIST {
				return vm.NewError(vm.TYPE, "cond: expected a list of [test body] pairs")
			}
			pair := ctx.ListToSlice(c.Val)
			if len(pair) == 1 {
				// default/else clause.
				return ctx.Exec(ctx.SliceToList([]vm.Node{pair[0]}))
			}
			if len(pair) != 2 || pair[0].Tag != vm.LIST || pair[1].Tag != vm.LIST {
				return vm.NewError(vm.TYPE, "cond: expected [[test] [body]] or [[body]]")
			}
			if err := ctx.Exec(pair[0].Val); err != nil {
				return err
			}
			taken, err := ctx.PopBool("cond")
			if err != nil {
				return err
			}
			if taken {
				return ctx.Exec(pair[1].Val)
			}
		}
		return nil
	})

	def(ctx, "branch", func(ctx *vm.Context) error {
		if err := ctx.Need("branch", 3); err != nil {
			return err
		}
		ifFalse, err := ctx.PopQuotation("branch")
		if err != nil {
			return err
		}
		ifTrue, err := ctx.PopQuotation("branch")
		if err != nil {
			return err
		}
		cond, err := ctx.PopBool("branch")
		if err != nil {
			return err
		}
		if cond {
			return ctx.Exec(ifTrue)
		}
		return ctx.Exec(ifFalse)
	})

	def(ctx, "cleave", func(ctx *vm.Context) error {
		if err := ctx.Need("cleave", 2); err != nil {
			return err
		}
		quots, err := ctx.PopQuotation("cleave")
		if err != nil {
			return err
		}
		x, err := ctx.Pop("cleave")
		if err != nil {
			return err
		}
		var results []vm.Node
		for _, q := range ctx.ListToSlice(quots) {
			if q.Tag != vm.LIST {
				return vm.NewError(vm.TYPE, "cleave: expected a list of quotations")
			}
			ctx.Push(x)
			if err := ctx.Exec(q.Val); err != nil {
				return err
			}
			r, err := ctx.Pop("cleave")
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		for _, r := range results {
			ctx.Push(r)
		}
		return nil
	})

	def(ctx, "construct", func(ctx *vm.Context) error {
		if err := ctx.Need("construct", 1); err != nil {
			return err
		}
		body, err := ctx.PopQuotation("construct")
		if err != nil {
			return err
		}
		saved := ctx.StackHead()
		ctx.SetStackHead(vm.NilIndex)
		if err := ctx.Exec(body); err != nil {
			ctx.SetStackHead(saved)
			return err
		}
		built := ctx.StackHead()
		ctx.SetStackHead(saved)
		ctx.PushQuotation(built)
		return nil
	})

	def(ctx, "infra", func(ctx *vm.Context) error {
		if err := ctx.Need("infra", 2); err != nil {
			return err
		}
		q, err := ctx.PopQuotation("infra")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("infra")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "infra: expected a list, got %s", agg.Tag)
		}
		saved := ctx.StackHead()
		ctx.SetStackHead(agg.Val)
		if err := ctx.Exec(q); err != nil {
			ctx.SetStackHead(saved)
			return err
		}
		newStack := ctx.StackHead()
		ctx.SetStackHead(saved)
		ctx.PushQuotation(newStack)
		return nil
	})

	app := func(n int) vm.Primitive {
		return func(ctx *vm.Context) error {
			quots, err := ctx.PopQuotation("app")
			if err != nil {
				return err
			}
			qs := ctx.ListToSlice(quots)
			args := make([]vm.Node, n)
			for i := n - 1; i >= 0; i-- {
				args[i], err = ctx.Pop("app")
				if err != nil {
					return err
				}
			}
			for _, q := range qs {
				for _, a := range args {
					ctx.Push(a)
				}
				if err := ctx.Exec(q.Val); err != nil {
					return err
				}
			}
			return nil
		}
	}
	def(ctx, "app1", app(1))
	def(ctx, "app2", app(2))
	def(ctx, "app3", app(3))
	def(ctx, "app4", app(4))

	def(ctx, "pmap", func(ctx *vm.Context) error {
		q, err := ctx.PopQuotation("pmap")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("pmap")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "pmap: expected a list, got %s", agg.Tag)
		}
		head, err := ctx.ParallelMap(q, agg.Val)
		if err != nil {
			return err
		}
		ctx.PushQuotation(head)
		return nil
	})

	def(ctx, "pfilter", func(ctx *vm.Context) error {
		q, err := ctx.PopQuotation("pfilter")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("pfilter")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "pfilter: expected a list, got %s", agg.Tag)
		}
		head, err := ctx.ParallelFilter(q, agg.Val)
		if err != nil {
			return err
		}
		ctx.PushQuotation(head)
		return nil
	})

	def(ctx, "pfork", func(ctx *vm.Context) error {
		if err := ctx.Need("pfork", 3); err != nil {
			return err
		}
		q2, err := ctx.PopQuotation("pfork")
		if err != nil {
			return err
		}
		q1, err := ctx.PopQuotation("pfork")
		if err != nil {
			return err
		}
		x, err := ctx.Pop("pfork")
		if err != nil {
			return err
		}
		return ctx.ParallelFork(q1, q2, x)
	})

	def(ctx, "preduce", func(ctx *vm.Context) error {
		q, err := ctx.PopQuotation("preduce")
		if err != nil {
			return err
		}
		agg, err := ctx.Pop("preduce")
		if err != nil {
			return err
		}
		if agg.Tag != vm.LIST {
			return vm.NewError(vm.TYPE, "preduce: expected a list, got %s", agg.Tag)
		}
		resultList, err := ctx.ParallelReduce(q, agg.Val)
		if err != nil {
			return err
		}
		res := ctx.ListToSlice(resultList)
		if len(res) != 1 {
			return vm.NewError(vm.RUNTIME, "preduce: internal error")
		}
		ctx.Push(res[0])
		return nil
	})
}
