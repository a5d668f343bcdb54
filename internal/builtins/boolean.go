package builtins

import "github.com/shakfu/joy-sub000/vm"

func registerBoolean(ctx *vm.Context) {
	def(ctx, "true", func(ctx *vm.Context) error { ctx.PushBool(true); return nil })
	def(ctx, "false", func(ctx *vm.Context) error { ctx.PushBool(false); return nil })

	def(ctx, "all", func(ctx *vm.Context) error { return someAll(ctx, "all", true) })
	def(ctx, "some", func(ctx *vm.Context) error { return someAll(ctx, "some", false) })
}

// someAll implements all/some (src/builtin/someall.h's SOMEALL macro):
// A [B] -> X, applying test B to each member of aggregate A and
// short-circuiting as soon as the answer is determined.
func someAll(ctx *vm.Context, op string, wantAll bool) error {
	if err := ctx.Need(op, 2); err != nil {
		return err
	}
	quot, err := ctx.PopQuotation(op)
	if err != nil {
		return err
	}
	agg, err := ctx.Pop(op)
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
		return vm.NewError(vm.TYPE, "%s: expected an aggregate, got %s", op, agg.Tag)
	}

	for _, el := range elems {
		ctx.Push(el)
		if err := ctx.Exec(quot); err != nil {
			return err
		}
		res, err := ctx.PopBool(op)
		if err != nil {
			return err
		}
		if wantAll && !res {
			ctx.PushBool(false)
			return nil
		}
		if !wantAll && res {
			ctx.PushBool(true)
			return nil
		}
	}
	ctx.PushBool(wantAll)
	return nil
}
