package builtins

import (
	"strings"

	"github.com/shakfu/joy-sub000/vm"
)

func registerComparison(ctx *vm.Context) {
	def(ctx, "compare", func(ctx *vm.Context) error {
		a, b, err := popPair(ctx, "compare")
		if err != nil {
			return err
		}
		c, err := compareNodes(ctx, "compare", a, b)
		if err != nil {
			return err
		}
		ctx.PushInt(int64(c))
		return nil
	})

	def(ctx, "=", relOp("=", func(c int) bool { return c == 0 }))
	def(ctx, "!=", relOp("!=", func(c int) bool { return c != 0 }))
	def(ctx, ">=", relOp(">=", func(c int) bool { return c >= 0 }))
	def(ctx, ">", relOp(">", func(c int) bool { return c > 0 }))
	def(ctx, "<=", relOp("<=", func(c int) bool { return c <= 0 }))
	def(ctx, "<", relOp("<", func(c int) bool { return c < 0 }))

	def(ctx, "equal", func(ctx *vm.Context) error {
		a, b, err := popPair(ctx, "equal")
		if err != nil {
			return err
		}
		ctx.PushBool(deepEqual(ctx, a, b))
		return nil
	})

	def(ctx, "sametype", func(ctx *vm.Context) error {
		a, b, err := popPair(ctx, "sametype")
		if err != nil {
			return err
		}
		ctx.PushBool(a.Tag == b.Tag)
		return nil
	})
}

func popPair(ctx *vm.Context, op string) (a, b vm.Node, err error) {
	if err = ctx.Need(op, 2); err != nil {
		return
	}
	b, _ = ctx.Pop(op)
	a, _ = ctx.Pop(op)
	return
}

func relOp(op string, test func(int) bool) vm.Primitive {
	return func(ctx *vm.Context) error {
		a, b, err := popPair(ctx, op)
		if err != nil {
			return err
		}
		c, err := compareNodes(ctx, op, a, b)
		if err != nil {
			return err
		}
		ctx.PushBool(test(c))
		return nil
	}
}

// compareNodes mirrors comprel.h/comprel2.h's COMPREL(2) macros: numeric
// (INTEGER/FLOAT, mixed promotes to float), CHARACTER, STRING, BOOLEAN
// and USER_DEFINED (by name) operands compare; anything else is a type
// error named after op.
func compareNodes(ctx *vm.Context, op string, a, b vm.Node) (int, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		af, bf := numVal(a), numVal(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	case a.Tag == vm.STRING && b.Tag == vm.STRING:
		return strings.Compare(a.Str, b.Str), nil
	case a.Tag == vm.CHARACTER && b.Tag == vm.CHARACTER:
		return int(a.Num - b.Num), nil
	case a.Tag == vm.BOOLEAN && b.Tag == vm.BOOLEAN:
		return int(a.Num - b.Num), nil
	case (a.Tag == vm.USER_DEFINED || a.Tag == vm.ANONYMOUS_FUNCTION) && a.Tag == b.Tag:
		return strings.Compare(ctx.SprintFactor(a), ctx.SprintFactor(b)), nil
	default:
		return 0, vm.NewError(vm.TYPE, "%s: incomparable operands %s/%s", op, a.Tag, b.Tag)
	}
}

func isNumeric(n vm.Node) bool { return n.Tag == vm.INTEGER || n.Tag == vm.FLOAT }

func numVal(n vm.Node) float64 {
	if n.Tag == vm.FLOAT {
		return n.Dbl
	}
	return float64(n.Num)
}

// deepEqual mirrors comparison.c's equal_aux: LIST operands compare
// element-by-element recursively, everything else falls back to
// compareNodes == 0.
func deepEqual(ctx *vm.Context, a, b vm.Node) bool {
	if a.Tag == vm.LIST && b.Tag == vm.LIST {
		ae, be := ctx.ListToSlice(a.Val), ctx.ListToSlice(b.Val)
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !deepEqual(ctx, ae[i], be[i]) {
				return false
			}
		}
		return true
	}
	c, err := compareNodes(ctx, "equal", a, b)
	return err == nil && c == 0
}
