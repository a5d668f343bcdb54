package builtins

import "github.com/shakfu/joy-sub000/vm"

// registerSets wires and/has/in/not/or/xor (src/builtin/sets.c). and/or/xor
// operate on a SET pair (bitwise) or a BOOLEAN pair (logical), mirroring the
// ANDORXOR macro; has/in test aggregate or set membership, mirroring INHAS.
func registerSets(ctx *vm.Context) {
	def(ctx, "and", andOrXor("and", func(a, b uint64) uint64 { return a & b }, func(a, b bool) bool { return a && b }))
	def(ctx, "or", andOrXor("or", func(a, b uint64) uint64 { return a | b }, func(a, b bool) bool { return a || b }))
	def(ctx, "xor", andOrXor("xor", func(a, b uint64) uint64 { return a ^ b }, func(a, b bool) bool { return a != b }))

	def(ctx, "not", func(ctx *vm.Context) error {
		n, err := ctx.Pop("not")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.SET:
			ctx.PushSet(^n.Set)
		case vm.BOOLEAN, vm.CHARACTER, vm.INTEGER:
			ctx.PushBool(n.Num == 0)
		default:
			return vm.NewError(vm.TYPE, "not: expected a set, boolean, character or integer")
		}
		return nil
	})

	def(ctx, "has", func(ctx *vm.Context) error {
		a, x, err := popPair(ctx, "has")
		if err != nil {
			return err
		}
		return pushMember(ctx, "has", x, a)
	})

	def(ctx, "in", func(ctx *vm.Context) error {
		x, a, err := popPair(ctx, "in")
		if err != nil {
			return err
		}
		return pushMember(ctx, "in", x, a)
	})
}

func andOrXor(op string, setOp func(a, b uint64) uint64, boolOp func(a, b bool) bool) vm.Primitive {
	return func(ctx *vm.Context) error {
		a, b, err := popPair(ctx, op)
		if err != nil {
			return err
		}
		switch {
		case a.Tag == vm.SET && b.Tag == vm.SET:
			ctx.PushSet(setOp(a.Set, b.Set))
		case a.Tag == vm.BOOLEAN && b.Tag == vm.BOOLEAN:
			ctx.PushBool(boolOp(a.Num != 0, b.Num != 0))
		default:
			return vm.NewError(vm.TYPE, "%s: expected two sets or two booleans", op)
		}
		return nil
	}
}

// pushMember tests whether x is a member of aggregate a: a SET tests bit
// membership for an INTEGER x, otherwise a is walked as a LIST/STRING
// aggregate and compared element-wise with deepEqual.
func pushMember(ctx *vm.Context, op string, x, a vm.Node) error {
	if a.Tag == vm.SET {
		if x.Tag != vm.INTEGER || x.Num < 0 || x.Num > 63 {
			return vm.NewError(vm.TYPE, "%s: set membership test requires an integer 0-63", op)
		}
		ctx.PushBool(a.Set&(uint64(1)<<uint(x.Num)) != 0)
		return nil
	}
	elems, err := toElems(ctx, op, a)
	if err != nil {
		return err
	}
	for _, el := range elems {
		if deepEqual(ctx, x, el) {
			ctx.PushBool(true)
			return nil
		}
	}
	ctx.PushBool(false)
	return nil
}
