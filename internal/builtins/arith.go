package builtins

import (
	"math"

	"github.com/shakfu/joy-sub000/vm"
)

// numPair pops two numeric operands (either may be INTEGER or FLOAT),
// promoting to float if either operand is a float, mirroring
// src/builtin/plusminus.h's FLOAT_I/INTEGERS2 fallback pattern: try the
// float path first, fall back to integer-only arithmetic.
func numPair(ctx *vm.Context, op string) (aInt, bInt int64, aFlt, bFlt float64, isFloat bool, err error) {
	if err = ctx.Need(op, 2); err != nil {
		return
	}
	bN, y := ctx.Top(), ctx.NthNode(1)
	if bN.Tag == vm.FLOAT || y.Tag == vm.FLOAT {
		isFloat = true
	}
	if isFloat {
		bFlt, err = ctx.PopFloat(op)
		if err != nil {
			return
		}
		aFlt, err = ctx.PopFloat(op)
		return
	}
	bInt, err = ctx.PopInteger(op)
	if err != nil {
		return
	}
	aInt, err = ctx.PopInteger(op)
	return
}

func registerArith(ctx *vm.Context) {
	def(ctx, "abs", func(ctx *vm.Context) error {
		n, err := ctx.Pop("abs")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.INTEGER:
			if n.Num < 0 {
				n.Num = -n.Num
			}
			ctx.Push(n)
		case vm.FLOAT:
			ctx.PushFloat(math.Abs(n.Dbl))
		default:
			return vm.NewError(vm.TYPE, "abs: expected a number, got %s", n.Tag)
		}
		return nil
	})

	def(ctx, "ceil", unaryFloat("ceil", math.Ceil))
	def(ctx, "floor", unaryFloat("floor", math.Floor))
	def(ctx, "round", unaryFloat("round", math.Round))
	def(ctx, "trunc", unaryFloat("trunc", math.Trunc))

	def(ctx, "div", func(ctx *vm.Context) error {
		if err := ctx.Need("div", 2); err != nil {
			return err
		}
		b, err := ctx.PopInteger("div")
		if err != nil {
			return err
		}
		a, err := ctx.PopInteger("div")
		if err != nil {
			return err
		}
		if b == 0 {
			return vm.NewError(vm.RUNTIME, "div: division by zero")
		}
		ctx.PushInt(a / b)
		ctx.PushInt(a % b)
		return nil
	})

	def(ctx, "divide", func(ctx *vm.Context) error {
		a, b, af, bf, isFloat, err := numPair(ctx, "divide")
		if err != nil {
			return err
		}
		if isFloat {
			ctx.PushFloat(af / bf)
			return nil
		}
		if b == 0 {
			return vm.NewError(vm.RUNTIME, "divide: division by zero")
		}
		ctx.PushInt(a / b)
		return nil
	})

	def(ctx, "frexp", func(ctx *vm.Context) error {
		f, err := ctx.PopFloat("frexp")
		if err != nil {
			return err
		}
		mant, exp := math.Frexp(f)
		ctx.PushFloat(mant)
		ctx.PushInt(int64(exp))
		return nil
	})

	def(ctx, "ldexp", func(ctx *vm.Context) error {
		if err := ctx.Need("ldexp", 2); err != nil {
			return err
		}
		exp, err := ctx.PopInteger("ldexp")
		if err != nil {
			return err
		}
		f, err := ctx.PopFloat("ldexp")
		if err != nil {
			return err
		}
		ctx.PushFloat(math.Ldexp(f, int(exp)))
		return nil
	})

	def(ctx, "max", func(ctx *vm.Context) error { return maxMin(ctx, "max", false) })
	def(ctx, "min", func(ctx *vm.Context) error { return maxMin(ctx, "min", true) })

	def(ctx, "-", func(ctx *vm.Context) error {
		a, b, af, bf, isFloat, err := numPair(ctx, "-")
		if err != nil {
			return err
		}
		if isFloat {
			ctx.PushFloat(af - bf)
			return nil
		}
		ctx.PushInt(a - b)
		return nil
	})
	def(ctx, "+", func(ctx *vm.Context) error {
		a, b, af, bf, isFloat, err := numPair(ctx, "+")
		if err != nil {
			return err
		}
		if isFloat {
			ctx.PushFloat(af + bf)
			return nil
		}
		ctx.PushInt(a + b)
		return nil
	})
	def(ctx, "*", func(ctx *vm.Context) error {
		a, b, af, bf, isFloat, err := numPair(ctx, "*")
		if err != nil {
			return err
		}
		if isFloat {
			ctx.PushFloat(af * bf)
			return nil
		}
		ctx.PushInt(a * b)
		return nil
	})

	def(ctx, "modf", func(ctx *vm.Context) error {
		f, err := ctx.PopFloat("modf")
		if err != nil {
			return err
		}
		ip, fp := math.Modf(f)
		ctx.PushFloat(fp)
		ctx.PushFloat(ip)
		return nil
	})

	def(ctx, "neg", func(ctx *vm.Context) error {
		n, err := ctx.Pop("neg")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.INTEGER:
			n.Num = -n.Num
			ctx.Push(n)
		case vm.FLOAT:
			ctx.PushFloat(-n.Dbl)
		default:
			return vm.NewError(vm.TYPE, "neg: expected a number, got %s", n.Tag)
		}
		return nil
	})

	def(ctx, "pred", func(ctx *vm.Context) error { return predSucc(ctx, "pred", -1) })
	def(ctx, "succ", func(ctx *vm.Context) error { return predSucc(ctx, "succ", 1) })

	def(ctx, "rem", func(ctx *vm.Context) error {
		if err := ctx.Need("rem", 2); err != nil {
			return err
		}
		b, err := ctx.PopInteger("rem")
		if err != nil {
			return err
		}
		a, err := ctx.PopInteger("rem")
		if err != nil {
			return err
		}
		if b == 0 {
			return vm.NewError(vm.RUNTIME, "rem: division by zero")
		}
		ctx.PushInt(a % b)
		return nil
	})

	def(ctx, "sign", func(ctx *vm.Context) error {
		n, err := ctx.Pop("sign")
		if err != nil {
			return err
		}
		switch n.Tag {
		case vm.INTEGER:
			switch {
			case n.Num > 0:
				ctx.PushInt(1)
			case n.Num < 0:
				ctx.PushInt(-1)
			default:
				ctx.PushInt(0)
			}
		case vm.FLOAT:
			switch {
			case n.Dbl > 0:
				ctx.PushFloat(1)
			case n.Dbl < 0:
				ctx.PushFloat(-1)
			default:
				ctx.PushFloat(0)
			}
		default:
			return vm.NewError(vm.TYPE, "sign: expected a number, got %s", n.Tag)
		}
		return nil
	})
}

func unaryFloat(op string, fn func(float64) float64) vm.Primitive {
	return func(ctx *vm.Context) error {
		f, err := ctx.PopFloat(op)
		if err != nil {
			return err
		}
		ctx.PushFloat(fn(f))
		return nil
	}
}

func maxMin(ctx *vm.Context, op string, wantMin bool) error {
	a, b, af, bf, isFloat, err := numPair(ctx, op)
	if err != nil {
		return err
	}
	if isFloat {
		if (wantMin && af < bf) || (!wantMin && af > bf) {
			ctx.PushFloat(af)
		} else {
			ctx.PushFloat(bf)
		}
		return nil
	}
	if (wantMin && a < b) || (!wantMin && a > b) {
		ctx.PushInt(a)
	} else {
		ctx.PushInt(b)
	}
	return nil
}

func predSucc(ctx *vm.Context, op string, delta int64) error {
	n, err := ctx.Pop(op)
	if err != nil {
		return err
	}
	switch n.Tag {
	case vm.INTEGER:
		n.Num += delta
		ctx.Push(n)
	case vm.FLOAT:
		ctx.PushFloat(n.Dbl + float64(delta))
	default:
		return vm.NewError(vm.TYPE, "%s: expected a number, got %s", op, n.Tag)
	}
	return nil
}
