package builtins

import (
	"math/rand/v2"

	"github.com/shakfu/joy-sub000/vm"
)

// registerRand wires random/rand. Nothing in the example pack carries a
// non-stdlib random number library, and math/rand/v2 is the ecosystem's
// own recommended generator (PCG-based, no external driver needed), so
// this one family stays on the standard library; see DESIGN.md.
func registerRand(ctx *vm.Context) {
	def(ctx, "random", func(ctx *vm.Context) error {
		ctx.PushFloat(rand.Float64())
		return nil
	})

	def(ctx, "rand", func(ctx *vm.Context) error {
		n, err := ctx.PopInteger("rand")
		if err != nil {
			return err
		}
		if n <= 0 {
			return vm.NewError(vm.RUNTIME, "rand: bound must be positive")
		}
		ctx.PushInt(rand.Int64N(n))
		return nil
	})
}
