package builtins

import (
	"testing"

	"github.com/shakfu/joy-sub000/internal/reader"
	"github.com/shakfu/joy-sub000/vm"
)

// newCtx builds a context with every primitive family registered and a
// real reader installed, the same way cmd/joy wires one up, so tests
// exercise the builtins through ordinary Joy source rather than calling
// Go functions directly.
func newCtx(t *testing.T) *vm.Context {
	t.Helper()
	ctx := vm.NewContext(vm.Config{Autoput: vm.AutoputNever})
	Register(ctx)
	ctx.SetReader(reader.NewReader(nil))
	return ctx
}

func mustEval(t *testing.T, ctx *vm.Context, src string) {
	t.Helper()
	if err := ctx.EvalString(src); err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
}

func wantInt(t *testing.T, ctx *vm.Context, want int64) {
	t.Helper()
	n, err := ctx.PopInteger("test")
	if err != nil {
		t.Fatalf("pop integer: %v", err)
	}
	if n != want {
		t.Fatalf("got %d, want %d", n, want)
	}
}

func wantFloat(t *testing.T, ctx *vm.Context, want float64) {
	t.Helper()
	n, err := ctx.Pop("test")
	if err != nil {
		t.Fatalf("pop float: %v", err)
	}
	if n.Tag != vm.FLOAT || n.Dbl != want {
		t.Fatalf("got %s %v, want float %v", n.Tag, n.Dbl, want)
	}
}

func wantBool(t *testing.T, ctx *vm.Context, want bool) {
	t.Helper()
	b, err := ctx.PopBool("test")
	if err != nil {
		t.Fatalf("pop bool: %v", err)
	}
	if b != want {
		t.Fatalf("got %v, want %v", b, want)
	}
}

func wantString(t *testing.T, ctx *vm.Context, want string) {
	t.Helper()
	s, err := ctx.PopString("test")
	if err != nil {
		t.Fatalf("pop string: %v", err)
	}
	if s != want {
		t.Fatalf("got %q, want %q", s, want)
	}
}
