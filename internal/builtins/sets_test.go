package builtins

import "testing"

func TestSetMembership(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "{0 2} 2 has .")
	wantBool(t, ctx, true)

	ctx2 := newCtx(t)
	mustEval(t, ctx2, "{0 2} 1 has .")
	wantBool(t, ctx2, false)

	ctx3 := newCtx(t)
	mustEval(t, ctx3, "2 {0 2} in .")
	wantBool(t, ctx3, true)
}

func TestSetBitwise(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "{0 1} {1 2} and .")
	n, err := ctx.Pop("test")
	if err != nil {
		t.Fatal(err)
	}
	if n.Set != 1<<1 {
		t.Fatalf("got %b, want %b", n.Set, uint64(1<<1))
	}
}

func TestNot(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "true not .")
	wantBool(t, ctx, false)
}
