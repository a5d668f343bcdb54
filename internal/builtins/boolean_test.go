package builtins

import "testing"

func TestBooleanLiterals(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "true false and .")
	wantBool(t, ctx, false)
}

func TestBooleanAllSome(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3] [0 >] all .")
	wantBool(t, ctx, true)

	ctx2 := newCtx(t)
	mustEval(t, ctx2, "[1 2 3] [2 >] some .")
	wantBool(t, ctx2, true)
}
