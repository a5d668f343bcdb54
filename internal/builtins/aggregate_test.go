package builtins

import "testing"

func TestCons(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "1 [2 3] cons first .")
	wantInt(t, ctx, 1)
}

func TestFirstRest(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3] rest first .")
	wantInt(t, ctx, 2)
}

func TestSize(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3 4] size .")
	wantInt(t, ctx, 4)
}

func TestNullSmall(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[] null .")
	wantBool(t, ctx, true)

	ctx2 := newCtx(t)
	mustEval(t, ctx2, "[1] small .")
	wantBool(t, ctx2, true)
}

func TestConcat(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2] [3 4] concat size .")
	wantInt(t, ctx, 4)
}

func TestTakeDrop(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3 4] 2 take size .")
	wantInt(t, ctx, 2)

	ctx2 := newCtx(t)
	mustEval(t, ctx2, "[1 2 3 4] 2 drop size .")
	wantInt(t, ctx2, 2)
}
