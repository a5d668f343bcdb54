package builtins

import "testing"

func TestDip(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "1 2 [3 +] dip .")
	wantInt(t, ctx, 2)
	wantInt(t, ctx, 4)
}

func TestMap(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3] [1 +] map size .")
	wantInt(t, ctx, 3)
}

func TestMapValues(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3] [1 +] map 0 at .")
	wantInt(t, ctx, 2)
}

func TestFilter(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3 4] [2 >] filter size .")
	wantInt(t, ctx, 2)
}

func TestFold(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "[1 2 3 4] 0 [+] fold .")
	wantInt(t, ctx, 10)
}
