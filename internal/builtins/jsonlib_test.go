package builtins

import "testing"

func TestJSONRoundTripArray(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `"[1,2,3]" json> size .`)
	wantInt(t, ctx, 3)
}

func TestJSONEncodeList(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `[1 2 3] >json .`)
	wantString(t, ctx, "[1,2,3]")
}

func TestJSONDict(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `"{\"a\":1}" json> "a" dget .`)
	wantInt(t, ctx, 1)
}
