package builtins

import "testing"

func TestRandom(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "random .")
	f, err := ctx.PopFloat("test")
	if err != nil {
		t.Fatal(err)
	}
	if f < 0 || f >= 1 {
		t.Fatalf("got %v, want in [0,1)", f)
	}
}

func TestRand(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "10 rand .")
	n, err := ctx.PopInteger("test")
	if err != nil {
		t.Fatal(err)
	}
	if n < 0 || n >= 10 {
		t.Fatalf("got %v, want in [0,10)", n)
	}
}

func TestRandRejectsNonPositive(t *testing.T) {
	ctx := newCtx(t)
	if err := ctx.EvalString("0 rand ."); err == nil {
		t.Fatal("expected an error for a non-positive bound")
	}
}
