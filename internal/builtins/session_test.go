package builtins

import "testing"

func TestSessionOpenClose(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `":memory:" session`)
	defer mustEval(t, ctx, "session-close")

	mustEval(t, ctx, "sessions size .")
	wantInt(t, ctx, 0)
}

func TestSessionSnapshotRestore(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `":memory:" session`)
	defer mustEval(t, ctx, "session-close")

	mustEval(t, ctx, `"empty" snapshot`)
	mustEval(t, ctx, "snapshots size .")
	wantInt(t, ctx, 1)

	mustEval(t, ctx, `"empty" restore`)
}

func TestSessionSQL(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `":memory:" session`)
	defer mustEval(t, ctx, "session-close")

	mustEval(t, ctx, `"SELECT 1" [] sql size .`)
	wantInt(t, ctx, 1)
}

func TestSessionRequiresOpen(t *testing.T) {
	ctx := newCtx(t)
	if err := ctx.EvalString(`"foo" snapshot`); err == nil {
		t.Fatal("expected an error with no open session")
	}
}
