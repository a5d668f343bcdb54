package builtins

import "testing"

func TestChrOrd(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "65 chr .")
	n, err := ctx.Pop("test")
	if err != nil {
		t.Fatal(err)
	}
	if n.Num != 'A' {
		t.Fatalf("got %v, want 'A'", n.Num)
	}

	ctx2 := newCtx(t)
	mustEval(t, ctx2, "'A ord .")
	wantInt(t, ctx2, int64('A'))
}

func TestStrtod(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `"3.5" strtod .`)
	f, err := ctx.PopFloat("test")
	if err != nil {
		t.Fatal(err)
	}
	if f != 3.5 {
		t.Fatalf("got %v, want 3.5", f)
	}
}

func TestStrtol(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `"ff" 16 strtol .`)
	wantInt(t, ctx, 255)
}

func TestToString(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "42 tostring .")
	wantString(t, ctx, "42")
}

func TestUpperLower(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, `"Abc" upper .`)
	wantString(t, ctx, "ABC")

	ctx2 := newCtx(t)
	mustEval(t, ctx2, `"Abc" lower .`)
	wantString(t, ctx2, "abc")
}
