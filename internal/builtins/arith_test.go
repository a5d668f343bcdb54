package builtins

import "testing"

func TestArith(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"2 3 + .", 5},
		{"10 3 - .", 7},
		{"4 5 * .", 20},
		{"20 4 divide .", 5},
		{"7 -1 * abs .", 7},
		{"3 succ .", 4},
		{"3 pred .", 2},
		{"-5 sign .", -1},
	}
	for _, c := range cases {
		ctx := newCtx(t)
		mustEval(t, ctx, c.src)
		wantInt(t, ctx, c.want)
	}
}

func TestArithFloat(t *testing.T) {
	ctx := newCtx(t)
	mustEval(t, ctx, "1.5 2.5 + .")
	f, err := ctx.PopFloat("test")
	if err != nil {
		t.Fatal(err)
	}
	if f != 4.0 {
		t.Fatalf("got %v, want 4.0", f)
	}
}
