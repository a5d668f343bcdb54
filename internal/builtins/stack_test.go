package builtins

import "testing"

func TestStackShuffling(t *testing.T) {
	cases := []struct {
		src  string
		want []int64 // top of stack first
	}{
		{"1 dup .", []int64{1, 1}},
		{"1 2 swap .", []int64{1, 2}},
		{"1 2 pop .", []int64{1}},
		{"1 2 3 rotate .", []int64{1, 2, 3}},
		{"1 2 over .", []int64{1, 2, 1}},
	}
	for _, c := range cases {
		ctx := newCtx(t)
		mustEval(t, ctx, c.src)
		for _, want := range c.want {
			wantInt(t, ctx, want)
		}
	}
}
