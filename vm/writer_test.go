package vm

import "testing"

func TestWriteFactorScalars(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	cases := []struct {
		n    Node
		want string
	}{
		{Node{Tag: INTEGER, Num: 42}, "42"},
		{Node{Tag: BOOLEAN, Num: 1}, "true"},
		{Node{Tag: BOOLEAN, Num: 0}, "false"},
		{Node{Tag: FLOAT, Dbl: 3}, "3.0"},
		{Node{Tag: FLOAT, Dbl: 1.5}, "1.5"},
		{Node{Tag: CHARACTER, Num: 'A'}, "'A"},
	}
	for _, c := range cases {
		if got := ctx.SprintFactor(c.n); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestWriteStringLiteralEscaping(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	got := ctx.SprintFactor(Node{Tag: STRING, Str: "a\"b\nc"})
	want := `"a\"b\nc"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteSet(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	got := ctx.SprintFactor(Node{Tag: SET, Set: 1<<0 | 1<<2})
	want := "{0 2}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteTermList(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	head := ctx.SliceToList([]Node{
		{Tag: INTEGER, Num: 1},
		{Tag: INTEGER, Num: 2},
		{Tag: INTEGER, Num: 3},
	})
	got := ctx.Sprint(head)
	want := "1 2 3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteNestedList(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	inner := ctx.SliceToList([]Node{{Tag: INTEGER, Num: 1}, {Tag: INTEGER, Num: 2}})
	n := Node{Tag: LIST, Val: inner}
	got := ctx.SprintFactor(n)
	want := "[1 2]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintAutoputPop(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputPop})
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	ctx.Push(Node{Tag: INTEGER, Num: 2})
	ctx.Print()
	if ctx.Depth() != 1 {
		t.Fatalf("got depth %d, want 1 (autoput pops the top)", ctx.Depth())
	}
	top, _ := ctx.Pop("test")
	if top.Num != 1 {
		t.Fatalf("got %d, want 1 left on the stack", top.Num)
	}
}

func TestPrintAutoputAllLeavesStackIntact(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputAll})
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	ctx.Push(Node{Tag: INTEGER, Num: 2})
	ctx.Print()
	if ctx.Depth() != 2 {
		t.Fatalf("got depth %d, want 2 (autoput all leaves the stack intact)", ctx.Depth())
	}
}

func TestPrintAutoputNeverIsNoop(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	ctx.Print()
	if ctx.Depth() != 1 {
		t.Fatalf("got depth %d, want 1 (autoput never touches the stack)", ctx.Depth())
	}
}
