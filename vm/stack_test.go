package vm

import "testing"

func TestNeedAndStackUnderflow(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	if err := ctx.Need("foo", 1); err == nil {
		t.Fatal("expected STACK_UNDERFLOW on an empty stack")
	}
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	if err := ctx.Need("foo", 1); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Need("foo", 2); err == nil {
		t.Fatal("expected STACK_UNDERFLOW with only one item present")
	}
}

func TestNthNode(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	ctx.Push(Node{Tag: INTEGER, Num: 2})
	ctx.Push(Node{Tag: INTEGER, Num: 3})
	if got := ctx.NthNode(0).Num; got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := ctx.NthNode(1).Num; got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestPopTypedAccessors(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})

	ctx.PushInt(5)
	if v, err := ctx.PopInteger("test"); err != nil || v != 5 {
		t.Fatalf("got %v, %v, want 5, nil", v, err)
	}

	ctx.PushFloat(2.5)
	if v, err := ctx.PopFloat("test"); err != nil || v != 2.5 {
		t.Fatalf("got %v, %v, want 2.5, nil", v, err)
	}

	ctx.PushInt(4)
	if v, err := ctx.PopFloat("test"); err != nil || v != 4.0 {
		t.Fatalf("got %v, %v, want an integer promoted to 4.0", v, err)
	}

	ctx.PushString("hi")
	if v, err := ctx.PopString("test"); err != nil || v != "hi" {
		t.Fatalf("got %v, %v, want hi, nil", v, err)
	}

	ctx.PushBool(true)
	if v, err := ctx.PopBool("test"); err != nil || !v {
		t.Fatalf("got %v, %v, want true, nil", v, err)
	}

	ctx.PushQuotation(intList(ctx, 1, 2))
	if head, err := ctx.PopQuotation("test"); err != nil || ctx.ListToSlice(head)[0].Num != 1 {
		t.Fatalf("got %v, %v", head, err)
	}
}

func TestPopTypedAccessorsTypeErrors(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	ctx.PushString("not an int")
	if _, err := ctx.PopInteger("test"); err == nil {
		t.Fatal("expected a TYPE error popping a string as an integer")
	}
}

func TestClearAndEmpty(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	if !ctx.Empty() {
		t.Fatal("expected a fresh context to have an empty stack")
	}
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	if ctx.Empty() {
		t.Fatal("expected the stack to be non-empty after a push")
	}
	ctx.Clear()
	if !ctx.Empty() {
		t.Fatal("expected Clear to empty the stack")
	}
	ctx.Clear()
	if !ctx.Empty() {
		t.Fatal("expected Clear on an already-empty stack to remain a no-op")
	}
}
