package vm

import "testing"

func TestExecLiteralsPushInOrder(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	program := ctx.SliceToList([]Node{
		{Tag: INTEGER, Num: 1},
		{Tag: INTEGER, Num: 2},
	})
	if err := ctx.Exec(program); err != nil {
		t.Fatal(err)
	}
	top, _ := ctx.Pop("test")
	if top.Num != 2 {
		t.Fatalf("got %d, want 2", top.Num)
	}
	next, _ := ctx.Pop("test")
	if next.Num != 1 {
		t.Fatalf("got %d, want 1", next.Num)
	}
}

func TestExecLiteralListIsCopiedNotAliased(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	inner := ctx.SliceToList([]Node{{Tag: INTEGER, Num: 1}})
	quote := Node{Tag: LIST, Val: inner}
	program := ctx.SliceToList([]Node{quote, quote})

	if err := ctx.Exec(program); err != nil {
		t.Fatal(err)
	}
	second, _ := ctx.Pop("test")
	first, _ := ctx.Pop("test")
	if first.Val == second.Val {
		t.Fatal("two executions of the same literal quotation shared list structure")
	}
}

func TestExecPrimitive(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	called := false
	id := ctx.symtab.DefinePrimitive("", "mark", func(ctx *Context) error {
		called = true
		return nil
	})
	program := ctx.SliceToList([]Node{{Tag: ANONYMOUS_FUNCTION, Val: id}})
	if err := ctx.Exec(program); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("primitive was not invoked")
	}
}

func TestExecUndefinedUserSymbol(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever, UndefError: true})
	idx, _ := ctx.symtab.Define("", "nope", NilIndex, Public)
	program := ctx.SliceToList([]Node{{Tag: USER_DEFINED, Val: idx}})
	if err := ctx.Exec(program); err == nil {
		t.Fatal("expected an error for an undefined symbol with UndefError set")
	}
}

func TestExecUndefinedUserSymbolSilent(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever, UndefError: false})
	idx, _ := ctx.symtab.Define("", "nope", NilIndex, Public)
	program := ctx.SliceToList([]Node{{Tag: USER_DEFINED, Val: idx}})
	if err := ctx.Exec(program); err != nil {
		t.Fatalf("expected silent continuation, got %v", err)
	}
}

func TestExecUserDefinitionTailCall(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	body := ctx.SliceToList([]Node{{Tag: INTEGER, Num: 42}})
	idx, _ := ctx.symtab.Define("", "answer", body, Public)
	program := ctx.SliceToList([]Node{{Tag: USER_DEFINED, Val: idx}})
	if err := ctx.Exec(program); err != nil {
		t.Fatal(err)
	}
	top, _ := ctx.Pop("test")
	if top.Num != 42 {
		t.Fatalf("got %d, want 42", top.Num)
	}
}
