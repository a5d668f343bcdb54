package vm

import "testing"

func TestCollectReclaimsGarbage(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	for i := 0; i < 50; i++ {
		ctx.Push(Node{Tag: INTEGER, Num: int64(i)})
	}
	for i := 0; i < 50; i++ {
		ctx.Pop("test")
	}
	before := ctx.heap.free
	ctx.Collect()
	if ctx.heap.free >= before {
		t.Fatalf("got free %d, want less than %d after collecting garbage", ctx.heap.free, before)
	}
	if ctx.heap.free != ctx.heap.low {
		t.Fatalf("got free %d, want low %d (nothing live left)", ctx.heap.free, ctx.heap.low)
	}
}

func TestCollectPreservesLiveStack(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	ctx.Push(Node{Tag: INTEGER, Num: 1})
	ctx.Push(Node{Tag: INTEGER, Num: 2})
	ctx.Collect()
	top, err := ctx.Pop("test")
	if err != nil {
		t.Fatal(err)
	}
	if top.Num != 2 {
		t.Fatalf("got %d, want 2", top.Num)
	}
	next, err := ctx.Pop("test")
	if err != nil {
		t.Fatal(err)
	}
	if next.Num != 1 {
		t.Fatalf("got %d, want 1", next.Num)
	}
}

func TestCollectPreservesDictValues(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	id := ctx.NewDict()
	val := ctx.Cons(Node{Tag: INTEGER, Num: 99}, NilIndex)
	ctx.DictPut(id, "k", val)
	ctx.Collect()
	got, ok := ctx.DictGet(id, "k")
	if !ok {
		t.Fatal("expected dict entry to survive collection")
	}
	if ctx.heap.Node(got).Num != 99 {
		t.Fatalf("got %d, want 99", ctx.heap.Node(got).Num)
	}
}

func TestCollectDoesNotTouchDefinitionSpace(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	body := ctx.SliceToList([]Node{{Tag: INTEGER, Num: 7}})
	ctx.symtab.Define("", "seven", body, Public)
	ctx.heap.AdvanceLow()

	lowBefore := ctx.heap.low
	ctx.Collect()
	if ctx.heap.low != lowBefore {
		t.Fatalf("got low %d, want unchanged %d", ctx.heap.low, lowBefore)
	}
	idx, _ := ctx.symtab.Lookup("", "seven")
	if err := ctx.Exec(ctx.SliceToList([]Node{{Tag: USER_DEFINED, Val: idx}})); err != nil {
		t.Fatal(err)
	}
	top, _ := ctx.Pop("test")
	if top.Num != 7 {
		t.Fatalf("got %d, want 7", top.Num)
	}
}
