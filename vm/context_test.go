package vm

import "testing"

func TestConsAndListToSlice(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	head := ctx.Cons(Node{Tag: INTEGER, Num: 1}, NilIndex)
	head = ctx.Cons(Node{Tag: INTEGER, Num: 2}, head)
	got := ctx.ListToSlice(head)
	if len(got) != 2 || got[0].Num != 2 || got[1].Num != 1 {
		t.Fatalf("got %v, want [2 1]", got)
	}
}

func TestSliceToListRoundTrip(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	elems := []Node{{Tag: INTEGER, Num: 1}, {Tag: INTEGER, Num: 2}, {Tag: INTEGER, Num: 3}}
	head := ctx.SliceToList(elems)
	got := ctx.ListToSlice(head)
	for i, n := range got {
		if n.Num != elems[i].Num {
			t.Fatalf("index %d: got %v, want %v", i, n.Num, elems[i].Num)
		}
	}
}

func TestListToSliceEmpty(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	if got := ctx.ListToSlice(NilIndex); len(got) != 0 {
		t.Fatalf("got %v, want an empty slice", got)
	}
}

func TestDictPutGetReplace(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	id := ctx.NewDict()
	dictVal := ctx.NodeAt(id).Val
	ctx.DictPut(dictVal, "a", ctx.Cons(Node{Tag: INTEGER, Num: 1}, NilIndex))
	v, ok := ctx.DictGet(dictVal, "a")
	if !ok || ctx.NodeAt(v).Num != 1 {
		t.Fatalf("got %v, %v, want 1, true", v, ok)
	}
	ctx.DictPut(dictVal, "a", ctx.Cons(Node{Tag: INTEGER, Num: 2}, NilIndex))
	v, ok = ctx.DictGet(dictVal, "a")
	if !ok || ctx.NodeAt(v).Num != 2 {
		t.Fatalf("got %v, %v, want 2, true (replace, not append)", v, ok)
	}
	if len(ctx.DictEntries(dictVal)) != 1 {
		t.Fatalf("got %d entries, want 1", len(ctx.DictEntries(dictVal)))
	}
}

func TestDictGetMissing(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	id := ctx.NewDict()
	dictVal := ctx.NodeAt(id).Val
	if _, ok := ctx.DictGet(dictVal, "nope"); ok {
		t.Fatal("expected a missing key to report ok == false")
	}
}

func TestBeginEndDefinitionAdvancesLow(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	lowBefore := ctx.heap.Low()
	ctx.BeginDefinition()
	ctx.NewNode(INTEGER, NilIndex)
	ctx.EndDefinition(true)
	if ctx.heap.Low() <= lowBefore {
		t.Fatalf("got low %d, want greater than %d after committing a definition", ctx.heap.Low(), lowBefore)
	}
}

func TestEndDefinitionWithoutCommitLeavesLow(t *testing.T) {
	ctx := NewContext(Config{Autoput: AutoputNever})
	lowBefore := ctx.heap.Low()
	ctx.BeginDefinition()
	ctx.NewNode(INTEGER, NilIndex)
	ctx.EndDefinition(false)
	if ctx.heap.Low() != lowBefore {
		t.Fatalf("got low %d, want unchanged %d", ctx.heap.Low(), lowBefore)
	}
}
