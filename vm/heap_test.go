package vm

import "testing"

func TestHeapAllocAndNode(t *testing.T) {
	h := NewHeap(0, 0)
	if h.Cap() != defaultHeapSize {
		t.Fatalf("got cap %d, want %d", h.Cap(), defaultHeapSize)
	}
	idx := h.newNode(Node{Tag: INTEGER, Num: 7})
	if idx != 1 {
		t.Fatalf("got index %d, want 1", idx)
	}
	if n := h.Node(idx); n.Num != 7 {
		t.Fatalf("got %d, want 7", n.Num)
	}
}

func TestHeapNilIndexIsZeroNode(t *testing.T) {
	h := NewHeap(0, 0)
	n := h.Node(NilIndex)
	if n.Tag != ILLEGAL {
		t.Fatalf("got tag %v, want ILLEGAL", n.Tag)
	}
}

func TestHeapGrows(t *testing.T) {
	h := NewHeap(4, 0)
	for i := 0; i < 10; i++ {
		h.newNode(Node{Tag: INTEGER, Num: int64(i)})
	}
	if h.Cap() < 11 {
		t.Fatalf("got cap %d, want >= 11", h.Cap())
	}
	if n := h.Node(h.Free() - 1); n.Num != 9 {
		t.Fatalf("got %d, want 9", n.Num)
	}
}

func TestHeapAdvanceLow(t *testing.T) {
	h := NewHeap(0, 0)
	h.newNode(Node{Tag: INTEGER, Num: 1})
	h.AdvanceLow()
	if h.Low() != h.Free() {
		t.Fatalf("got low %d, want %d", h.Low(), h.Free())
	}
}

func TestHeapSet(t *testing.T) {
	h := NewHeap(0, 0)
	idx := h.newNode(Node{Tag: INTEGER, Num: 1})
	h.Set(idx, Node{Tag: INTEGER, Num: 2})
	if n := h.Node(idx); n.Num != 2 {
		t.Fatalf("got %d, want 2", n.Num)
	}
}

func TestHeapDict(t *testing.T) {
	h := NewHeap(0, 0)
	id := h.newDict()
	h.setDictEntries(id, []DictEntry{{Key: "a"}})
	if len(h.dictEntries(id)) != 1 {
		t.Fatalf("got %d entries, want 1", len(h.dictEntries(id)))
	}
}
