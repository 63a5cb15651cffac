package draw

import (
	"testing"

	"statemgen/randsrc"
	"statemgen/tree"
)

func TestConstHasNoShrinks(t *testing.T) {
	g := Const(5, func(a, b int) bool { return a == b })
	tr, err := g(randsrc.NewSource(1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Payload() != 5 {
		t.Fatalf("expected payload 5, got %v", tr.Payload())
	}
	if len(tr.Children()) != 0 {
		t.Fatalf("Const should have no shrink candidates")
	}
}

func TestMapTransformsPayloadAndShrinks(t *testing.T) {
	g := IntRange(0, 10)
	mapped := Map(g, func(a, b string) bool { return a == b }, func(i int) string {
		return string(rune('a' + i))
	})
	tr, err := mapped(randsrc.NewSource(3, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Payload()) != 1 {
		t.Fatalf("expected a single-rune string")
	}
}

func TestSuchThatFiltersDrawsAndShrinks(t *testing.T) {
	g := IntRange(0, 20)
	even := SuchThat(g, func(i int) bool { return i%2 == 0 }, 1000)
	tr, err := even(randsrc.NewSource(9, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Payload()%2 != 0 {
		t.Fatalf("expected an even payload, got %v", tr.Payload())
	}
	for _, child := range tr.Children() {
		if child.Payload()%2 != 0 {
			t.Fatalf("shrink candidate %v is not even", child.Payload())
		}
	}
}

func TestSuchThatExhausts(t *testing.T) {
	g := Const(1, func(a, b int) bool { return a == b })
	impossible := SuchThat(g, func(i int) bool { return i == 2 }, 5)
	_, err := impossible(randsrc.NewSource(1, 1))
	if err == nil {
		t.Fatalf("expected ErrSuchThatExhausted")
	}
}

func TestBindUsesEarlierDrawForContinuation(t *testing.T) {
	lenGen := IntRange(1, 3)
	bound := Bind(lenGen, func(n int) Generator[[]int] {
		return SliceOf(n, Const(0, func(a, b int) bool { return a == b }))
	})
	tr, err := bound(randsrc.NewSource(11, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Payload()) < 1 || len(tr.Payload()) > 3 {
		t.Fatalf("expected a slice of 1-3 elements, got %v", tr.Payload())
	}
}

func TestIntRangeShrinksTowardLo(t *testing.T) {
	tr, err := IntRange(10, 20)(randsrc.NewSource(5, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Payload() < 10 || tr.Payload() > 20 {
		t.Fatalf("value out of range: %v", tr.Payload())
	}
	for _, leaf := range tr.GetAllLeafNodes() {
		if leaf.Payload() < 10 {
			t.Fatalf("shrink candidate %v below lo bound", leaf.Payload())
		}
	}
	if tr.Payload() != 10 {
		found := tr.SearchLeafNodes(func(i int) bool { return i == 10 }) || tr.DepthFirstSearch(func(i int) bool { return i == 10 })
		if !found {
			t.Fatalf("expected the shrink tree to eventually reach lo=10")
		}
	}
}

func TestSliceOfLength(t *testing.T) {
	g := SliceOf(4, IntRange(0, 5))
	tr, err := g(randsrc.NewSource(2, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Payload()) != 4 {
		t.Fatalf("expected a slice of length 4, got %v", len(tr.Payload()))
	}
}

func TestConsTreeDropHeadShrink(t *testing.T) {
	eq := func(a, b int) bool { return a == b }
	head := tree.New(1, eq)
	tail := tree.New([]int{2, 3}, sliceEq[int])

	consed := ConsTree(head, tail)
	if len(consed.Payload()) != 3 {
		t.Fatalf("expected cons payload length 3, got %v", len(consed.Payload()))
	}

	foundDropHead := false
	for _, child := range consed.Children() {
		if len(child.Payload()) == 2 && child.Payload()[0] == 2 && child.Payload()[1] == 3 {
			foundDropHead = true
		}
	}
	if !foundDropHead {
		t.Fatalf("expected a shrink candidate equal to the tail (drop-head move)")
	}
}
