// Package draw implements the generic, rose-tree-backed generator
// combinator layer that command argument generators and command-name
// generators are expressed over.
//
// It is kept free of any dependency on the command/gen domain types so
// that the domain layer can depend on draw without creating an import
// cycle (command.Adapter.Args is a draw.Generator[[]any]).
package draw

import (
	"errors"
	"fmt"
	"reflect"

	"statemgen/randsrc"
	"statemgen/tree"
)

// Generator draws a shrinkable value from src. The returned tree's
// root is the drawn value; its children are smaller candidates a
// shrinker may fall back to.
//
// A Generator reports an error only for conditions the host should see
// (SuchThatExhaustion and similar) -- a failed draw is not silently
// turned into a zero value.
type Generator[T any] func(src *randsrc.Source) (*tree.Tree[T], error)

// ErrSuchThatExhausted is returned by SuchThat when no value satisfying
// the predicate was found within the retry budget.
var ErrSuchThatExhausted = errors.New("draw: such-that exhausted its retry budget")

// Const always returns value, with no shrink candidates: it is already
// as small as it gets.
func Const[T any](value T, eq func(a, b T) bool) Generator[T] {
	return func(src *randsrc.Source) (*tree.Tree[T], error) {
		return tree.New(value, eq), nil
	}
}

// Map transforms every value g produces (root and shrink candidates
// alike) with f, preserving the shrink tree's shape.
func Map[A, B any](g Generator[A], eqB func(a, b B) bool, f func(A) B) Generator[B] {
	return func(src *randsrc.Source) (*tree.Tree[B], error) {
		t, err := g(src)
		if err != nil {
			return nil, err
		}
		return tree.Map(t, eqB, f), nil
	}
}

// Bind draws a value from g, then uses it to pick the next generator to
// draw from -- for arguments whose distribution depends on an earlier
// draw. The result's shrink tree is the chosen continuation's own
// shrink tree; g's shrink candidates are not used, so the earlier
// draw never shrinks -- the same kind of limit this module's
// command-identity shrinking has (see DESIGN.md).
func Bind[A, B any](g Generator[A], f func(A) Generator[B]) Generator[B] {
	return func(src *randsrc.Source) (*tree.Tree[B], error) {
		at, err := g(src)
		if err != nil {
			return nil, err
		}
		bt, err := f(at.Payload())(src)
		if err != nil {
			return nil, err
		}
		return bt, nil
	}
}

// SuchThat retries g until pred holds for the drawn value, or until
// maxAttempts draws have been made, in which case it returns
// ErrSuchThatExhausted. It is a generic generator-level filter;
// picker.Pick does not call it and runs its own retry loop for
// `requires`.
func SuchThat[T any](g Generator[T], pred func(T) bool, maxAttempts int) Generator[T] {
	return func(src *randsrc.Source) (*tree.Tree[T], error) {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			t, err := g(src)
			if err != nil {
				return nil, err
			}
			if pred(t.Payload()) {
				return filterTree(t, pred), nil
			}
		}
		return nil, fmt.Errorf("%w: after %d attempts", ErrSuchThatExhausted, maxAttempts)
	}
}

// filterTree drops shrink candidates that no longer satisfy pred,
// recursively, so a SuchThat generator never offers the shrinker a
// candidate it would have rejected outright.
func filterTree[T any](t *tree.Tree[T], pred func(T) bool) *tree.Tree[T] {
	out := tree.New(t.Payload(), deepEqual[T])
	for _, child := range t.Children() {
		if !pred(child.Payload()) {
			continue
		}
		out.Graft(filterTree(child, pred))
	}
	return out
}

// IntRange draws an integer in [lo,hi] (inclusive), shrinking toward
// lo by repeated halving of the distance -- the common integer shrink
// strategy used throughout the property-testing ecosystem.
func IntRange(lo, hi int) Generator[int] {
	return func(src *randsrc.Source) (*tree.Tree[int], error) {
		if hi < lo {
			return nil, fmt.Errorf("draw.IntRange: hi %d < lo %d", hi, lo)
		}
		v := lo + src.Intn(hi-lo+1)
		return intShrinkTree(v, lo), nil
	}
}

func intShrinkTree(v, lo int) *tree.Tree[int] {
	eq := func(a, b int) bool { return a == b }
	t := tree.New(v, eq)
	if v == lo {
		return t
	}
	dist := v - lo
	for d := dist; d > 0; d /= 2 {
		candidate := v - d
		if candidate == v {
			continue
		}
		t.Graft(intShrinkTree(candidate, lo))
		if d == 1 {
			break
		}
	}
	return t
}

// SliceOf draws a slice of exactly n values from elem, combining each
// element's own shrink tree with the standard shrink-a-list moves
// (drop an element, shrink an element in place) via ConsTree.
func SliceOf[T any](n int, elem Generator[T]) Generator[[]T] {
	return func(src *randsrc.Source) (*tree.Tree[[]T], error) {
		if n == 0 {
			return tree.New([]T{}, sliceEq[T]), nil
		}
		head, err := elem(src)
		if err != nil {
			return nil, err
		}
		tail, err := SliceOf(n-1, elem)(src)
		if err != nil {
			return nil, err
		}
		return ConsTree(head, tail), nil
	}
}

// sliceEq is a structural equality for arbitrary element types. Shrink
// trees never rely on HasChild/GetChild (they are walked positionally
// by the shrinker), so this only needs to be a sound equality, not a
// fast one.
func sliceEq[T any](a, b []T) bool {
	return reflect.DeepEqual(a, b)
}

// deepEqual adapts reflect.DeepEqual (which takes `any`) to the
// tree.Tree[T] equality function shape.
func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// ConsTree builds the shrink tree for cons(head, tail): the standard
// shrink-a-list moves are "drop the head" (tail, unchanged), "shrink
// the head" (cons each head shrink candidate onto the original tail),
// and "shrink the tail" (cons the original head onto each tail shrink
// candidate). This is the functorial list-shrink spec.md §4.D refers
// to, and is reused directly by gen.DrawSeqTree to build a
// CommandCall-list tree out of a single CommandCall tree and a tail
// CommandCall-list tree.
func ConsTree[T any](head *tree.Tree[T], tail *tree.Tree[[]T]) *tree.Tree[[]T] {
	payload := make([]T, 0, 1+len(tail.Payload()))
	payload = append(payload, head.Payload())
	payload = append(payload, tail.Payload()...)

	out := tree.New(payload, sliceEq[T])
	out.Graft(tail)
	for _, hc := range head.Children() {
		out.Graft(ConsTree(hc, tail))
	}
	for _, tc := range tail.Children() {
		out.Graft(ConsTree(head, tc))
	}
	return out
}
