// Package shrink implements the Shrinker: an explicit, multi-axis
// reduction over a generated Case, in the five move families
// prefix-remove/shrink, thread-remove/shrink, pull-into-prefix,
// prefix-double-remove/shrink, and thread-double-remove/shrink.
//
// It is explicit rather than derived from the component trees alone,
// because the cross-thread "pull into prefix" and double-delete moves
// have no counterpart in any single component's native shrink tree.
// Grounded on the teacher's failureManager, which also explores a tree
// of candidate reduced states looking for the smallest one that still
// reproduces a property -- generalized here from "smallest failing
// schedule" to "smallest failing case".
package shrink

import (
	"golang.org/x/exp/slices"

	"statemgen/command"
	"statemgen/gen"
	"statemgen/tree"
)

// caseEq is a structural equality over Case, used as every shrink
// Tree[gen.Case] node's comparator.
func caseEq(a, b gen.Case) bool {
	if len(a.Sequential) != len(b.Sequential) || len(a.Parallel) != len(b.Parallel) {
		return false
	}
	for i := range a.Sequential {
		if a.Sequential[i].Handle != b.Sequential[i].Handle {
			return false
		}
	}
	for i := range a.Parallel {
		if len(a.Parallel[i]) != len(b.Parallel[i]) {
			return false
		}
	}
	return true
}

// Shrink builds the shrink tree rooted at ct's current value, per the
// five move families, pruning empty threads before the node is built.
// It does not itself filter candidates for well-formedness -- the root
// package's shrinkToMinimal skips candidates that fail
// interleave.WellFormed, matching how this module always keeps the
// structural shrinker and the semantic validity filter separate.
func Shrink(ct *gen.CaseTree) *tree.Tree[gen.Case] {
	ct = &gen.CaseTree{Prefix: ct.Prefix, Threads: pruneEmpty(ct.Threads)}
	node := tree.New(ct.Value(), caseEq)

	for _, child := range prefixMoves(ct) {
		node.Graft(Shrink(child))
	}
	for _, child := range threadMoves(ct) {
		node.Graft(Shrink(child))
	}
	for _, child := range pullIntoPrefixMoves(ct) {
		node.Graft(Shrink(child))
	}
	for _, child := range prefixDoubleMoves(ct) {
		node.Graft(Shrink(child))
	}
	for _, child := range threadDoubleMoves(ct) {
		node.Graft(Shrink(child))
	}

	return node
}

// prefixMoves yields one CaseTree per native shrink candidate of the
// prefix tree (one command removed or shrunk from the prefix).
func prefixMoves(ct *gen.CaseTree) []*gen.CaseTree {
	moves := make([]*gen.CaseTree, 0, len(ct.Prefix.Children()))
	for _, child := range ct.Prefix.Children() {
		moves = append(moves, &gen.CaseTree{Prefix: child, Threads: pruneEmpty(ct.Threads)})
	}
	return moves
}

// threadMoves yields one CaseTree per native shrink candidate of any
// single thread, leaving the prefix and every other thread untouched.
func threadMoves(ct *gen.CaseTree) []*gen.CaseTree {
	var moves []*gen.CaseTree
	for i, th := range ct.Threads {
		for _, child := range th.Children() {
			moves = append(moves, &gen.CaseTree{Prefix: ct.Prefix, Threads: replaceThread(ct.Threads, i, child)})
		}
	}
	return pruneEmptyInEach(moves)
}

// pullIntoPrefixMoves yields, for each non-empty thread, the CaseTree
// obtained by moving that thread's first call onto the end of the
// prefix. Threads were drawn from the same post-prefix state ignoring
// one another, so this preserves the model trajectory interleaving
// validation checks.
func pullIntoPrefixMoves(ct *gen.CaseTree) []*gen.CaseTree {
	var moves []*gen.CaseTree
	for i, th := range ct.Threads {
		calls := th.Payload()
		if len(calls) == 0 {
			continue
		}
		newPrefix := tree.New(append(append([]command.Call{}, ct.Prefix.Payload()...), calls[0]), prefixEq)
		newThread := tree.New(calls[1:], threadEq)
		moves = append(moves, &gen.CaseTree{Prefix: newPrefix, Threads: replaceThread(ct.Threads, i, newThread)})
	}
	return pruneEmptyInEach(moves)
}

// prefixDoubleMoves composes two prefix-level native shrinks: a child
// of a child of the prefix tree, so the shrinker can jump past a
// single-step local optimum in one move.
func prefixDoubleMoves(ct *gen.CaseTree) []*gen.CaseTree {
	var moves []*gen.CaseTree
	for _, child := range ct.Prefix.Children() {
		for _, grandchild := range child.Children() {
			moves = append(moves, &gen.CaseTree{Prefix: grandchild, Threads: pruneEmpty(ct.Threads)})
		}
	}
	return moves
}

// threadDoubleMoves is threadMoves' two-level analogue, applied to a
// single thread at a time.
func threadDoubleMoves(ct *gen.CaseTree) []*gen.CaseTree {
	var moves []*gen.CaseTree
	for i, th := range ct.Threads {
		for _, child := range th.Children() {
			for _, grandchild := range child.Children() {
				moves = append(moves, &gen.CaseTree{Prefix: ct.Prefix, Threads: replaceThread(ct.Threads, i, grandchild)})
			}
		}
	}
	return pruneEmptyInEach(moves)
}

// replaceThread returns a copy of threads with index i swapped for
// replacement.
func replaceThread(threads []*tree.Tree[[]command.Call], i int, replacement *tree.Tree[[]command.Call]) []*tree.Tree[[]command.Call] {
	out := slices.Clone(threads)
	out[i] = replacement
	return out
}

// pruneEmpty drops every thread whose current payload is empty, so the
// enumerator's base case is reached promptly and a shrink can fully
// eliminate a thread.
func pruneEmpty(threads []*tree.Tree[[]command.Call]) []*tree.Tree[[]command.Call] {
	out := make([]*tree.Tree[[]command.Call], 0, len(threads))
	for _, th := range threads {
		if len(th.Payload()) == 0 {
			continue
		}
		out = append(out, th)
	}
	return out
}

// pruneEmptyInEach applies pruneEmpty to every candidate's Threads
// slice, used after moves that may have emptied a thread.
func pruneEmptyInEach(moves []*gen.CaseTree) []*gen.CaseTree {
	for _, m := range moves {
		m.Threads = pruneEmpty(m.Threads)
	}
	return moves
}

func prefixEq(a, b []command.Call) bool {
	return sameCalls(a, b)
}

func threadEq(a, b []command.Call) bool {
	return sameCalls(a, b)
}

func sameCalls(a, b []command.Call) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Handle != b[i].Handle {
			return false
		}
	}
	return true
}
