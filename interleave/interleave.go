// Package interleave implements the InterleavingEnumerator and
// Validator: every topological interleaving of a sequential prefix
// with parallel threads, and the left-fold that checks one such
// interleaving against the model.
//
// Grounded on the teacher's tree.SearchLeafNodes/DepthFirstSearch,
// both early-exit boolean recursions over a RoseTree -- generalized
// here to a lazy Go 1.23 iter.Seq producer so a case's interleavings
// (factorially many) are never materialised up front.
package interleave

import (
	"iter"

	"statemgen/command"
	"statemgen/modelstate"
	"statemgen/symbolic"
)

// EveryInterleaving lazily yields every topological interleaving of
// seq (the sequential prefix, which keeps its internal order in every
// interleaving) with the threads in parallel (each of which also keeps
// its own internal order). With no parallel threads it yields the
// single interleaving seq.
func EveryInterleaving(seq []command.Call, parallel [][]command.Call) iter.Seq[[]command.Call] {
	return func(yield func([]command.Call) bool) {
		interleave(seq, parallel, yield)
	}
}

// interleave recurses: with an empty parallel set, prefix is a
// complete interleaving. Otherwise, for each thread with at least one
// remaining call, it extends prefix with that thread's next call and
// recurses with that thread's tail.
func interleave(prefix []command.Call, parallel [][]command.Call, yield func([]command.Call) bool) bool {
	if allEmpty(parallel) {
		return yield(append([]command.Call{}, prefix...))
	}
	for i, thread := range parallel {
		if len(thread) == 0 {
			continue
		}
		extended := append(append([]command.Call{}, prefix...), thread[0])
		rest := make([][]command.Call, len(parallel))
		copy(rest, parallel)
		rest[i] = thread[1:]
		if !interleave(extended, rest, yield) {
			return false
		}
	}
	return true
}

func allEmpty(parallel [][]command.Call) bool {
	for _, thread := range parallel {
		if len(thread) > 0 {
			return false
		}
	}
	return true
}

// ValidCommands left-folds over sequence starting from (state0,
// bindings0), rejecting at the first call whose Requires fails, whose
// symbolic arguments are not resolvable against the current bindings,
// or whose Precondition fails against the concrete arguments. On
// success at each step it advances state via NextState and adds the
// call's handle to bindings.
func ValidCommands(sequence []command.Call, state0 modelstate.State, bindings0 map[string]struct{}) bool {
	state := state0
	bindings := symbolic.Clone(bindings0)
	for _, call := range sequence {
		if !call.Command.Requires(state) {
			return false
		}
		for _, arg := range call.Args {
			if !symbolic.ArgValid(arg, bindings) {
				return false
			}
		}
		if !call.Command.Precondition(state, call.Args) {
			return false
		}
		state = call.Command.NextState(state, call.Args, call.Handle)
		bindings = symbolic.Bind(bindings, call.Handle)
	}
	return true
}

// WellFormed reports whether c is valid under every one of its
// interleavings -- the precise formulation of invariants I2 and I3.
// It short-circuits on the first invalid interleaving found.
func WellFormed(c Case, state0 modelstate.State, bindings0 map[string]struct{}) bool {
	for interleaving := range EveryInterleaving(c.Sequential, c.Parallel) {
		if !ValidCommands(interleaving, state0, bindings0) {
			return false
		}
	}
	return true
}

// Case is the minimal view of a generated case this package needs:
// just enough structure to enumerate and validate interleavings,
// without depending on the gen package. Its field shape matches
// gen.Case exactly, so the root package converts a gen.Case with a
// plain interleave.Case(c) conversion.
type Case struct {
	Sequential []command.Call
	Parallel   [][]command.Call
}
