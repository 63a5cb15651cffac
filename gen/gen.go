// Package gen implements SequenceTreeGen and ParallelCaseGen: drawing a
// shrinkable tree of command calls that advances the model state, and
// composing a sequential prefix with N parallel threads into a Case.
//
// Grounded on the teacher's stateManager.TreeStateManager, which also
// threads a state through a sequence of steps while building a tree of
// the space explored -- generalized here from "explore reachable states
// for model checking" to "draw one shrinkable command sequence".
package gen

import (
	"fmt"

	"statemgen/command"
	"statemgen/draw"
	"statemgen/modelstate"
	"statemgen/picker"
	"statemgen/randsrc"
	"statemgen/symbolic"
	"statemgen/tree"
)

// maxPreconditionRetries bounds how many times DrawSeqTree will redraw
// a command+args pair at the same recursion depth after a precondition
// rejection, before giving up with ErrNoCommandApplicable -- a
// misbehaving specification (requires true but precondition always
// false) must not spin forever.
const maxPreconditionRetries = 100

// Case is a generated test case: a sequential prefix and zero or more
// parallel threads, each a list of command calls.
type Case struct {
	Sequential []command.Call
	Parallel   [][]command.Call
}

// CaseTree wraps the independently-shrinkable prefix and thread trees
// DrawCase produces. Its Value is the case obtained by taking each
// tree's current root -- the shape shrink.Shrink walks.
type CaseTree struct {
	Prefix  *tree.Tree[[]command.Call]
	Threads []*tree.Tree[[]command.Call]
}

// Value collapses ct to the Case named by each tree's root.
func (ct *CaseTree) Value() Case {
	c := Case{Sequential: ct.Prefix.Payload(), Parallel: make([][]command.Call, len(ct.Threads))}
	for i, th := range ct.Threads {
		c.Parallel[i] = th.Payload()
	}
	return c
}

// CaseOptions controls the shape of a drawn Case.
type CaseOptions struct {
	Threads           int
	MaxSequential     int
	MaxParallel       int
	MaxSize           int
}

// threadLetter maps a 0-indexed thread number to the letter suffix its
// handles carry: 0->'a', 1->'b', ... 25->'z'. Thread counts above 26
// are rejected by the root package before generation starts.
func threadLetter(t int) string {
	return string(rune('a' + t))
}

// PrefixHandles returns the n handles "1".."n" a sequential prefix of
// length n uses.
func PrefixHandles(n int) []symbolic.RootVar {
	handles := make([]symbolic.RootVar, n)
	for i := 0; i < n; i++ {
		handles[i] = symbolic.RootVar(fmt.Sprintf("%d", i+1))
	}
	return handles
}

// ThreadHandles returns the n handles "1t".."nt" thread t (0-indexed)
// uses.
func ThreadHandles(t, n int) []symbolic.RootVar {
	letter := threadLetter(t)
	handles := make([]symbolic.RootVar, n)
	for i := 0; i < n; i++ {
		handles[i] = symbolic.RootVar(fmt.Sprintf("%d%s", i+1, letter))
	}
	return handles
}

// DrawSeqTree recursively draws a shrinkable list of command calls
// aligned to handles, advancing state as each call is bound.
//
// At each step: pick a command, draw its args, evaluate its
// precondition. On success the call is bound to head(handles) and
// state advances via NextState; on failure the same depth is redrawn,
// bounded by maxPreconditionRetries. Length is controlled by a
// weighted coin: weight 1 to stop, weight len(remaining handles) to
// continue, so the empty sequence always has positive probability
// while expected length grows with the handle budget.
func DrawSeqTree(spec *command.Spec, state modelstate.State, handles []symbolic.RootVar, src *randsrc.Source) (*tree.Tree[[]command.Call], modelstate.State, error) {
	if len(handles) == 0 {
		return tree.New([]command.Call{}, callSliceEq), state, nil
	}
	if src.WeightedBool(1, len(handles)) {
		return tree.New([]command.Call{}, callSliceEq), state, nil
	}

	callTree, nextState, err := drawOneCall(spec, state, handles[0], src)
	if err != nil {
		return nil, state, err
	}
	tailTree, finalState, err := DrawSeqTree(spec, nextState, handles[1:], src)
	if err != nil {
		return nil, state, err
	}
	return draw.ConsTree(callTree, tailTree), finalState, nil
}

// drawOneCall draws one command call bound to handle, retrying on
// precondition failure at the same handle. It returns a Tree whose
// root is the bound call and whose shrink candidates come from the
// argument generator's own shrink tree (the command itself is held
// fixed across shrinks -- see DESIGN.md's note on command-identity
// shrinking).
func drawOneCall(spec *command.Spec, state modelstate.State, handle symbolic.RootVar, src *randsrc.Source) (*tree.Tree[command.Call], modelstate.State, error) {
	for attempt := 0; attempt < maxPreconditionRetries; attempt++ {
		adapter, err := picker.Pick(spec, state, src)
		if err != nil {
			return nil, state, err
		}
		argsTree, err := adapter.Args(state)(src)
		if err != nil {
			return nil, state, fmt.Errorf("gen: drawing args for %q: %w", adapter.Name, err)
		}
		if !adapter.Precondition(state, argsTree.Payload()) {
			continue
		}
		nextState := adapter.NextState(state, argsTree.Payload(), handle)
		callTree := tree.Map(argsTree, callEq, func(args []any) command.Call {
			return command.Call{Handle: handle, Command: adapter, Args: args}
		})
		return callTree, nextState, nil
	}
	return nil, state, fmt.Errorf("%w: precondition never satisfied for handle %s after %d attempts",
		picker.ErrNoCommandApplicable, handle, maxPreconditionRetries)
}

func callEq(a, b command.Call) bool {
	if a.Handle != b.Handle || a.Command != b.Command || len(a.Args) != len(b.Args) {
		return false
	}
	return true
}

func callSliceEq(a, b []command.Call) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !callEq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// DrawCase draws a complete Case: a sequential prefix sized to the
// source's current size parameter, followed by opts.Threads parallel
// threads each drawn from the state reached after the prefix.
//
// S = floor(MaxSequential*size/MaxSize), P = floor(MaxParallel*size/MaxSize).
// Threads are drawn in descending index order (t = Threads-1 down to
// 0) but all from the same post-prefix state -- they never observe
// one another's model effects, matching the parallel semantics threads
// describe at runtime.
func DrawCase(spec *command.Spec, state0 modelstate.State, opts CaseOptions, src *randsrc.Source) (*CaseTree, error) {
	size := src.Size()
	s := scaleLength(opts.MaxSequential, size, opts.MaxSize)
	p := scaleLength(opts.MaxParallel, size, opts.MaxSize)

	prefixTree, state1, err := DrawSeqTree(spec, state0, PrefixHandles(s), src)
	if err != nil {
		return nil, fmt.Errorf("gen: drawing sequential prefix: %w", err)
	}

	threads := make([]*tree.Tree[[]command.Call], opts.Threads)
	for t := opts.Threads - 1; t >= 0; t-- {
		threadTree, _, err := DrawSeqTree(spec, state1, ThreadHandles(t, p), src)
		if err != nil {
			return nil, fmt.Errorf("gen: drawing thread %d: %w", t, err)
		}
		threads[t] = threadTree
	}

	return &CaseTree{Prefix: prefixTree, Threads: threads}, nil
}

func scaleLength(maxLen, size, maxSize int) int {
	if maxSize <= 0 {
		return 0
	}
	n := maxLen * size / maxSize
	if n < 0 {
		return 0
	}
	if n > maxLen {
		return maxLen
	}
	return n
}
