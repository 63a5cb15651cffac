// Package command implements the CommandAdapter: a uniform view over a
// user-supplied specification's named commands, and the Spec that
// binds them together with how the model state starts out.
//
// Grounded on the teacher's event.Event interface, which plays the
// same uniformity role for concrete distributed-system events: every
// event type the teacher simulates satisfies the same Id/Execute/Target
// contract, so the scheduler and simulator never special-case a
// particular event kind. Adapter plays that role for user commands.
package command

import (
	"statemgen/draw"
	"statemgen/modelstate"
	"statemgen/symbolic"
)

// Adapter is the uniform view of one named command.
type Adapter struct {
	Name string

	// Requires reports whether this command may be picked at all in
	// the given state. Defaults to always-true.
	Requires func(state modelstate.State) bool

	// Args draws this command's arguments given the current state.
	// Arguments may contain symbolic.Value references to earlier
	// calls' handles. Defaults to a generator of an empty slice.
	Args func(state modelstate.State) draw.Generator[[]any]

	// Precondition is checked after Args has been drawn; unlike
	// Requires it sees the concrete (possibly symbolic) arguments.
	// Defaults to always-true.
	Precondition func(state modelstate.State, args []any) bool

	// NextState advances the model state as if this call had been
	// executed, without observing any real result -- handle is always
	// the symbolic placeholder for this call's as-yet-unknown result.
	// Defaults to the identity function.
	NextState func(state modelstate.State, args []any, handle symbolic.RootVar) modelstate.State
}

// Normalize fills in a's unset fields with their documented defaults,
// so every other package in this module can call every field of an
// Adapter unconditionally.
func Normalize(a Adapter) Adapter {
	if a.Requires == nil {
		a.Requires = func(modelstate.State) bool { return true }
	}
	if a.Args == nil {
		a.Args = func(modelstate.State) draw.Generator[[]any] {
			return draw.Const[[]any](nil, func(a, b []any) bool { return len(a) == 0 && len(b) == 0 })
		}
	}
	if a.Precondition == nil {
		a.Precondition = func(modelstate.State, []any) bool { return true }
	}
	if a.NextState == nil {
		a.NextState = func(state modelstate.State, args []any, handle symbolic.RootVar) modelstate.State { return state }
	}
	return a
}

// Call is a single generated (handle, command, args) triple: a
// CommandCall in spec.md's vocabulary. Args may contain
// symbolic.Value entries referencing earlier calls' handles.
type Call struct {
	Handle  symbolic.RootVar
	Command *Adapter
	Args    []any
}

// Spec is a complete, normalized specification: every command the
// picker may choose from, how the model state begins, and (optionally)
// a user-supplied command-name generator.
type Spec struct {
	// Commands maps a command's name to its Adapter. Every Adapter has
	// already been run through Normalize.
	Commands map[string]Adapter

	// HasSetup is true when the specification declares a setup phase.
	// When true, the reserved symbolic.Setup handle is pre-bound
	// before generation begins and InitialState is called with the
	// setup result it produced.
	HasSetup bool

	// Setup runs once, before any command is generated, when HasSetup
	// is true. Its result becomes the value symbolic.Setup resolves to
	// at runtime and is passed to InitialState.
	Setup func() any

	// InitialState produces the model's starting state from the
	// setup phase's result (nil when HasSetup is false).
	InitialState func(setupResult any) modelstate.State

	// GenerateCommand, if non-nil, draws a command name directly
	// instead of the picker enumerating and uniformly choosing among
	// every Requires-passing command.
	GenerateCommand func(state modelstate.State) draw.Generator[string]
}
