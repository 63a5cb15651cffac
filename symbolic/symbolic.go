// Package symbolic implements the opaque placeholders a generated
// command call uses to stand in for a not-yet-computed result.
//
// Generation never executes a command, so an argument that depends on
// an earlier call's result carries a Value instead of the real thing.
// Resolving a Value to a real value is the runner's job, not this
// package's; symbolic only answers whether a Value could be resolved
// given a set of handles that are known to be bound.
package symbolic

import "golang.org/x/exp/maps"

// Value is implemented by anything that can appear in a CommandCall's
// argument list as a reference to an earlier call's result. The only
// variant this module requires is RootVar; composite forms (field
// lookups, expressions over several roots) are a pass-through as long
// as they report every root they transitively depend on.
type Value interface {
	// Roots returns every RootVar name this value depends on.
	Roots() []string
}

// RootVar is an opaque handle naming the result of an earlier
// CommandCall, e.g. "1", "2a", or the reserved Setup handle.
type RootVar string

// Setup is the reserved handle bound to the result of a specification's
// setup phase, when one is declared. It is the only process-wide
// constant the core depends on.
const Setup RootVar = "setup"

func (v RootVar) Roots() []string {
	return []string{string(v)}
}

// Valid reports whether v's root is a member of bindings.
func (v RootVar) Valid(bindings map[string]struct{}) bool {
	_, ok := bindings[string(v)]
	return ok
}

// ArgValid reports whether arg is resolvable against bindings.
//
// Plain (non-symbolic) arguments are always valid. A symbolic.Value is
// valid iff every root it references is a member of bindings -- this is
// the precise check invariant I2 describes.
func ArgValid(arg any, bindings map[string]struct{}) bool {
	v, ok := arg.(Value)
	if !ok {
		return true
	}
	for _, root := range v.Roots() {
		if _, bound := bindings[root]; !bound {
			return false
		}
	}
	return true
}

// NewBindings returns a fresh binding set, pre-populated with Setup's
// name when hasSetup is true.
func NewBindings(hasSetup bool) map[string]struct{} {
	bindings := map[string]struct{}{}
	if hasSetup {
		bindings[string(Setup)] = struct{}{}
	}
	return bindings
}

// Clone returns an independent copy of bindings, so that walking one
// interleaving never mutates the binding set another interleaving
// started from.
func Clone(bindings map[string]struct{}) map[string]struct{} {
	return maps.Clone(bindings)
}

// Bind returns a copy of bindings with handle added.
func Bind(bindings map[string]struct{}, handle RootVar) map[string]struct{} {
	out := Clone(bindings)
	out[string(handle)] = struct{}{}
	return out
}
