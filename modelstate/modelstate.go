// Package modelstate names the one truly free type this module
// threads throughout generation: the user's model state.
//
// Keeping it as a named type alias (rather than spelling `any` at
// every call site across command, picker, gen, shrink and interleave)
// documents intent the way the teacher's state.State alias documents
// that a checker's state is opaque to everything except the checker
// itself.
package modelstate

// State is the model state a specification's commands read and
// advance. It is opaque to this module: only the user's own
// Requires/Args/Precondition/NextState functions interpret it.
type State = any
