// Package picker implements the CommandPicker: choosing which command
// gets called next, given the current model state.
//
// Grounded on the teacher's randomRun.GetEvent, which picks uniformly
// from the set of events a node has pending -- adapted here from "pick
// uniformly from the pending set" to "pick uniformly, or via a
// user-supplied generator, from the Requires-passing set".
package picker

import (
	"errors"
	"fmt"
	"sort"

	"statemgen/command"
	"statemgen/modelstate"
	"statemgen/randsrc"
)

// ErrNoCommandApplicable is returned when no command's Requires holds
// in the given state. This is fatal to a generation run: the caller
// decides whether to report it or fail fast (see the root package's
// Check, which panics on it the way the teacher's config.go panics on
// a comparable misconfiguration).
var ErrNoCommandApplicable = errors.New("picker: no command applicable in the current state")

// maxGenerateRetries bounds the such-that retry loop picker.Pick runs
// when spec.GenerateCommand is set and draws a name whose Requires
// does not hold or that does not name a known command.
const maxGenerateRetries = 100

// Pick chooses one of spec's commands given state.
//
// When spec.GenerateCommand is set, a command name is drawn from it
// and retried (bounded by maxGenerateRetries) until it names a
// Requires-passing command. Otherwise every command whose Requires
// holds is enumerated, sorted by name for determinism, and one is
// picked uniformly via src.
//
// Returns ErrNoCommandApplicable when the Requires-passing set is
// empty, or when spec.GenerateCommand exhausts its retry budget.
func Pick(spec *command.Spec, state modelstate.State, src *randsrc.Source) (*command.Adapter, error) {
	if spec.GenerateCommand != nil {
		return pickGenerated(spec, state, src)
	}
	return pickUniform(spec, state, src)
}

func pickUniform(spec *command.Spec, state modelstate.State, src *randsrc.Source) (*command.Adapter, error) {
	names := applicableNames(spec, state)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: state %v", ErrNoCommandApplicable, state)
	}
	chosen := names[src.Intn(len(names))]
	adapter := spec.Commands[chosen]
	return &adapter, nil
}

func pickGenerated(spec *command.Spec, state modelstate.State, src *randsrc.Source) (*command.Adapter, error) {
	nameGen := spec.GenerateCommand(state)
	for attempt := 0; attempt < maxGenerateRetries; attempt++ {
		tr, err := nameGen(src)
		if err != nil {
			return nil, fmt.Errorf("picker: drawing a command name: %w", err)
		}
		name := tr.Payload()
		adapter, ok := spec.Commands[name]
		if !ok {
			continue
		}
		if !adapter.Requires(state) {
			continue
		}
		return &adapter, nil
	}
	return nil, fmt.Errorf("%w: GenerateCommand exhausted %d attempts for state %v", ErrNoCommandApplicable, maxGenerateRetries, state)
}

// applicableNames returns the sorted names of every command whose
// Requires holds in state. Sorting makes the uniform pick reproducible
// from a seed independent of Go's randomized map iteration order.
func applicableNames(spec *command.Spec, state modelstate.State) []string {
	names := make([]string, 0, len(spec.Commands))
	for name, adapter := range spec.Commands {
		if adapter.Requires(state) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
