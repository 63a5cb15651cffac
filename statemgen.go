// Package statemgen is the public surface of the generator and
// shrinker: build a Spec from a map of named commands, then hand it to
// Check alongside a property to run the sized/seeded driver loop.
//
// Grounded on the teacher's root config.go (PrepareSimulation,
// SchedulerOption, SimulatorOption, RunOptions): an unexported options
// struct with defaults set before the option loop, each option applying
// itself through its apply method, and small option-holder structs
// returned by verb-named constructors rather than bare field setters.
package statemgen

import (
	"statemgen/command"
	"statemgen/draw"
	"statemgen/modelstate"
)

// Adapter and Call are re-exported so callers need not import the
// command package directly to write a specification.
type (
	Adapter = command.Adapter
	Call    = command.Call
)

type specOptions struct {
	hasSetup        bool
	setup           func() any
	generateCommand func(modelstate.State) draw.Generator[string]
	threads         int
	maxSequential   int
	maxParallel     int
	maxSize         int
}

// Option configures a Spec built by New.
type Option interface{ apply(*specOptions) }

type setupOption struct{ setup func() any }

func (o setupOption) apply(opts *specOptions) {
	opts.hasSetup = true
	opts.setup = o.setup
}

// WithSetup declares a setup phase: setup runs once before any command
// is generated, its result is bound to the reserved symbolic.Setup
// handle, and InitialState receives that result.
func WithSetup(setup func() any) Option {
	return setupOption{setup: setup}
}

type generateCommandOption struct {
	f func(modelstate.State) draw.Generator[string]
}

func (o generateCommandOption) apply(opts *specOptions) { opts.generateCommand = o.f }

// WithGenerateCommand overrides the picker's default "enumerate and
// pick uniformly" mode with a direct command-name generator.
func WithGenerateCommand(f func(modelstate.State) draw.Generator[string]) Option {
	return generateCommandOption{f: f}
}

type threadsOption struct{ n int }

func (o threadsOption) apply(opts *specOptions) { opts.threads = o.n }

// Threads sets the number of parallel suffix threads a Case draws.
// Default 0.
func Threads(n int) Option {
	return threadsOption{n: n}
}

type maxLengthOption struct{ seqAndPar int }

func (o maxLengthOption) apply(opts *specOptions) {
	opts.maxSequential = o.seqAndPar
	opts.maxParallel = o.seqAndPar
}

// MaxLength sets the same maximum length bound for the sequential
// prefix and for every parallel thread. Default 10.
func MaxLength(seqAndPar int) Option {
	return maxLengthOption{seqAndPar: seqAndPar}
}

type maxLengthsOption struct{ sequential, parallel int }

func (o maxLengthsOption) apply(opts *specOptions) {
	opts.maxSequential = o.sequential
	opts.maxParallel = o.parallel
}

// MaxLengths sets distinct maximum lengths for the sequential prefix
// and for each parallel thread.
func MaxLengths(sequential, parallel int) Option {
	return maxLengthsOption{sequential: sequential, parallel: parallel}
}

type maxSizeOption struct{ n int }

func (o maxSizeOption) apply(opts *specOptions) { opts.maxSize = o.n }

// MaxSize sets the size at which full lengths are reached. Default
// 200.
func MaxSize(n int) Option {
	return maxSizeOption{n: n}
}

// Spec is a complete, ready-to-check specification: the named commands
// together with how generation starts and is shaped.
type Spec struct {
	commands     *command.Spec
	threads      int
	maxSeq       int
	maxPar       int
	maxSize      int
}

// New builds a Spec from commands (normalized via command.Normalize)
// and initialState, applying opts over the documented defaults
// (threads=0, max-length=10/10, max-size=200).
//
// initialState is called with nil when no WithSetup option is given,
// and with the setup phase's result otherwise.
func New(commands map[string]command.Adapter, initialState func(setupResult any) modelstate.State, opts ...Option) *Spec {
	cfg := specOptions{
		threads:       0,
		maxSequential: 10,
		maxParallel:   10,
		maxSize:       200,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	normalized := make(map[string]command.Adapter, len(commands))
	for name, a := range commands {
		a.Name = name
		normalized[name] = command.Normalize(a)
	}

	return &Spec{
		commands: &command.Spec{
			Commands:        normalized,
			HasSetup:        cfg.hasSetup,
			Setup:           cfg.setup,
			InitialState:    initialState,
			GenerateCommand: cfg.generateCommand,
		},
		threads: cfg.threads,
		maxSeq:  cfg.maxSequential,
		maxPar:  cfg.maxParallel,
		maxSize: cfg.maxSize,
	}
}
