package statemgen

import (
	"fmt"

	"github.com/google/uuid"

	"statemgen/draw"
	"statemgen/gen"
	"statemgen/interleave"
	"statemgen/randsrc"
	"statemgen/shrink"
	"statemgen/symbolic"
)

type checkOptions struct {
	seed               int64
	hasSeed            bool
	minSuccessfulTests int
}

// CheckOption configures a Check run.
type CheckOption interface{ apply(*checkOptions) }

type seedOption struct{ seed int64 }

func (o seedOption) apply(opts *checkOptions) {
	opts.seed = o.seed
	opts.hasSeed = true
}

// Seed fixes the top-level seed a Check run spawns its per-case
// sources from, making the run fully reproducible. Without it, Check
// derives a seed from a fresh UUID the same way timewinder derives a
// default run identifier.
func Seed(seed int64) CheckOption {
	return seedOption{seed: seed}
}

type minSuccessfulTestsOption struct{ n int }

func (o minSuccessfulTestsOption) apply(opts *checkOptions) { opts.minSuccessfulTests = o.n }

// MinSuccessfulTests sets how many cases must pass property before
// Check reports success. Default 100.
func MinSuccessfulTests(n int) CheckOption {
	return minSuccessfulTestsOption{n: n}
}

// CheckResult reports the outcome of a Check run: how many cases
// passed, the failing case and error if one was found, and that case
// shrunk to a local minimum.
type CheckResult struct {
	Passed      int
	Case        gen.Case
	Err         error
	MinimalCase gen.Case
}

// Check runs spec's generator against property, escalating the size
// parameter from 0 towards spec's MaxSize over MinSuccessfulTests
// cases. The first case for which property returns a non-nil error --
// including one recovered from a panic in property, which must never
// bring down the driver loop -- is shrunk to a local minimum and
// returned. Panics in a command's own callbacks are not recovered.
//
// Mirrors the teacher's config.go/Simulation.Run split: this is the
// minimal sized/seeded driver seam a host test function calls, the
// same role PrepareSimulation/Simulation.Run plays for the teacher's
// own simulation loop. It panics on picker.ErrNoCommandApplicable, the
// one place in this module that plays config.go's log.Panicf role on a
// comparable misconfiguration -- everywhere else the error is returned
// for the caller to decide.
func Check(spec *Spec, property func(gen.Case) error, opts ...CheckOption) CheckResult {
	cfg := checkOptions{minSuccessfulTests: 100}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if !cfg.hasSeed {
		cfg.seed = defaultSeed()
	}

	top := randsrc.NewSource(cfg.seed, spec.maxSize)
	caseOpts := gen.CaseOptions{
		Threads:       spec.threads,
		MaxSequential: spec.maxSeq,
		MaxParallel:   spec.maxPar,
		MaxSize:       spec.maxSize,
	}

	for n := 0; n < cfg.minSuccessfulTests; n++ {
		size := spec.maxSize * n / max(cfg.minSuccessfulTests, 1)
		src := top.Spawn(size)

		ct, state0, err := drawWellFormedCase(spec, caseOpts, src)
		if err != nil {
			panic(fmt.Errorf("statemgen: %w", err))
		}

		c := ct.Value()
		propErr := runProperty(property, c)
		if propErr == nil {
			continue
		}

		minimal := shrinkToMinimal(spec, ct, state0, propErr, property)
		return CheckResult{Passed: n, Case: c, Err: propErr, MinimalCase: minimal}
	}

	return CheckResult{Passed: cfg.minSuccessfulTests}
}

// maxCaseRetries bounds how many times Check will redraw a case after
// it fails the well-formedness filter before giving up -- mirroring
// the host PBT framework's own MaxDiscardRatio-style exhaustion
// (named here per SPEC_FULL.md, not imported from any specific
// framework).
const maxCaseRetries = 100

func drawWellFormedCase(spec *Spec, caseOpts gen.CaseOptions, src *randsrc.Source) (*gen.CaseTree, any, error) {
	if caseOpts.Threads > 26 {
		return nil, nil, fmt.Errorf("statemgen: %d threads requested; thread handles are lettered a..z, so at most 26 are supported", caseOpts.Threads)
	}
	state0, bindings0 := initialStateAndBindings(spec)
	for attempt := 0; attempt < maxCaseRetries; attempt++ {
		ct, err := gen.DrawCase(spec.commands, state0, caseOpts, src)
		if err != nil {
			return nil, nil, err
		}
		if interleave.WellFormed(interleave.Case(ct.Value()), state0, bindings0) {
			return ct, state0, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no well-formed case found after %d attempts", draw.ErrSuchThatExhausted, maxCaseRetries)
}

func initialStateAndBindings(spec *Spec) (any, map[string]struct{}) {
	var setupResult any
	if spec.commands.HasSetup && spec.commands.Setup != nil {
		setupResult = spec.commands.Setup()
	}
	state0 := spec.commands.InitialState(setupResult)
	bindings0 := symbolic.NewBindings(spec.commands.HasSetup)
	return state0, bindings0
}

// runProperty recovers a panicking property into an error, so a bug in
// the property itself is reported through CheckResult.Err rather than
// crashing the driver loop -- the one recovery boundary this module
// adds, per the error-handling design's "fail loudly, never guess"
// rule applied to everything except the user's own callback.
func runProperty(property func(gen.Case) error, c gen.Case) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statemgen: property panicked: %v", r)
		}
	}()
	return property(c)
}

// shrinkToMinimal descends shrink.Shrink's tree, at each level taking
// the first well-formed child that still fails property, stopping
// when no child does better than the current node.
func shrinkToMinimal(spec *Spec, ct *gen.CaseTree, state0 any, firstErr error, property func(gen.Case) error) gen.Case {
	bindings0 := symbolic.NewBindings(spec.commands.HasSetup)
	current := ct.Value()
	tr := shrink.Shrink(ct)

	for {
		advanced := false
		for _, child := range tr.Children() {
			candidate := child.Payload()
			if !interleave.WellFormed(interleave.Case(candidate), state0, bindings0) {
				continue
			}
			if runProperty(property, candidate) == nil {
				continue
			}
			current = candidate
			tr = child
			advanced = true
			break
		}
		if !advanced {
			return current
		}
	}
}

func defaultSeed() int64 {
	id := uuid.New()
	var seed int64
	for _, b := range id[:8] {
		seed = seed<<8 | int64(b)
	}
	return seed
}
