package report

import (
	"errors"
	"strings"
	"testing"

	"statemgen/command"
	"statemgen/gen"
	"statemgen/symbolic"
)

func TestCaseRendersSequentialAndThreads(t *testing.T) {
	noop := command.Normalize(command.Adapter{Name: "noop"})
	c := gen.Case{
		Sequential: []command.Call{{Handle: symbolic.RootVar("1"), Command: &noop}},
		Parallel: [][]command.Call{
			{{Handle: symbolic.RootVar("1a"), Command: &noop}},
		},
	}
	out := Case(c)
	if !strings.Contains(out, "sequential:") {
		t.Fatalf("expected output to label the sequential prefix, got %q", out)
	}
	if !strings.Contains(out, "thread 0:") {
		t.Fatalf("expected output to label thread 0, got %q", out)
	}
	if !strings.Contains(out, "noop") {
		t.Fatalf("expected output to mention the command name, got %q", out)
	}
}

func TestResultReportsSuccessWithNoError(t *testing.T) {
	out := Result(100, nil, gen.Case{})
	if !strings.Contains(out, "100") {
		t.Fatalf("expected the passed count in the success message, got %q", out)
	}
}

func TestResultReportsFailureWithMinimalCase(t *testing.T) {
	noop := command.Normalize(command.Adapter{Name: "noop"})
	minimal := gen.Case{Sequential: []command.Call{{Handle: symbolic.RootVar("1"), Command: &noop}}}
	out := Result(5, errors.New("boom"), minimal)
	if !strings.Contains(out, "boom") {
		t.Fatalf("expected the property error in the failure message, got %q", out)
	}
	if !strings.Contains(out, "noop") {
		t.Fatalf("expected the minimal case rendering in the failure message, got %q", out)
	}
}
