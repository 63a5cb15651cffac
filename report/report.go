// Package report formats a Case (and the CheckResult it was found
// in) for a human reading a failing test run.
//
// Grounded on the teacher's checking.predicateCheckerResponse.Response,
// which formats a failing run as a tabwriter-aligned arrow-separated
// sequence of states -- generalized here from "sequence of global
// states leading to a broken predicate" to "sequential prefix and
// parallel threads of a generated case".
package report

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"statemgen/command"
	"statemgen/gen"
)

// Case renders c as a tabwriter-aligned description of its sequential
// prefix and each parallel thread, in the same "-> element" arrow
// style the teacher's predicate checker response uses for a failing
// run.
func Case(c gen.Case) string {
	var buf bytes.Buffer
	wrt := tabwriter.NewWriter(&buf, 4, 4, 1, ' ', 0)

	fmt.Fprintf(wrt, "sequential:\n")
	for _, call := range c.Sequential {
		fmt.Fprintf(wrt, "-> %v\n", Call(call))
	}
	for i, thread := range c.Parallel {
		fmt.Fprintf(wrt, "thread %d:\n", i)
		for _, call := range thread {
			fmt.Fprintf(wrt, "-> %v\n", Call(call))
		}
	}
	wrt.Flush()
	return buf.String()
}

// Call renders a single command call as "handle = name(args...)".
func Call(call command.Call) string {
	return fmt.Sprintf("%s = %s(%v)", call.Handle, call.Command.Name, call.Args)
}

// Result formats the outcome of a Check run, matching the teacher's
// "Predicate broken. Predicate: %v. Sequence:" wording adapted to this
// module's own vocabulary of a failing property and its minimized
// case.
func Result(passed int, err error, minimal gen.Case) string {
	if err == nil {
		return fmt.Sprintf("all %d generated cases passed", passed)
	}
	return fmt.Sprintf("property failed after %d passing cases: %v\nminimal case:\n%s", passed, err, Case(minimal))
}
