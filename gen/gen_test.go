package gen

import (
	"testing"

	"statemgen/command"
	"statemgen/draw"
	"statemgen/modelstate"
	"statemgen/randsrc"
	"statemgen/symbolic"
)

// counterSpec models a single integer counter with one command,
// "inc", that always applies and increments the state by one.
func counterSpec() *command.Spec {
	inc := command.Normalize(command.Adapter{
		Name: "inc",
		Args: func(modelstate.State) draw.Generator[[]any] {
			return draw.Const[[]any](nil, func(a, b []any) bool { return len(a) == 0 && len(b) == 0 })
		},
		NextState: func(state modelstate.State, args []any, handle symbolic.RootVar) modelstate.State {
			return state.(int) + 1
		},
	})
	return &command.Spec{Commands: map[string]command.Adapter{"inc": inc}}
}

func TestPrefixHandlesNaming(t *testing.T) {
	got := PrefixHandles(3)
	want := []symbolic.RootVar{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("handle %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestThreadHandlesNaming(t *testing.T) {
	got := ThreadHandles(1, 2)
	want := []symbolic.RootVar{"1b", "2b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("handle %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestDrawSeqTreeBindsHandlesInOrder(t *testing.T) {
	spec := counterSpec()
	handles := PrefixHandles(3)
	src := randsrc.NewSource(1, 200)
	tr, finalState, err := DrawSeqTree(spec, 0, handles, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := tr.Payload()
	for i, call := range calls {
		if call.Handle != handles[i] {
			t.Fatalf("call %d: expected handle %v, got %v", i, handles[i], call.Handle)
		}
	}
	if finalState.(int) != len(calls) {
		t.Fatalf("expected final state to equal call count %d, got %v", len(calls), finalState)
	}
}

func TestDrawCaseRespectsSizeScaling(t *testing.T) {
	spec := counterSpec()
	opts := CaseOptions{Threads: 0, MaxSequential: 10, MaxParallel: 10, MaxSize: 100}
	small, err := DrawCase(spec, 0, opts, randsrc.NewSource(1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(small.Prefix.Payload()) > 1 {
		t.Fatalf("expected a short prefix at size 10/100, got length %d", len(small.Prefix.Payload()))
	}
}

func TestDrawCaseThreadHandlesCarryThreadLetter(t *testing.T) {
	spec := counterSpec()
	opts := CaseOptions{Threads: 2, MaxSequential: 2, MaxParallel: 2, MaxSize: 100}
	ct, err := DrawCase(spec, 0, opts, randsrc.NewSource(3, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ct.Threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(ct.Threads))
	}
	for i, th := range ct.Threads {
		for _, call := range th.Payload() {
			expectedLetter := threadLetter(i)
			if len(string(call.Handle)) == 0 || call.Handle[len(call.Handle)-1] != expectedLetter[0] {
				t.Fatalf("thread %d call handle %v does not carry letter %s", i, call.Handle, expectedLetter)
			}
		}
	}
}

func TestCaseTreeValueCollapsesToRoots(t *testing.T) {
	spec := counterSpec()
	opts := CaseOptions{Threads: 1, MaxSequential: 2, MaxParallel: 1, MaxSize: 100}
	ct, err := DrawCase(spec, 0, opts, randsrc.NewSource(4, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := ct.Value()
	if len(c.Sequential) != len(ct.Prefix.Payload()) {
		t.Fatalf("Value().Sequential should equal the prefix tree's root payload")
	}
	if len(c.Parallel) != 1 {
		t.Fatalf("expected a single thread in Value().Parallel")
	}
}
