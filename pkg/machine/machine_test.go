package machine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coldstore/internal/logging"
	"github.com/aretw0/coldstore/pkg/machine"
)

func kinds(results []machine.Result) []machine.Kind {
	out := make([]machine.Kind, len(results))
	for i, r := range results {
		out[i] = r.Kind
	}
	return out
}

func nodeOrder(results []machine.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Node
	}
	return out
}

func TestExecute_HappyAndUnhappyPath(t *testing.T) {
	m, err := machine.New(machine.Spec{
		Name:          "Machine",
		Overview:      "Exercises a failure routed down a declared unhappy path.",
		FailurePrefix: "Machine",
		Nodes: []machine.Node{
			{
				Name:         "entry",
				Overview:     "Start.",
				Entry:        true,
				HappyPaths:   []string{"happy"},
				UnhappyPaths: []string{"unhappy"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("happy"), nil },
			},
			{
				Name:         "happy",
				Overview:     "Fails on purpose.",
				HappyPaths:   []string{"happier"},
				UnhappyPaths: []string{"unhappy"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Failure("unhappy", "uh oh"), nil },
			},
			{
				Name:         "happier",
				Overview:     "Unvisited terminal.",
				Terminal:     true,
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Exit(), nil },
			},
			{
				Name:         "unhappy",
				Overview:     "Cleanup.",
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	results := m.Execute()

	require.Len(t, results, 4)
	assert.Equal(t, []string{
		"Machine.entry",
		"Machine.happy",
		"Machine.unhappy",
		"Machine.report_results",
	}, nodeOrder(results))
	assert.Equal(t, []machine.Kind{
		machine.KindSuccess,
		machine.KindFailure,
		machine.KindSuccess,
		machine.KindSuccess,
	}, kinds(results))
	assert.Equal(t, "Machine uh oh", results[1].Message)
}

func TestExecute_ExceptionPolicies(t *testing.T) {
	t.Run("MayThrow Routes To Handler", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Thrower",
			Overview:      "Converts body errors into failures.",
			FailurePrefix: "acme sales",
			Nodes: []machine.Node{
				{
					Name:         "work",
					Overview:     "Raises.",
					Entry:        true,
					HappyPaths:   []string{"report_results"},
					UnhappyPaths: []string{"cleanup"},
					OnException:  "cleanup",
					Body: func() (machine.Transition, error) {
						return machine.Transition{}, errors.New("unit test failure")
					},
				},
				{
					Name:         "cleanup",
					Overview:     "Cleanup.",
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()

		require.Len(t, results, 3)
		assert.True(t, results[0].Failed())
		assert.Equal(t, "acme sales unrecognized exception: unit test failure", results[0].Message)
		assert.Equal(t, "Thrower.cleanup", results[1].Node)
		assert.False(t, results[1].Failed())
		assert.Equal(t, "Thrower.report_results", results[2].Node)
	})

	t.Run("NoExceptions Error Aborts", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Asserter",
			Overview:      "A NoExceptions node that errs is a defect.",
			FailurePrefix: "Asserter",
			Nodes: []machine.Node{
				{
					Name:         "work",
					Overview:     "Raises despite the assertion.",
					Entry:        true,
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body: func() (machine.Transition, error) {
						return machine.Transition{}, errors.New("boom")
					},
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()

		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
		assert.Contains(t, results[0].Message, "programming error")
	})
}

func TestExecute_IllegalTransitionAborts(t *testing.T) {
	m, err := machine.New(machine.Spec{
		Name:          "Defective",
		Overview:      "A node that exits to an undeclared target.",
		FailurePrefix: "Defective",
		Nodes: []machine.Node{
			{
				Name:         "first",
				Overview:     "Jumps the rails.",
				Entry:        true,
				HappyPaths:   []string{"second"},
				NoExceptions: true,
				// Declared exit is "second" but the body targets "third".
				Body: func() (machine.Transition, error) { return machine.Success("third"), nil },
			},
			{
				Name:         "second",
				Overview:     "Continues.",
				HappyPaths:   []string{"third"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("third"), nil },
			},
			{
				Name:         "third",
				Overview:     "Continues.",
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	results := m.Execute()

	require.Len(t, results, 1)
	last := results[len(results)-1]
	assert.True(t, last.Failed())
	assert.Equal(t, "Defective.first", last.Node)
	assert.Contains(t, last.Message, "illegal transition")
}

func TestExecute_WrongColorAborts(t *testing.T) {
	t.Run("Failure Down Happy Path", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Colors",
			Overview:      "Sends a failure down a happy edge.",
			FailurePrefix: "Colors",
			Nodes: []machine.Node{
				{
					Name:         "first",
					Overview:     "Misroutes.",
					Entry:        true,
					HappyPaths:   []string{"happy_next"},
					UnhappyPaths: []string{"cleanup"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Failure("happy_next", "misrouted"), nil },
				},
				{
					Name:         "happy_next",
					Overview:     "Continues.",
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
				},
				{
					Name:         "cleanup",
					Overview:     "Cleanup.",
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()
		last := results[len(results)-1]
		assert.True(t, last.Failed())
		assert.Contains(t, last.Message, "failure down the happy path")
	})

	t.Run("Success Down Unhappy Path", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Colors2",
			Overview:      "Sends a success down an unhappy edge.",
			FailurePrefix: "Colors2",
			Nodes: []machine.Node{
				{
					Name:         "first",
					Overview:     "Misroutes.",
					Entry:        true,
					HappyPaths:   []string{"happy_next"},
					UnhappyPaths: []string{"cleanup"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("cleanup"), nil },
				},
				{
					Name:         "happy_next",
					Overview:     "Continues.",
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
				},
				{
					Name:         "cleanup",
					Overview:     "Cleanup.",
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()
		last := results[len(results)-1]
		assert.True(t, last.Failed())
		assert.Contains(t, last.Message, "illegal transition")
	})
}

func TestExecute_NoTransitionAborts(t *testing.T) {
	t.Run("Zero Transition", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Stuck",
			Overview:      "A node that emits nothing.",
			FailurePrefix: "Stuck",
			Nodes: []machine.Node{
				{
					Name:         "first",
					Overview:     "Emits the zero transition.",
					Entry:        true,
					HappyPaths:   []string{"report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Transition{}, nil },
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()
		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
		assert.Contains(t, results[0].Message, "no transition")
	})

	t.Run("Self Transition", func(t *testing.T) {
		m, err := machine.New(machine.Spec{
			Name:          "Loop",
			Overview:      "A node that transitions to itself.",
			FailurePrefix: "Loop",
			Nodes: []machine.Node{
				{
					Name:         "first",
					Overview:     "Spins.",
					Entry:        true,
					HappyPaths:   []string{"first", "report_results"},
					NoExceptions: true,
					Body:         func() (machine.Transition, error) { return machine.Success("first"), nil },
				},
			},
		}, logging.NewNop())
		require.NoError(t, err)

		results := m.Execute()
		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
	})
}

func TestExecute_ExitFromNonTerminalAborts(t *testing.T) {
	m, err := machine.New(machine.Spec{
		Name:          "EarlyExit",
		Overview:      "A non-terminal node that returns Exit.",
		FailurePrefix: "EarlyExit",
		Nodes: []machine.Node{
			{
				Name:         "first",
				Overview:     "Exits early.",
				Entry:        true,
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Exit(), nil },
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	results := m.Execute()
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Message, "not a terminal node")
}

func TestInvoke_SplicesSubStream(t *testing.T) {
	sub, err := machine.New(machine.Spec{
		Name:          "Sub",
		Overview:      "Two successes and one failure.",
		FailurePrefix: "Sub",
		Nodes: []machine.Node{
			{
				Name:         "one",
				Overview:     "Succeeds.",
				Entry:        true,
				HappyPaths:   []string{"two"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("two"), nil },
			},
			{
				Name:         "two",
				Overview:     "Fails.",
				HappyPaths:   []string{"report_results"},
				UnhappyPaths: []string{"report_results"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Failure("report_results", "sub broke"), nil },
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	var outer *machine.Machine
	outer, err = machine.New(machine.Spec{
		Name:          "Outer",
		Overview:      "Invokes Sub as a single step.",
		FailurePrefix: "Outer",
		Nodes: []machine.Node{
			{
				Name:         "run_sub",
				Overview:     "Runs the sub-machine and reports one outcome.",
				Entry:        true,
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
				Body: func() (machine.Transition, error) {
					failures := outer.Invoke(sub)
					assert.Equal(t, 1, failures)
					return machine.Success("report_results"), nil
				},
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	results := outer.Execute()

	// Sub results appear contiguously before the invoking node's own result.
	require.Len(t, results, 5)
	assert.Equal(t, []string{
		"Sub.one",
		"Sub.two",
		"Sub.report_results",
		"Outer.run_sub",
		"Outer.report_results",
	}, nodeOrder(results))
	assert.True(t, results[1].Failed())
	assert.False(t, results[3].Failed())
	assert.Len(t, machine.Failures(results), 1)
}
