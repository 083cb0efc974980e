package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coldstore/internal/logging"
	"github.com/aretw0/coldstore/pkg/machine"
)

// minimal returns a valid two-node spec tests mutate into invalid shapes.
func minimal() machine.Spec {
	return machine.Spec{
		Name:          "Minimal",
		Overview:      "A minimal valid machine.",
		FailurePrefix: "Minimal",
		Nodes: []machine.Node{
			{
				Name:         "start",
				Overview:     "Start.",
				Entry:        true,
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
				Body:         func() (machine.Transition, error) { return machine.Success("report_results"), nil },
			},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid Spec", func(t *testing.T) {
		_, err := machine.New(minimal(), logging.NewNop())
		assert.NoError(t, err)
	})

	t.Run("No Entry", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].Entry = false

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NoEntryNodeError
		assert.ErrorAs(t, err, &defErr)
	})

	t.Run("Multiple Entries", func(t *testing.T) {
		spec := minimal()
		spec.Nodes = append(spec.Nodes, machine.Node{
			Name:         "second_start",
			Overview:     "Another entry.",
			Entry:        true,
			HappyPaths:   []string{"report_results"},
			NoExceptions: true,
		})

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.MultipleEntryNodeError
		require.ErrorAs(t, err, &defErr)
		assert.ElementsMatch(t, []string{"start", "second_start"}, defErr.Nodes)
	})

	t.Run("No Terminal", func(t *testing.T) {
		spec := machine.Spec{
			Name:          "NoEnd",
			Overview:      "Declares its own non-terminal graph.",
			FailurePrefix: "NoEnd",
			Nodes: []machine.Node{
				{
					Name:         "a",
					Overview:     "Loops to b.",
					Entry:        true,
					HappyPaths:   []string{"b"},
					NoExceptions: true,
				},
				{
					Name:         "b",
					Overview:     "Loops to a.",
					HappyPaths:   []string{"a"},
					NoExceptions: true,
				},
			},
		}

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NoTerminalNodeError
		assert.ErrorAs(t, err, &defErr)
	})

	t.Run("Edge To Unknown Node", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].HappyPaths = append(spec.Nodes[0].HappyPaths, "phantom")

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.UndefinedNodeError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "phantom", defErr.Target)
	})

	t.Run("Orphan Node", func(t *testing.T) {
		spec := minimal()
		spec.Nodes = append(spec.Nodes, machine.Node{
			Name:         "island",
			Overview:     "Nothing reaches this.",
			HappyPaths:   []string{"report_results"},
			NoExceptions: true,
		})

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.UnreachableNodeError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "island", defErr.Node)
	})

	t.Run("Missing Machine Overview", func(t *testing.T) {
		spec := minimal()
		spec.Overview = ""

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NoOverviewError
		require.ErrorAs(t, err, &defErr)
		assert.Empty(t, defErr.Node)
	})

	t.Run("Missing Node Overview", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].Overview = ""

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NoOverviewError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "start", defErr.Node)
	})

	t.Run("Terminal With Exits", func(t *testing.T) {
		spec := minimal()
		spec.Nodes = append(spec.Nodes, machine.Node{
			Name:         "report_results",
			Overview:     "Terminal that still declares an exit.",
			Terminal:     true,
			HappyPaths:   []string{"start"},
			NoExceptions: true,
		})

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NotTerminalNodeError
		assert.ErrorAs(t, err, &defErr)
	})

	t.Run("No Exception Policy", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].NoExceptions = false

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.NoExceptionPolicyError
		assert.ErrorAs(t, err, &defErr)
	})

	t.Run("Handler Not An Unhappy Path", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].NoExceptions = false
		spec.Nodes[0].OnException = "report_results"

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.ExceptionEdgeError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "report_results", defErr.Handler)
	})

	t.Run("Both Policies", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].OnException = "report_results"
		spec.Nodes[0].UnhappyPaths = []string{"report_results"}

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.ExceptionEdgeError
		require.ErrorAs(t, err, &defErr)
		assert.Empty(t, defErr.Handler)
	})

	t.Run("Unknown Invoked Machine", func(t *testing.T) {
		spec := minimal()
		spec.Nodes[0].InvokesMachine = "NeverRegistered"

		_, err := machine.New(spec, logging.NewNop())
		var defErr *machine.UnknownMachineError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "NeverRegistered", defErr.Invokes)
	})

	t.Run("Registered Invoked Machine", func(t *testing.T) {
		machine.Register("ValidatorSub", func() machine.Spec {
			return machine.Spec{
				Name:          "ValidatorSub",
				Overview:      "A registered, valid sub-machine.",
				FailurePrefix: "ValidatorSub",
				Nodes: []machine.Node{
					{
						Name:         "only",
						Overview:     "Single step.",
						Entry:        true,
						HappyPaths:   []string{"report_results"},
						NoExceptions: true,
					},
				},
			}
		})

		spec := minimal()
		spec.Nodes[0].InvokesMachine = "ValidatorSub"

		_, err := machine.New(spec, logging.NewNop())
		assert.NoError(t, err)
	})
}
