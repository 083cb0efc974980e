package machine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coldstore/internal/logging"
	"github.com/aretw0/coldstore/pkg/machine"
)

func TestDiagram(t *testing.T) {
	m, err := machine.New(machine.Spec{
		Name:          "Diagrammed",
		Overview:      "Graph used to exercise the projection.",
		FailurePrefix: "Diagrammed",
		Nodes: []machine.Node{
			{
				Name:         "acquire",
				Overview:     "Acquires a resource.",
				Entry:        true,
				HappyPaths:   []string{"work"},
				UnhappyPaths: []string{"release"},
				OnException:  "release",
			},
			{
				Name:         "work",
				Overview:     "Does the work.",
				HappyPaths:   []string{"release"},
				UnhappyPaths: []string{"release"},
				OnException:  "release",
			},
			{
				Name:         "release",
				Overview:     "Releases the resource.",
				HappyPaths:   []string{"report_results"},
				NoExceptions: true,
			},
		},
	}, logging.NewNop())
	require.NoError(t, err)

	d := m.Diagram()

	assert.Equal(t, "Diagrammed", d.Machine)
	require.Len(t, d.Nodes, 4)
	assert.True(t, d.Nodes[0].Entry)
	assert.True(t, d.Nodes[3].Terminal)

	var happy, unhappy int
	for _, e := range d.Edges {
		if e.Unhappy {
			unhappy++
		} else {
			happy++
		}
	}
	assert.Equal(t, 3, happy)
	assert.Equal(t, 2, unhappy)
}

func TestDiagram_Mermaid(t *testing.T) {
	d := machine.Diagram{
		Machine: "Tiny",
		Nodes: []machine.DiagramNode{
			{Name: "start", Entry: true},
			{Name: "finish", Terminal: true},
			{Name: "delegate", Invokes: "Sub"},
		},
		Edges: []machine.DiagramEdge{
			{From: "start", To: "delegate"},
			{From: "delegate", To: "finish"},
			{From: "start", To: "finish", Unhappy: true},
		},
	}

	out := d.Mermaid()

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `start(("start"))`)
	assert.Contains(t, out, "start --> delegate")
	assert.Contains(t, out, "start --> finish")
	assert.Contains(t, out, "invokes Sub")
	// Happy edges styled green, unhappy red.
	assert.Contains(t, out, "linkStyle 0,1 stroke:#2e7d32")
	assert.Contains(t, out, "linkStyle 2 stroke:#c62828")
}
