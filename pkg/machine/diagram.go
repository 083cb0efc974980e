package machine

import (
	"fmt"
	"strings"
)

// Diagram is a side-effect-free projection of a machine's topology,
// consumable by an external renderer.
type Diagram struct {
	Machine string        `json:"machine"`
	Nodes   []DiagramNode `json:"nodes"`
	Edges   []DiagramEdge `json:"edges"`
}

// DiagramNode is one node of the projection.
type DiagramNode struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Entry    bool   `json:"entry,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
	Invokes  string `json:"invokes,omitempty"`
}

// DiagramEdge is one declared transition. Unhappy edges include the
// exception-handler edge.
type DiagramEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Unhappy bool   `json:"unhappy,omitempty"`
}

// Diagram projects the machine's validated topology.
func (m *Machine) Diagram() Diagram {
	return diagramOf(m.name, m.nodes, m.order)
}

// DiagramSpec projects an unvalidated spec, used by catalog surfaces that
// work from the registry.
func DiagramSpec(spec Spec) Diagram {
	nodes := make(map[string]*Node)
	var order []string
	declared := withReportResults(spec.Nodes)
	for i := range declared {
		n := declared[i]
		nodes[n.Name] = &n
		order = append(order, n.Name)
	}
	return diagramOf(spec.Name, nodes, order)
}

func diagramOf(name string, nodes map[string]*Node, order []string) Diagram {
	d := Diagram{Machine: name}
	for _, nodeName := range order {
		n := nodes[nodeName]
		d.Nodes = append(d.Nodes, DiagramNode{
			Name:     n.Name,
			Overview: n.Overview,
			Entry:    n.Entry,
			Terminal: n.Terminal,
			Invokes:  n.InvokesMachine,
		})
		for _, to := range n.HappyPaths {
			d.Edges = append(d.Edges, DiagramEdge{From: n.Name, To: to})
		}
		seen := map[string]bool{}
		for _, to := range n.UnhappyPaths {
			seen[to] = true
			d.Edges = append(d.Edges, DiagramEdge{From: n.Name, To: to, Unhappy: true})
		}
		if n.OnException != "" && !seen[n.OnException] {
			d.Edges = append(d.Edges, DiagramEdge{From: n.Name, To: n.OnException, Unhappy: true})
		}
	}
	return d
}

// Mermaid renders the diagram as a Mermaid flowchart: happy edges green,
// unhappy edges red, entry nodes as circles, invoking nodes as subroutines.
func (d Diagram) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range d.Nodes {
		safeID := sanitizeMermaidID(n.Name)

		opener, closer := "[", "]"
		switch {
		case n.Entry:
			opener, closer = "((", "))"
		case n.Invokes != "":
			opener, closer = "[[", "]]"
		case n.Terminal:
			opener, closer = "([", "])"
		}

		label := n.Name
		if n.Invokes != "" {
			label = fmt.Sprintf("%s <br/> invokes %s", n.Name, n.Invokes)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	var happy, unhappy []int
	for i, e := range d.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)))
		if e.Unhappy {
			unhappy = append(unhappy, i)
		} else {
			happy = append(happy, i)
		}
	}

	if len(happy) > 0 {
		sb.WriteString(fmt.Sprintf("    linkStyle %s stroke:#2e7d32,stroke-width:2px;\n", joinInts(happy)))
	}
	if len(unhappy) > 0 {
		sb.WriteString(fmt.Sprintf("    linkStyle %s stroke:#c62828,stroke-width:2px;\n", joinInts(unhappy)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
