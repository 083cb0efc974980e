package machine

import "sort"

// validate enforces the load-time invariants of a machine definition:
//
//   - exactly one entry node and at least one terminal node
//   - every declared edge resolves to a declared node
//   - terminal nodes declare no exits
//   - every node declares exactly one exception policy, and every handler
//     is one of the node's unhappy paths
//   - every node is reachable from the entry node
//   - machine and node overviews are present
//   - every invoked machine kind is registered and itself valid
//
// visiting guards against invokes-machine cycles.
func validate(name, overview string, nodes map[string]*Node, order []string, visiting map[string]bool) error {
	if overview == "" {
		return &NoOverviewError{Machine: name}
	}

	var entries []string
	terminal := false
	for _, nodeName := range order {
		n := nodes[nodeName]
		if n.Entry {
			entries = append(entries, n.Name)
		}
		if n.Terminal {
			terminal = true
		}
	}
	if len(entries) == 0 {
		return &NoEntryNodeError{Machine: name}
	}
	if len(entries) > 1 {
		return &MultipleEntryNodeError{Machine: name, Nodes: entries}
	}
	if !terminal {
		return &NoTerminalNodeError{Machine: name}
	}

	for _, nodeName := range order {
		n := nodes[nodeName]

		if n.Overview == "" {
			return &NoOverviewError{Machine: name, Node: n.Name}
		}

		for _, target := range n.exits() {
			if _, ok := nodes[target]; !ok {
				return &UndefinedNodeError{Machine: name, Node: n.Name, Target: target}
			}
		}

		if n.Terminal && len(n.exits()) > 0 {
			return &NotTerminalNodeError{Machine: name, Node: n.Name}
		}

		if !n.mayThrow() && !n.NoExceptions {
			return &NoExceptionPolicyError{Machine: name, Node: n.Name}
		}
		if n.mayThrow() {
			if n.NoExceptions {
				return &ExceptionEdgeError{Machine: name, Node: n.Name}
			}
			if !contains(n.UnhappyPaths, n.OnException) {
				return &ExceptionEdgeError{Machine: name, Node: n.Name, Handler: n.OnException}
			}
		}

		if n.InvokesMachine != "" && !visiting[n.InvokesMachine] {
			fn, ok := Lookup(n.InvokesMachine)
			if !ok {
				return &UnknownMachineError{Machine: name, Node: n.Name, Invokes: n.InvokesMachine}
			}
			sub := fn()
			visiting[n.InvokesMachine] = true
			if err := validateSpec(sub, visiting); err != nil {
				return err
			}
		}
	}

	if unreachable := firstUnreachable(nodes, order); unreachable != "" {
		return &UnreachableNodeError{Machine: name, Node: unreachable}
	}

	return nil
}

// validateSpec validates a registered spec without constructing a Machine.
func validateSpec(spec Spec, visiting map[string]bool) error {
	nodes := make(map[string]*Node, len(spec.Nodes)+1)
	var order []string

	declared := withReportResults(spec.Nodes)
	for i := range declared {
		n := declared[i]
		nodes[n.Name] = &n
		order = append(order, n.Name)
	}

	return validate(spec.Name, spec.Overview, nodes, order, visiting)
}

// firstUnreachable walks the graph breadth-first from the entry node over
// happy, unhappy, and exception edges and returns the first node (in sorted
// order, for determinism) that was never visited.
func firstUnreachable(nodes map[string]*Node, order []string) string {
	var entry string
	for _, name := range order {
		if nodes[name].Entry {
			entry = name
		}
	}

	visited := map[string]bool{entry: true}
	queue := []string{entry}
	for len(queue) > 0 {
		n := nodes[queue[0]]
		queue = queue[1:]

		targets := n.exits()
		if n.OnException != "" {
			targets = append(targets, n.OnException)
		}
		for _, target := range targets {
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}

	var missing []string
	for _, name := range order {
		if !visited[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		return missing[0]
	}
	return ""
}
