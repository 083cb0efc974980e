package machine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ReportResults is the conventional terminal node every machine ends on. It
// is synthesized automatically when a spec references it without declaring
// it.
const ReportResults = "report_results"

// Spec declares a machine kind: its documentation, its failure prefix, and
// its nodes.
type Spec struct {
	// Name identifies the machine kind, e.g. "BackupDatabase".
	Name string

	// Overview documents what the machine does. Required.
	Overview string

	// FailurePrefix is prepended to every failure message produced by a run,
	// typically client/host/database identifiers.
	FailurePrefix string

	// Nodes are the machine's steps, in declaration order.
	Nodes []Node
}

// Machine is a validated, immutable workflow graph. Construct one with New
// and run it with Execute. A Machine holds the results of its current run;
// it is not safe for concurrent use.
type Machine struct {
	name          string
	overview      string
	failurePrefix string
	nodes         map[string]*Node
	order         []string
	entry         *Node
	logger        *slog.Logger

	results []Result
	current *Node
}

// New compiles and validates a spec. The returned machine's topology is
// immutable; only the accumulated result stream changes during a run.
func New(spec Spec, logger *slog.Logger) (*Machine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Machine{
		name:          spec.Name,
		overview:      spec.Overview,
		failurePrefix: spec.FailurePrefix,
		nodes:         make(map[string]*Node, len(spec.Nodes)+1),
		logger:        logger,
	}

	nodes := withReportResults(spec.Nodes)

	for i := range nodes {
		n := nodes[i]
		m.nodes[n.Name] = &n
		m.order = append(m.order, n.Name)
	}

	if err := validate(m.name, m.overview, m.nodes, m.order, map[string]bool{m.name: true}); err != nil {
		return nil, err
	}

	for _, name := range m.order {
		if m.nodes[name].Entry {
			m.entry = m.nodes[name]
		}
	}

	return m, nil
}

// Name returns the machine kind's name.
func (m *Machine) Name() string { return m.name }

// Overview returns the machine-level documentation.
func (m *Machine) Overview() string { return m.overview }

// FailurePrefix returns the prefix stamped onto failure messages.
func (m *Machine) FailurePrefix() string { return m.failurePrefix }

// Logger returns the logger the machine was constructed with.
func (m *Machine) Logger() *slog.Logger { return m.logger }

// qualified returns the fully-qualified identity of a node.
func (m *Machine) qualified(n *Node) string {
	return m.name + "." + n.Name
}

// Execute runs the machine from its entry node and returns the ordered
// result stream, one entry per node that executed. Runtime defects (an
// undeclared transition, a result sent down the wrong edge color, a node
// that makes no progress) abort the run with a trailing Failure entry.
func (m *Machine) Execute() []Result {
	runID := uuid.NewString()
	log := m.logger.With("machine", m.name, "run_id", runID)

	start := time.Now()
	log.Info("machine started")

	m.results = nil
	current := m.entry

	for {
		m.current = current
		nodeStart := time.Now()
		log.Debug("node started", "node", current.Name)

		t, err := m.runBody(current)

		log.Debug("node completed", "node", current.Name, "elapsed", time.Since(nodeStart))
		observeNode(m.name, current.Name, nodeStart)

		if err != nil {
			if !current.mayThrow() {
				// A NoExceptions node erred: the declaration is wrong, not the run.
				m.abort(log, fmt.Errorf("node %s declared NoExceptions but returned: %w", current.Name, err),
					fmt.Sprintf("programming error: %s declared no exceptions but returned: %v", current.Name, err))
				break
			}
			log.Error("node raised", "node", current.Name, "prefix", m.failurePrefix, "err", err)
			t = Failure(current.OnException, fmt.Sprintf("unrecognized exception: %v", err))
		}

		if t.exit {
			if !current.Terminal {
				m.abort(log, &NotTerminalNodeError{Machine: m.name, Node: current.Name},
					fmt.Sprintf("%s returned Exit but is not a terminal node", current.Name))
				break
			}
			m.append(current, t)
			break
		}

		if t.to == "" || t.to == current.Name {
			m.abort(log, &NoTransitionError{Machine: m.name, Node: current.Name},
				fmt.Sprintf("%s produced no transition", current.Name))
			break
		}

		next, ok := m.nodes[t.to]
		if !ok || !contains(current.exits(), t.to) {
			m.abort(log, &IllegalTransitionError{Machine: m.name, Node: current.Name, Target: t.to, Reason: "target is not a declared exit"},
				fmt.Sprintf("illegal transition from %s to undeclared exit %s", current.Name, t.to))
			break
		}
		if t.kind == KindFailure && !contains(current.UnhappyPaths, t.to) {
			m.abort(log, &IllegalTransitionError{Machine: m.name, Node: current.Name, Target: t.to, Reason: "failure sent down a happy path"},
				fmt.Sprintf("illegal transition: %s sent a failure down the happy path to %s", current.Name, t.to))
			break
		}
		if t.kind == KindSuccess && !contains(current.HappyPaths, t.to) {
			m.abort(log, &IllegalTransitionError{Machine: m.name, Node: current.Name, Target: t.to, Reason: "success sent down an unhappy path"},
				fmt.Sprintf("illegal transition: %s sent a success down the unhappy path to %s", current.Name, t.to))
			break
		}

		m.append(current, t)
		current = next
	}

	log.Info("machine completed", "elapsed", time.Since(start), "failures", len(Failures(m.results)))
	return m.results
}

// Invoke runs a sub-machine to completion and splices its entire result
// stream into this run's stream, in order. It returns the number of
// failures in the sub-stream; the invoking node decides its own outcome,
// typically Success, because the sub-machine has already walked its own
// unhappy paths.
func (m *Machine) Invoke(sub *Machine) int {
	results := sub.Execute()
	m.results = append(m.results, results...)
	return len(Failures(results))
}

// FailureMessage renders a message the way a Failure from this machine
// would carry it, prefix included. Useful to callers composing diagnostics.
func (m *Machine) FailureMessage(message string) string {
	if m.failurePrefix == "" {
		return message
	}
	return m.failurePrefix + " " + message
}

func (m *Machine) runBody(n *Node) (Transition, error) {
	if n.Body == nil {
		return Exit(), nil
	}
	return n.Body()
}

// append stamps the node identity and failure prefix onto the transition's
// result and records it.
func (m *Machine) append(n *Node, t Transition) {
	r := Result{Node: m.qualified(n), Kind: t.kind}
	if t.kind == KindFailure {
		r.Message = m.FailureMessage(t.message)
		m.logger.Error("node failed", "node", n.Name, "prefix", m.failurePrefix, "message", t.message)
	}
	observeResult(m.name, n.Name, r.Kind)
	m.results = append(m.results, r)
}

// abort records a defect as the final Failure of the stream.
func (m *Machine) abort(log *slog.Logger, defect error, message string) {
	log.Error("machine aborted", "err", defect)
	r := Result{
		Node:    m.qualified(m.current),
		Kind:    KindFailure,
		Message: m.FailureMessage(message),
	}
	observeResult(m.name, m.current.Name, r.Kind)
	m.results = append(m.results, r)
}

func hasNode(nodes []Node, name string) bool {
	for i := range nodes {
		if nodes[i].Name == name {
			return true
		}
	}
	return false
}

// withReportResults appends the conventional report_results terminal when
// edges reference it and the spec does not declare it itself.
func withReportResults(nodes []Node) []Node {
	if hasNode(nodes, ReportResults) {
		return nodes
	}
	referenced := false
	for i := range nodes {
		if contains(nodes[i].exits(), ReportResults) || nodes[i].OnException == ReportResults {
			referenced = true
		}
	}
	if !referenced {
		return nodes
	}
	return append(nodes[:len(nodes):len(nodes)], Node{
		Name:         ReportResults,
		Overview:     "Report the accumulated results back to the caller.",
		Terminal:     true,
		NoExceptions: true,
	})
}
