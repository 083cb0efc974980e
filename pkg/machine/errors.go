package machine

import "fmt"

// Definition errors are raised by New when a spec is not self-consistent.
// A machine that constructs without error cannot hit them at runtime, with
// one exception: NotTerminalNodeError also reports a non-terminal node that
// returns Exit during a run.

// NoEntryNodeError reports a machine with no entry node.
type NoEntryNodeError struct {
	Machine string
}

func (e *NoEntryNodeError) Error() string {
	return fmt.Sprintf("machine %s: no entry node", e.Machine)
}

// MultipleEntryNodeError reports a machine with more than one entry node.
type MultipleEntryNodeError struct {
	Machine string
	Nodes   []string
}

func (e *MultipleEntryNodeError) Error() string {
	return fmt.Sprintf("machine %s: more than one entry node: %v", e.Machine, e.Nodes)
}

// NoTerminalNodeError reports a machine with no terminal node.
type NoTerminalNodeError struct {
	Machine string
}

func (e *NoTerminalNodeError) Error() string {
	return fmt.Sprintf("machine %s: no terminal node", e.Machine)
}

// UndefinedNodeError reports an edge that names a node the machine does not
// declare.
type UndefinedNodeError struct {
	Machine string
	Node    string
	Target  string
}

func (e *UndefinedNodeError) Error() string {
	return fmt.Sprintf("machine %s: node %s references undefined node %s", e.Machine, e.Node, e.Target)
}

// UnreachableNodeError reports a node no path from the entry node reaches.
type UnreachableNodeError struct {
	Machine string
	Node    string
}

func (e *UnreachableNodeError) Error() string {
	return fmt.Sprintf("machine %s: unreachable node %s", e.Machine, e.Node)
}

// NoOverviewError reports a machine or node with no overview documentation.
// Node is empty when the machine-level overview is missing.
type NoOverviewError struct {
	Machine string
	Node    string
}

func (e *NoOverviewError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("machine %s: no overview", e.Machine)
	}
	return fmt.Sprintf("machine %s: node %s has no overview", e.Machine, e.Node)
}

// NotTerminalNodeError reports a terminal node that declares exit paths, or
// a non-terminal node that returned Exit at runtime.
type NotTerminalNodeError struct {
	Machine string
	Node    string
}

func (e *NotTerminalNodeError) Error() string {
	return fmt.Sprintf("machine %s: node %s is not a valid terminal node", e.Machine, e.Node)
}

// NoExceptionPolicyError reports a node that declares neither an OnException
// handler nor NoExceptions.
type NoExceptionPolicyError struct {
	Machine string
	Node    string
}

func (e *NoExceptionPolicyError) Error() string {
	return fmt.Sprintf("machine %s: node %s declares no exception policy", e.Machine, e.Node)
}

// ExceptionEdgeError reports an exception handler that is not one of the
// node's unhappy paths, or a NoExceptions node that names a handler.
type ExceptionEdgeError struct {
	Machine string
	Node    string
	Handler string
}

func (e *ExceptionEdgeError) Error() string {
	if e.Handler == "" {
		return fmt.Sprintf("machine %s: node %s declares NoExceptions and an exception handler", e.Machine, e.Node)
	}
	return fmt.Sprintf("machine %s: node %s exception handler %s is not an unhappy path", e.Machine, e.Node, e.Handler)
}

// UnknownMachineError reports an invokes-machine reference to a kind that is
// not registered.
type UnknownMachineError struct {
	Machine string
	Node    string
	Invokes string
}

func (e *UnknownMachineError) Error() string {
	return fmt.Sprintf("machine %s: node %s invokes unknown machine %s", e.Machine, e.Node, e.Invokes)
}

// Runtime defects. Both abort the machine and are appended to the result
// stream as a Failure; they indicate a bug in a node body, not a recoverable
// condition.

// IllegalTransitionError reports a transition the graph does not declare: an
// unknown target, a Success down an unhappy path, or a Failure down a happy
// path.
type IllegalTransitionError struct {
	Machine string
	Node    string
	Target  string
	Reason  string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("machine %s: illegal transition %s -> %s: %s", e.Machine, e.Node, e.Target, e.Reason)
}

// NoTransitionError reports a node that made no progress: it returned the
// zero Transition or transitioned to itself.
type NoTransitionError struct {
	Machine string
	Node    string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("machine %s: node %s produced no transition", e.Machine, e.Node)
}
