package machine

import "fmt"

// Kind discriminates the two result outcomes.
type Kind string

const (
	// KindSuccess marks a node that completed its operation.
	KindSuccess Kind = "success"
	// KindFailure marks a node whose operation failed.
	KindFailure Kind = "failure"
)

// Result is one entry in a machine's result stream. Node carries the
// fully-qualified identity "<Machine>.<step>" of the node that produced it.
type Result struct {
	Node    string `json:"node"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
}

// Failed reports whether the result is a Failure.
func (r Result) Failed() bool {
	return r.Kind == KindFailure
}

func (r Result) String() string {
	if r.Failed() {
		return fmt.Sprintf("%s %s: %s", r.Kind, r.Node, r.Message)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Node)
}

// Failures filters a result stream down to its Failure entries.
func Failures(results []Result) []Result {
	var failures []Result
	for _, r := range results {
		if r.Failed() {
			failures = append(failures, r)
		}
	}
	return failures
}
