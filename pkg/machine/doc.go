/*
Package machine is the state-machine engine that drives coldstore workflows.

A workflow is declared as a Spec: a named, documented set of Nodes, each of
which performs one operation and names the nodes it may exit to on the happy
path and on the unhappy path. New compiles the spec, validates the graph, and
returns an immutable Machine. Execute walks the graph from the entry node,
enforcing that every transition taken was declared, and returns the ordered
stream of Success/Failure results, one per node that ran.

Failures never cross a node boundary as errors. A node declared with
OnException has any error returned by its body converted into a Failure
routed along the declared handler edge; a node declared NoExceptions that
returns an error is a programming defect and aborts the run. The caller at
the process boundary turns the count of failures in the stream into the exit
code.

Machines compose: a node may invoke another machine and splice its entire
result stream into the outer run (see Invoke). The outer node then reports a
single outcome of its own, so partial failures of the inner machine do not
divert the outer graph.
*/
package machine
