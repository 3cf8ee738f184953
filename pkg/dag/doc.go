// Package dag provides the validated task dependency graph that the
// scheduling core operates on.
//
// # Overview
//
// A schedule starts as a list of task records: an identifier, a non-negative
// weight (duration), and the identifiers of the tasks that must finish
// before it may start. [Build] turns such records into a [Graph] holding the
// tasks and two consistent adjacency views, successors (forward edges) and
// predecessors (reverse edges).
//
// # Basic Usage
//
//	g, err := dag.Build([]dag.Record{
//	    {ID: "A", Weight: 3},
//	    {ID: "B", Weight: 2, Predecessors: []string{"A"}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Successors("A")) // [B]
//
// # Validation
//
// Build rejects duplicate identifiers, negative weights, and predecessors
// that name no declared task. Forward references are allowed: a record may
// depend on a task declared further down the input. Cycles are not detected
// here; the topo subpackage reports them while ordering the graph.
//
// # Immutability
//
// A Graph never changes after Build returns. Computed timing (earliest and
// latest start, slack) lives in the cpm package, so analyzing the same graph
// twice gives identical results and concurrent readers need no locking.
//
// # Related Packages
//
// The [topo] subpackage orders the graph and computes ranks. The [cpm]
// package runs the critical path analysis over an ordered graph.
//
// [topo]: github.com/matzehuels/schedulator/pkg/dag/topo
// [cpm]: github.com/matzehuels/schedulator/pkg/cpm
package dag
