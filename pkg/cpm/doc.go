// Package cpm implements the Critical Path Method over a task graph.
//
// Given a [dag.Graph] and a topological order from [topo.Sort], [Analyze]
// computes for every task:
//
//   - ES, EF: earliest start and finish. ES is the largest EF among the
//     task's predecessors (0 without predecessors); EF = ES + weight.
//   - LS, LF: latest start and finish that do not delay the project. LF is
//     the smallest LS among successors (the project finish T without
//     successors); LS = LF - weight.
//   - Slack: LS - ES. A task is critical when its slack is zero.
//   - Free float: how far the task can slip without moving the earliest
//     start of any successor.
//
// The project finish T is the largest EF among tasks without successors.
//
// # Critical Path
//
// The critical path starts at a zero-slack task without predecessors and
// repeatedly follows a zero-slack successor whose ES equals the current
// EF, until it reaches a task without successors whose EF equals T. When
// several successors qualify, the smallest identifier wins, mirroring the
// tie-break of the topological sort. [Schedule.CriticalPaths] enumerates
// every such chain.
//
// # Errors
//
// The analyzer trusts nothing about its input ordering: an order that is
// not a valid topological order of the graph, or whose ranks do not match,
// fails with an [errors.InconsistentGraphError]. These errors signal misuse
// of the package, not bad user input, and are never retried.
//
// # Concurrency
//
// Analysis is sequential by default. [WithParallel] computes the tasks of
// one rank level concurrently; tasks of the same rank never depend on each
// other, so the results are identical.
//
// [dag.Graph]: github.com/matzehuels/schedulator/pkg/dag.Graph
// [topo.Sort]: github.com/matzehuels/schedulator/pkg/dag/topo.Sort
// [errors.InconsistentGraphError]: github.com/matzehuels/schedulator/pkg/errors.InconsistentGraphError
package cpm
