// Package topo orders a task graph so that every predecessor comes before
// its successors, and computes each task's rank along the way.
//
// # Algorithm
//
// [Sort] uses Kahn's in-degree draining method:
//  1. Count the predecessors of every task (its in-degree)
//  2. Put every task with in-degree zero into the ready set
//  3. Repeatedly remove the smallest ready identifier, append it to the
//     order, and decrement the in-degree of its successors; a successor
//     reaching zero becomes ready
//  4. Stop when the ready set is empty
//
// The rank of a task is the length, in edges, of the longest predecessor
// chain reaching it: 0 for tasks without predecessors, otherwise one more
// than the largest rank among its predecessors. Ranks are final when a task
// is removed from the ready set because all of its predecessors are already
// ordered.
//
// # Determinism
//
// The ready set is a min-heap keyed by identifier, so among several ready
// tasks the lexicographically smallest is always taken first. The same
// graph always yields the same order.
//
// # Cycles
//
// Tasks on a cycle, and every task downstream of one, never reach in-degree
// zero. When the order ends up shorter than the graph, Sort fails with
// [errors.CycleError] listing the unresolved tasks and one concrete cycle
// among them. It never returns a partial order.
//
// [errors.CycleError]: github.com/matzehuels/schedulator/pkg/errors.CycleError
package topo
