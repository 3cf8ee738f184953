// Package testutil provides task graph fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/schedulator/pkg/dag"
)

// DiamondRecords returns the four-task diamond used throughout the tests:
// A(3) feeds B(2) and C(4), both feed D(1). Critical path A, C, D; duration 8.
func DiamondRecords() []dag.Record {
	return []dag.Record{
		{ID: "A", Weight: 3, Line: 1},
		{ID: "B", Weight: 2, Predecessors: []string{"A"}, Line: 2},
		{ID: "C", Weight: 4, Predecessors: []string{"A"}, Line: 3},
		{ID: "D", Weight: 1, Predecessors: []string{"B", "C"}, Line: 4},
	}
}

// MustBuild builds records into a graph, failing the test on error.
func MustBuild(t testing.TB, records []dag.Record) *dag.Graph {
	t.Helper()
	g, err := dag.Build(records)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

// RandomDAGRecords draws an acyclic set of records.
//
// Tasks are given a random hidden topological position; each task may only
// depend on tasks placed before it. Identifiers are shuffled relative to
// that position and records are emitted in a shuffled order, so neither the
// ID ordering nor the declaration order gives the topology away.
func RandomDAGRecords(t *rapid.T, maxTasks int) []dag.Record {
	n := rapid.IntRange(1, maxTasks).Draw(t, "tasks")

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("t%03d", i)
	}
	names = rapid.Permutation(names).Draw(t, "names")

	records := make([]dag.Record, n)
	for i := 0; i < n; i++ {
		var preds []string
		for j := 0; j < i; j++ {
			if rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("edge_%d_%d", j, i)) == 0 {
				preds = append(preds, names[j])
			}
		}
		records[i] = dag.Record{
			ID:           names[i],
			Weight:       rapid.Int64Range(0, 20).Draw(t, fmt.Sprintf("weight_%d", i)),
			Predecessors: preds,
		}
	}
	return rapid.Permutation(records).Draw(t, "declaration")
}
