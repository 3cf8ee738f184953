package dag_test

import (
	"fmt"

	"github.com/matzehuels/schedulator/pkg/dag"
)

func ExampleBuild() {
	g, err := dag.Build([]dag.Record{
		{ID: "A", Weight: 3},
		{ID: "B", Weight: 2, Predecessors: []string{"A"}},
		{ID: "C", Weight: 4, Predecessors: []string{"A"}},
		{ID: "D", Weight: 1, Predecessors: []string{"B", "C"}},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("Tasks:", g.Len())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Successors of A:", g.Successors("A"))
	fmt.Println("Predecessors of D:", g.Predecessors("D"))
	fmt.Println("Sources:", g.Sources())
	fmt.Println("Sinks:", g.Sinks())
	// Output:
	// Tasks: 4
	// Edges: 4
	// Successors of A: [B C]
	// Predecessors of D: [B C]
	// Sources: [A]
	// Sinks: [D]
}

func ExampleBuild_forwardReference() {
	// B is referenced before it is declared.
	g, err := dag.Build([]dag.Record{
		{ID: "A", Weight: 1, Predecessors: []string{"B"}},
		{ID: "B", Weight: 2},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(g.Predecessors("A"))
	// Output: [B]
}

func ExampleBuild_unknownPredecessor() {
	_, err := dag.Build([]dag.Record{
		{ID: "X", Weight: 1, Predecessors: []string{"Y"}},
	})
	fmt.Println(err)
	// Output: task "X" depends on unknown task "Y"
}
