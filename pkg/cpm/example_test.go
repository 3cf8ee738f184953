package cpm_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/schedulator/pkg/cpm"
	"github.com/matzehuels/schedulator/pkg/dag"
)

func ExampleAnalyzeGraph() {
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

	s, err := cpm.AnalyzeGraph(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, ts := range s.Rows() {
		fmt.Printf("%s rank=%d ES=%d LS=%d slack=%d\n", ts.TaskID, ts.Rank, ts.ES, ts.LS, ts.Slack)
	}
	fmt.Println("Duration:", s.Duration)
	fmt.Println("Critical path:", strings.Join(s.CriticalPath, " -> "))
	// Output:
	// A rank=0 ES=0 LS=0 slack=0
	// B rank=1 ES=3 LS=5 slack=2
	// C rank=1 ES=3 LS=3 slack=0
	// D rank=2 ES=7 LS=7 slack=0
	// Duration: 8
	// Critical path: A -> C -> D
}
