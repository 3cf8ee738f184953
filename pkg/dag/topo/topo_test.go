package topo

import (
	stderrors "errors"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/schedulator/internal/testutil"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

func TestSort_Diamond(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())

	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}

	if want := []string{"A", "B", "C", "D"}; !slices.Equal(order.IDs, want) {
		t.Errorf("Sort() order = %v, want %v", order.IDs, want)
	}

	wantRanks := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	for id, want := range wantRanks {
		if got := order.Rank[id]; got != want {
			t.Errorf("Rank[%s] = %d, want %d", id, got, want)
		}
	}
	if order.MaxRank() != 2 {
		t.Errorf("MaxRank() = %d, want 2", order.MaxRank())
	}
}

func TestSort_TieBreakByID(t *testing.T) {
	// Declared in reverse; all independent.
	g := testutil.MustBuild(t, []dag.Record{
		{ID: "c", Weight: 1},
		{ID: "b", Weight: 1},
		{ID: "a", Weight: 1},
	})

	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(order.IDs, want) {
		t.Errorf("Sort() order = %v, want %v", order.IDs, want)
	}
}

func TestSort_ReadySetIsOrderedAcrossLevels(t *testing.T) {
	// z becomes ready before y's chain, but a newly ready "b" must still
	// precede an already waiting "z".
	g := testutil.MustBuild(t, []dag.Record{
		{ID: "a", Weight: 1},
		{ID: "z", Weight: 1},
		{ID: "b", Weight: 1, Predecessors: []string{"a"}},
	})

	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	if want := []string{"a", "b", "z"}; !slices.Equal(order.IDs, want) {
		t.Errorf("Sort() order = %v, want %v", order.IDs, want)
	}
}

func TestSort_RankIsLongestChain(t *testing.T) {
	// a -> b -> c -> d, plus shortcut a -> d. d's rank follows the long chain.
	g := testutil.MustBuild(t, []dag.Record{
		{ID: "a", Weight: 1},
		{ID: "b", Weight: 1, Predecessors: []string{"a"}},
		{ID: "c", Weight: 1, Predecessors: []string{"b"}},
		{ID: "d", Weight: 1, Predecessors: []string{"a", "c"}},
	})

	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	if order.Rank["d"] != 3 {
		t.Errorf("Rank[d] = %d, want 3", order.Rank["d"])
	}
}

func TestSort_RankRecordedForEveryTask(t *testing.T) {
	g := testutil.MustBuild(t, []dag.Record{
		{ID: "solo", Weight: 5},
		{ID: "a", Weight: 1},
		{ID: "b", Weight: 1, Predecessors: []string{"a"}},
	})
	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	for _, id := range g.IDs() {
		if _, ok := order.Rank[id]; !ok {
			t.Errorf("Rank has no entry for %q", id)
		}
	}
	if len(order.Rank) != g.Len() {
		t.Errorf("len(Rank) = %d, want %d", len(order.Rank), g.Len())
	}
}

func TestSort_Empty(t *testing.T) {
	g := testutil.MustBuild(t, nil)
	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	if order.Len() != 0 || order.Levels() != nil || order.MaxRank() != 0 {
		t.Errorf("empty order = %+v", order)
	}
}

func TestSort_Cycles(t *testing.T) {
	tests := []struct {
		name           string
		records        []dag.Record
		wantUnresolved []string
		wantCycle      []string
	}{
		{
			name: "two-task cycle",
			records: []dag.Record{
				{ID: "A", Weight: 1, Predecessors: []string{"B"}},
				{ID: "B", Weight: 1, Predecessors: []string{"A"}},
			},
			wantUnresolved: []string{"A", "B"},
			wantCycle:      []string{"A", "B", "A"},
		},
		{
			name: "triangle",
			records: []dag.Record{
				{ID: "A", Weight: 1, Predecessors: []string{"C"}},
				{ID: "B", Weight: 1, Predecessors: []string{"A"}},
				{ID: "C", Weight: 1, Predecessors: []string{"B"}},
			},
			wantUnresolved: []string{"A", "B", "C"},
			wantCycle:      []string{"A", "B", "C", "A"},
		},
		{
			name: "self loop",
			records: []dag.Record{
				{ID: "A", Weight: 1, Predecessors: []string{"A"}},
			},
			wantUnresolved: []string{"A"},
			wantCycle:      []string{"A", "A"},
		},
		{
			name: "downstream of cycle is unresolved too",
			records: []dag.Record{
				{ID: "start", Weight: 1},
				{ID: "x", Weight: 1, Predecessors: []string{"start", "y"}},
				{ID: "y", Weight: 1, Predecessors: []string{"x"}},
				{ID: "after", Weight: 1, Predecessors: []string{"y"}},
			},
			wantUnresolved: []string{"after", "x", "y"},
			wantCycle:      []string{"x", "y", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustBuild(t, tt.records)

			order, err := Sort(g)
			if order != nil {
				t.Errorf("Sort() returned partial order %v", order.IDs)
			}

			var ce *errors.CycleError
			if !stderrors.As(err, &ce) {
				t.Fatalf("Sort() error = %v, want CycleError", err)
			}
			if !slices.Equal(ce.Unresolved, tt.wantUnresolved) {
				t.Errorf("Unresolved = %v, want %v", ce.Unresolved, tt.wantUnresolved)
			}
			if !slices.Equal(ce.Cycle, tt.wantCycle) {
				t.Errorf("Cycle = %v, want %v", ce.Cycle, tt.wantCycle)
			}
		})
	}
}

func TestOrder_Levels(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())
	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}

	levels := order.Levels()
	want := [][]string{{"A"}, {"B", "C"}, {"D"}}
	if len(levels) != len(want) {
		t.Fatalf("Levels() = %v, want %v", levels, want)
	}
	for i := range want {
		if !slices.Equal(levels[i], want[i]) {
			t.Errorf("Levels()[%d] = %v, want %v", i, levels[i], want[i])
		}
	}
}

func TestOrder_Position(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())
	order, err := Sort(g)
	if err != nil {
		t.Fatalf("Sort() error: %v", err)
	}
	if order.Position("C") != 2 {
		t.Errorf("Position(C) = %d, want 2", order.Position("C"))
	}
	if order.Position("missing") != -1 {
		t.Errorf("Position(missing) = %d, want -1", order.Position("missing"))
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{Unvisited: "unvisited", Ready: "ready", Ordered: "ordered"}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestSort_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := testutil.RandomDAGRecords(rt, 30)
		g, err := dag.Build(records)
		if err != nil {
			rt.Fatalf("Build() error: %v", err)
		}

		order, err := Sort(g)
		if err != nil {
			rt.Fatalf("Sort() error on acyclic graph: %v", err)
		}

		// Every task exactly once.
		if order.Len() != g.Len() {
			rt.Fatalf("order has %d tasks, graph has %d", order.Len(), g.Len())
		}
		pos := dag.PosMap(order.IDs)
		if len(pos) != g.Len() {
			rt.Fatalf("order contains duplicates: %v", order.IDs)
		}

		// Every edge points forward.
		for _, e := range g.Edges() {
			if pos[e.From] >= pos[e.To] {
				rt.Fatalf("edge %s->%s violates order %v", e.From, e.To, order.IDs)
			}
		}

		// Rank is 0 for sources and 1 + max(pred rank) otherwise.
		if len(order.Rank) != g.Len() {
			rt.Fatalf("Rank has %d entries, graph has %d tasks", len(order.Rank), g.Len())
		}
		for _, id := range g.IDs() {
			preds := g.Predecessors(id)
			want := 0
			for _, p := range preds {
				want = max(want, order.Rank[p]+1)
			}
			if order.Rank[id] != want {
				rt.Fatalf("Rank[%s] = %d, want %d", id, order.Rank[id], want)
			}
		}

		// Sorting again yields the same order.
		again, err := Sort(g)
		if err != nil || !slices.Equal(again.IDs, order.IDs) {
			rt.Fatalf("Sort() not deterministic: %v vs %v (%v)", order.IDs, again.IDs, err)
		}
	})
}
