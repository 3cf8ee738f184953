package cpm

import (
	stderrors "errors"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/schedulator/internal/testutil"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/dag/topo"
	"github.com/matzehuels/schedulator/pkg/errors"
)

func analyze(t *testing.T, records []dag.Record, opts ...Option) *Schedule {
	t.Helper()
	g := testutil.MustBuild(t, records)
	s, err := AnalyzeGraph(g, opts...)
	if err != nil {
		t.Fatalf("AnalyzeGraph() error: %v", err)
	}
	return s
}

func TestAnalyze_Diamond(t *testing.T) {
	s := analyze(t, testutil.DiamondRecords())

	if s.Duration != 8 {
		t.Errorf("Duration = %d, want 8", s.Duration)
	}

	//                 task  rank es ef ls lf slack critical
	assertSchedule(t, s.Tasks["A"], 0, 0, 3, 0, 3, 0, true)
	assertSchedule(t, s.Tasks["B"], 1, 3, 5, 5, 7, 2, false)
	assertSchedule(t, s.Tasks["C"], 1, 3, 7, 3, 7, 0, true)
	assertSchedule(t, s.Tasks["D"], 2, 7, 8, 7, 8, 0, true)

	if want := []string{"A", "C", "D"}; !slices.Equal(s.CriticalPath, want) {
		t.Errorf("CriticalPath = %v, want %v", s.CriticalPath, want)
	}
	if w := s.PathWeight(s.CriticalPath); w != 8 {
		t.Errorf("PathWeight(CriticalPath) = %d, want 8", w)
	}
}

func TestAnalyze_SingleTask(t *testing.T) {
	s := analyze(t, []dag.Record{{ID: "solo", Weight: 5}})

	assertSchedule(t, s.Tasks["solo"], 0, 0, 5, 0, 5, 0, true)
	if s.Duration != 5 {
		t.Errorf("Duration = %d, want 5", s.Duration)
	}
	if !slices.Equal(s.CriticalPath, []string{"solo"}) {
		t.Errorf("CriticalPath = %v, want [solo]", s.CriticalPath)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	s := analyze(t, nil)
	if s.Duration != 0 || s.CriticalPath != nil || len(s.Tasks) != 0 {
		t.Errorf("empty schedule = %+v", s)
	}
	if s.CriticalPaths(0) != nil {
		t.Error("CriticalPaths() of empty schedule should be nil")
	}
}

func TestAnalyze_LinearChain(t *testing.T) {
	s := analyze(t, []dag.Record{
		{ID: "a", Weight: 1},
		{ID: "b", Weight: 1, Predecessors: []string{"a"}},
		{ID: "c", Weight: 1, Predecessors: []string{"b"}},
	})

	if s.Duration != 3 {
		t.Errorf("Duration = %d, want 3", s.Duration)
	}
	assertSchedule(t, s.Tasks["a"], 0, 0, 1, 0, 1, 0, true)
	assertSchedule(t, s.Tasks["b"], 1, 1, 2, 1, 2, 0, true)
	assertSchedule(t, s.Tasks["c"], 2, 2, 3, 2, 3, 0, true)
}

func TestAnalyze_WithEstimates(t *testing.T) {
	// A(5) -> B(1) -> D(1)
	// A(5) -> C(10) -> D(1)
	s := analyze(t, []dag.Record{
		{ID: "a", Weight: 5},
		{ID: "b", Weight: 1, Predecessors: []string{"a"}},
		{ID: "c", Weight: 10, Predecessors: []string{"a"}},
		{ID: "d", Weight: 1, Predecessors: []string{"b", "c"}},
	})

	if s.Duration != 16 {
		t.Errorf("Duration = %d, want 16", s.Duration)
	}
	if s.Tasks["b"].Critical {
		t.Error("expected task b to NOT be critical")
	}
	if s.Tasks["b"].Slack != 9 {
		t.Errorf("b slack = %d, want 9", s.Tasks["b"].Slack)
	}
	if got := s.CriticalTasks(); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("CriticalTasks() = %v, want [a c d]", got)
	}
}

func TestAnalyze_ParallelIndependent(t *testing.T) {
	s := analyze(t, []dag.Record{
		{ID: "c", Weight: 2},
		{ID: "a", Weight: 4},
		{ID: "b", Weight: 4},
	})

	if s.Duration != 4 {
		t.Errorf("Duration = %d, want 4", s.Duration)
	}
	if s.Tasks["c"].Slack != 2 {
		t.Errorf("c slack = %d, want 2", s.Tasks["c"].Slack)
	}
	// a and b are both critical; the smaller ID wins.
	if !slices.Equal(s.CriticalPath, []string{"a"}) {
		t.Errorf("CriticalPath = %v, want [a]", s.CriticalPath)
	}
	if got := s.CriticalPaths(0); len(got) != 2 {
		t.Errorf("CriticalPaths(0) = %v, want 2 paths", got)
	}
}

func TestAnalyze_TieBreakAmongCriticalSuccessors(t *testing.T) {
	//     A
	//   / | \
	//  B  C  D   (B and C weigh the same, D is shorter)
	//   \ | /
	//     E
	s := analyze(t, []dag.Record{
		{ID: "A", Weight: 1},
		{ID: "C", Weight: 3, Predecessors: []string{"A"}},
		{ID: "B", Weight: 3, Predecessors: []string{"A"}},
		{ID: "D", Weight: 1, Predecessors: []string{"A"}},
		{ID: "E", Weight: 1, Predecessors: []string{"B", "C", "D"}},
	})

	if want := []string{"A", "B", "E"}; !slices.Equal(s.CriticalPath, want) {
		t.Errorf("CriticalPath = %v, want %v", s.CriticalPath, want)
	}

	paths := s.CriticalPaths(0)
	want := [][]string{{"A", "B", "E"}, {"A", "C", "E"}}
	if len(paths) != len(want) {
		t.Fatalf("CriticalPaths(0) = %v, want %v", paths, want)
	}
	for i := range want {
		if !slices.Equal(paths[i], want[i]) {
			t.Errorf("CriticalPaths(0)[%d] = %v, want %v", i, paths[i], want[i])
		}
	}

	if limited := s.CriticalPaths(1); len(limited) != 1 {
		t.Errorf("CriticalPaths(1) returned %d paths, want 1", len(limited))
	}
}

func TestAnalyze_FreeFloat(t *testing.T) {
	// A(2) -> C(1); B(5) -> C(1); X(1) stands alone.
	s := analyze(t, []dag.Record{
		{ID: "A", Weight: 2},
		{ID: "B", Weight: 5},
		{ID: "C", Weight: 1, Predecessors: []string{"A", "B"}},
		{ID: "X", Weight: 1},
	})

	tests := []struct {
		id        string
		slack     int64
		freeFloat int64
	}{
		{"A", 3, 3},
		{"B", 0, 0},
		{"C", 0, 0},
		{"X", 5, 5},
	}
	for _, tt := range tests {
		ts := s.Tasks[tt.id]
		if ts.Slack != tt.slack || ts.FreeFloat != tt.freeFloat {
			t.Errorf("%s slack/free float = %d/%d, want %d/%d", tt.id, ts.Slack, ts.FreeFloat, tt.slack, tt.freeFloat)
		}
	}
}

func TestAnalyze_FreeFloatBelowSlack(t *testing.T) {
	// A(1) -> B(1) -> D(1); C(5) -> D. A has slack 3 but no free float
	// because delaying it delays B.
	s := analyze(t, []dag.Record{
		{ID: "A", Weight: 1},
		{ID: "B", Weight: 1, Predecessors: []string{"A"}},
		{ID: "C", Weight: 5},
		{ID: "D", Weight: 1, Predecessors: []string{"B", "C"}},
	})

	if s.Tasks["A"].Slack != 3 || s.Tasks["A"].FreeFloat != 0 {
		t.Errorf("A slack/free float = %d/%d, want 3/0", s.Tasks["A"].Slack, s.Tasks["A"].FreeFloat)
	}
	if s.Tasks["B"].FreeFloat != 3 {
		t.Errorf("B free float = %d, want 3", s.Tasks["B"].FreeFloat)
	}
}

func TestAnalyze_ZeroWeights(t *testing.T) {
	s := analyze(t, []dag.Record{
		{ID: "start", Weight: 0},
		{ID: "work", Weight: 4, Predecessors: []string{"start"}},
		{ID: "end", Weight: 0, Predecessors: []string{"work"}},
	})

	if s.Duration != 4 {
		t.Errorf("Duration = %d, want 4", s.Duration)
	}
	if want := []string{"start", "work", "end"}; !slices.Equal(s.CriticalPath, want) {
		t.Errorf("CriticalPath = %v, want %v", s.CriticalPath, want)
	}
}

func TestAnalyze_Cycle(t *testing.T) {
	g := testutil.MustBuild(t, []dag.Record{
		{ID: "A", Weight: 1, Predecessors: []string{"B"}},
		{ID: "B", Weight: 1, Predecessors: []string{"A"}},
	})

	s, err := AnalyzeGraph(g)
	if s != nil {
		t.Error("AnalyzeGraph() returned a schedule for a cyclic graph")
	}
	var ce *errors.CycleError
	if !stderrors.As(err, &ce) {
		t.Fatalf("AnalyzeGraph() error = %v, want CycleError", err)
	}
}

func TestAnalyze_InconsistentOrder(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())
	ranks := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}

	tests := []struct {
		name  string
		order *topo.Order
	}{
		{"nil order", nil},
		{"missing task", &topo.Order{IDs: []string{"A", "B", "C"}, Rank: ranks}},
		{"unknown task", &topo.Order{IDs: []string{"A", "B", "C", "Z"}, Rank: ranks}},
		{"duplicate task", &topo.Order{IDs: []string{"A", "B", "B", "D"}, Rank: ranks}},
		{"edge backwards", &topo.Order{IDs: []string{"A", "D", "B", "C"}, Rank: ranks}},
		{"missing rank", &topo.Order{IDs: []string{"A", "B", "C", "D"}, Rank: map[string]int{"B": 1, "C": 1, "D": 2}}},
		{"wrong rank", &topo.Order{IDs: []string{"A", "B", "C", "D"}, Rank: map[string]int{"A": 0, "B": 1, "C": 1, "D": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(g, tt.order)
			var ie *errors.InconsistentGraphError
			if !stderrors.As(err, &ie) {
				t.Errorf("Analyze() error = %v, want InconsistentGraphError", err)
			}
		})
	}
}

func TestAnalyze_DoesNotMutateGraph(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())
	before := g.Edges()

	if _, err := AnalyzeGraph(g); err != nil {
		t.Fatalf("AnalyzeGraph() error: %v", err)
	}
	if !slices.Equal(g.Edges(), before) {
		t.Error("AnalyzeGraph() modified the graph edges")
	}
}

func TestAnalyze_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g, err := dag.Build(testutil.RandomDAGRecords(rt, 25))
		if err != nil {
			rt.Fatalf("Build() error: %v", err)
		}
		s, err := AnalyzeGraph(g)
		if err != nil {
			rt.Fatalf("AnalyzeGraph() error: %v", err)
		}

		for _, ts := range s.Tasks {
			if ts.EF != ts.ES+ts.Weight {
				rt.Fatalf("%s: EF %d != ES %d + weight %d", ts.TaskID, ts.EF, ts.ES, ts.Weight)
			}
			if ts.LS != ts.LF-ts.Weight {
				rt.Fatalf("%s: LS %d != LF %d - weight %d", ts.TaskID, ts.LS, ts.LF, ts.Weight)
			}
			if ts.Slack < 0 || ts.Slack != ts.LF-ts.EF {
				rt.Fatalf("%s: slack %d invalid (LF-EF = %d)", ts.TaskID, ts.Slack, ts.LF-ts.EF)
			}
			if ts.FreeFloat < 0 || ts.FreeFloat > ts.Slack {
				rt.Fatalf("%s: free float %d outside [0, slack %d]", ts.TaskID, ts.FreeFloat, ts.Slack)
			}
			if ts.Critical != (ts.Slack == 0) {
				rt.Fatalf("%s: critical flag %v with slack %d", ts.TaskID, ts.Critical, ts.Slack)
			}
		}

		for _, id := range s.CriticalPath {
			if s.Tasks[id].Slack != 0 {
				rt.Fatalf("critical path task %s has slack %d", id, s.Tasks[id].Slack)
			}
		}
		if w := s.PathWeight(s.CriticalPath); w != s.Duration {
			rt.Fatalf("critical path weight %d != duration %d", w, s.Duration)
		}
		for _, p := range s.CriticalPaths(20) {
			if w := s.PathWeight(p); w != s.Duration {
				rt.Fatalf("critical path %v weight %d != duration %d", p, w, s.Duration)
			}
		}
		if first := s.CriticalPaths(1); len(first) != 1 || !slices.Equal(first[0], s.CriticalPath) {
			rt.Fatalf("CriticalPaths(1) = %v, want [%v]", first, s.CriticalPath)
		}
	})
}

func TestAnalyze_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g, err := dag.Build(testutil.RandomDAGRecords(rt, 25))
		if err != nil {
			rt.Fatalf("Build() error: %v", err)
		}
		first, err := AnalyzeGraph(g)
		if err != nil {
			rt.Fatalf("AnalyzeGraph() error: %v", err)
		}
		second, err := AnalyzeGraph(g)
		if err != nil {
			rt.Fatalf("AnalyzeGraph() error: %v", err)
		}
		assertSameSchedule(rt, first, second)
	})
}

func TestAnalyze_ParallelMatchesSequential(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g, err := dag.Build(testutil.RandomDAGRecords(rt, 40))
		if err != nil {
			rt.Fatalf("Build() error: %v", err)
		}
		seq, err := AnalyzeGraph(g)
		if err != nil {
			rt.Fatalf("AnalyzeGraph() error: %v", err)
		}
		workers := rapid.IntRange(2, 8).Draw(rt, "workers")
		par, err := AnalyzeGraph(g, WithParallel(workers))
		if err != nil {
			rt.Fatalf("AnalyzeGraph(WithParallel) error: %v", err)
		}
		assertSameSchedule(rt, seq, par)
	})
}

func assertSameSchedule(t interface{ Fatalf(string, ...any) }, a, b *Schedule) {
	if a.Duration != b.Duration {
		t.Fatalf("Duration %d != %d", a.Duration, b.Duration)
	}
	if !slices.Equal(a.CriticalPath, b.CriticalPath) {
		t.Fatalf("CriticalPath %v != %v", a.CriticalPath, b.CriticalPath)
	}
	for id, ta := range a.Tasks {
		if tb := b.Tasks[id]; *ta != *tb {
			t.Fatalf("task %s: %+v != %+v", id, *ta, *tb)
		}
	}
}

func assertSchedule(t *testing.T, ts *TaskSchedule, rank int, es, ef, ls, lf, slack int64, critical bool) {
	t.Helper()
	if ts.Rank != rank {
		t.Errorf("task %s: expected rank=%d, got %d", ts.TaskID, rank, ts.Rank)
	}
	if ts.ES != es {
		t.Errorf("task %s: expected ES=%d, got %d", ts.TaskID, es, ts.ES)
	}
	if ts.EF != ef {
		t.Errorf("task %s: expected EF=%d, got %d", ts.TaskID, ef, ts.EF)
	}
	if ts.LS != ls {
		t.Errorf("task %s: expected LS=%d, got %d", ts.TaskID, ls, ts.LS)
	}
	if ts.LF != lf {
		t.Errorf("task %s: expected LF=%d, got %d", ts.TaskID, lf, ts.LF)
	}
	if ts.Slack != slack {
		t.Errorf("task %s: expected slack=%d, got %d", ts.TaskID, slack, ts.Slack)
	}
	if ts.Critical != critical {
		t.Errorf("task %s: expected critical=%v, got %v", ts.TaskID, critical, ts.Critical)
	}
}
