package cpm

import (
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/dag/topo"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// Option configures an analysis.
type Option func(*options)

type options struct {
	workers int
}

// WithParallel runs the forward and backward passes one rank level at a
// time, computing the tasks of a level concurrently on up to workers
// goroutines. Results are identical to the sequential passes.
// A value below 2 keeps the passes sequential.
func WithParallel(workers int) Option {
	return func(o *options) { o.workers = workers }
}

// AnalyzeGraph orders g with [topo.Sort] and analyzes it.
func AnalyzeGraph(g *dag.Graph, opts ...Option) (*Schedule, error) {
	order, err := topo.Sort(g)
	if err != nil {
		return nil, err
	}
	return Analyze(g, order, opts...)
}

// Analyze computes earliest and latest timing, slack, free float, and the
// critical path of g, using order for both passes.
//
// order must be a topological order of exactly the tasks of g with matching
// ranks, as produced by [topo.Sort]. Anything else fails with
// [errors.InconsistentGraphError]. The graph is not modified; analyzing the
// same graph twice yields identical schedules.
func Analyze(g *dag.Graph, order *topo.Order, opts ...Option) (*Schedule, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkOrder(g, order); err != nil {
		return nil, err
	}

	s := &Schedule{
		Tasks: make(map[string]*TaskSchedule, len(order.IDs)),
		Order: order.IDs,
		graph: g,
	}
	for _, id := range order.IDs {
		s.Tasks[id] = &TaskSchedule{TaskID: id, Weight: g.Weight(id), Rank: order.Rank[id]}
	}

	if o.workers > 1 {
		if err := parallelPasses(s, g, order, o.workers); err != nil {
			return nil, err
		}
	} else {
		for _, id := range order.IDs {
			forward(s, g, id)
		}
		s.Duration = projectFinish(s, g)
		for i := len(order.IDs) - 1; i >= 0; i-- {
			backward(s, g, order.IDs[i])
		}
	}

	path, err := criticalPath(s, g)
	if err != nil {
		return nil, err
	}
	s.CriticalPath = path
	return s, nil
}

// forward sets ES and EF. All predecessors must already be computed.
func forward(s *Schedule, g *dag.Graph, id string) {
	ts := s.Tasks[id]
	var es int64
	for _, p := range g.Predecessors(id) {
		es = max(es, s.Tasks[p].EF)
	}
	ts.ES = es
	ts.EF = es + ts.Weight
}

// projectFinish returns the latest EF among sinks.
func projectFinish(s *Schedule, g *dag.Graph) int64 {
	var finish int64
	for _, id := range g.Sinks() {
		finish = max(finish, s.Tasks[id].EF)
	}
	return finish
}

// backward sets LF, LS, slack, and free float. All successors must already
// be computed.
func backward(s *Schedule, g *dag.Graph, id string) {
	ts := s.Tasks[id]
	succs := g.Successors(id)
	if len(succs) == 0 {
		ts.LF = s.Duration
		ts.FreeFloat = s.Duration - ts.EF
	} else {
		lf, minES := s.Tasks[succs[0]].LS, s.Tasks[succs[0]].ES
		for _, succ := range succs[1:] {
			lf = min(lf, s.Tasks[succ].LS)
			minES = min(minES, s.Tasks[succ].ES)
		}
		ts.LF = lf
		ts.FreeFloat = minES - ts.EF
	}
	ts.LS = ts.LF - ts.Weight
	ts.Slack = ts.LS - ts.ES
	ts.Critical = ts.Slack == 0
}

// checkOrder verifies that order is a topological order of g with the ranks
// the sorter would have produced.
func checkOrder(g *dag.Graph, order *topo.Order) error {
	if order == nil {
		return errors.Inconsistent("no topological order given")
	}
	if len(order.IDs) != g.Len() {
		return errors.Inconsistent("order has %d tasks, graph has %d", len(order.IDs), g.Len())
	}

	pos := make(map[string]int, len(order.IDs))
	for i, id := range order.IDs {
		if _, ok := g.Task(id); !ok {
			return errors.Inconsistent("order contains unknown task %q", id)
		}
		if _, dup := pos[id]; dup {
			return errors.Inconsistent("task %q appears twice in order", id)
		}
		pos[id] = i
	}

	for _, id := range order.IDs {
		want := 0
		for _, p := range g.Predecessors(id) {
			if pos[p] >= pos[id] {
				return errors.Inconsistent("task %q is ordered before its predecessor %q", id, p)
			}
			want = max(want, order.Rank[p]+1)
		}
		if got, ok := order.Rank[id]; !ok || got != want {
			return errors.Inconsistent("task %q has rank %d, want %d", id, got, want)
		}
	}
	return nil
}
