package cpm

import (
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// criticalPath follows zero-slack tasks from a source to a sink, taking the
// smallest qualifying ID at every step.
func criticalPath(s *Schedule, g *dag.Graph) ([]string, error) {
	if len(s.Order) == 0 {
		return nil, nil
	}

	curr := ""
	for _, id := range g.Sources() {
		if ts := s.Tasks[id]; ts.Critical && ts.ES == 0 {
			curr = id
			break
		}
	}
	if curr == "" {
		return nil, errors.Inconsistent("no zero-slack source task")
	}

	path := []string{curr}
	for {
		ts := s.Tasks[curr]
		succs := g.Successors(curr)
		if len(succs) == 0 {
			if ts.EF != s.Duration {
				return nil, errors.Inconsistent("critical chain ends at %q with EF %d, project finishes at %d", curr, ts.EF, s.Duration)
			}
			return path, nil
		}

		next := ""
		for _, succ := range succs {
			if onChain(s.Tasks[succ], ts) {
				next = succ
				break
			}
		}
		if next == "" {
			return nil, errors.Inconsistent("critical chain breaks after %q", curr)
		}
		path = append(path, next)
		curr = next
	}
}

// CriticalPaths enumerates every zero-slack source-to-sink chain whose
// length equals the project duration, in lexicographic order of task IDs.
// At most limit paths are returned; limit <= 0 means no limit. The first
// path is always the schedule's CriticalPath.
func (s *Schedule) CriticalPaths(limit int) [][]string {
	if s.graph == nil || len(s.Order) == 0 {
		return nil
	}

	var (
		paths [][]string
		path  []string
	)
	full := func() bool { return limit > 0 && len(paths) >= limit }

	var walk func(id string)
	walk = func(id string) {
		if full() {
			return
		}
		path = append(path, id)
		defer func() { path = path[:len(path)-1] }()

		ts := s.Tasks[id]
		succs := s.graph.Successors(id)
		if len(succs) == 0 {
			if ts.EF == s.Duration {
				paths = append(paths, append([]string(nil), path...))
			}
			return
		}
		for _, succ := range succs {
			if onChain(s.Tasks[succ], ts) {
				walk(succ)
			}
		}
	}

	for _, id := range s.graph.Sources() {
		if ts := s.Tasks[id]; ts.Critical && ts.ES == 0 {
			walk(id)
		}
	}
	return paths
}

// onChain reports whether next continues a critical chain ending at prev.
func onChain(next, prev *TaskSchedule) bool {
	return next.Critical && next.ES == prev.EF
}
