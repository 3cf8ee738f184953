package dag

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/schedulator/pkg/errors"
)

// Record is one already-tokenized input row: a task identifier, its weight,
// and the identifiers of the tasks it depends on. Readers in pkg/io produce
// records; [Build] turns them into a [Graph].
type Record struct {
	ID           string   // Task identifier
	Weight       int64    // Duration, must be non-negative
	Predecessors []string // Tasks that must finish first (may reference later records)
	Line         int      // 1-based source line, 0 if not read from a file
}

// Task is a vertex of the dependency graph.
//
// Tasks carry only input data. Timing fields computed by the analyzer live in
// cpm.TaskSchedule so a Graph never changes after [Build] returns.
type Task struct {
	ID           string
	Weight       int64
	Predecessors []string // Deduplicated, in declaration order
	Line         int
}

// Edge is a dependency edge: From must finish before To may start.
type Edge struct {
	From string
	To   string
}

// Graph is a validated task dependency graph.
//
// It holds the tasks keyed by identifier together with two adjacency views,
// successors (forward edges) and predecessors (reverse edges), which are
// populated together and are therefore always consistent. Adjacency lists
// are sorted by identifier.
//
// The zero value is not usable - use [Build] to create a Graph.
// A Graph is read-only after construction and safe for concurrent readers.
type Graph struct {
	tasks        map[string]*Task
	order        []string            // declaration order
	successors   map[string][]string // taskID -> tasks that depend on it
	predecessors map[string][]string // taskID -> tasks it depends on
	edges        int
}

// Build converts records into a validated Graph.
//
// Records are checked in order: an invalid identifier fails with
// ErrCodeInvalidTask, a repeated identifier with [errors.DuplicateTaskError],
// and a negative weight with [errors.InvalidWeightError]. The weights must
// also sum to at most math.MaxInt64, which bounds every finish time the
// analyzer can compute; the first record past that bound fails with
// [errors.InvalidWeightError]. Predecessors may
// reference records that appear later, so their existence is checked only
// after every record is loaded; the first missing one fails with
// [errors.UnknownPredecessorError].
//
// Build does not check for cycles. Ordering the graph with topo.Sort reports
// them, including a task that lists itself as its own predecessor.
func Build(records []Record) (*Graph, error) {
	g := &Graph{
		tasks:        make(map[string]*Task, len(records)),
		order:        make([]string, 0, len(records)),
		successors:   make(map[string][]string, len(records)),
		predecessors: make(map[string][]string, len(records)),
	}

	var total int64
	for _, r := range records {
		if err := errors.ValidateTaskID(r.ID); err != nil {
			return nil, err
		}
		if prev, exists := g.tasks[r.ID]; exists {
			return nil, &errors.DuplicateTaskError{ID: r.ID, Line: r.Line, FirstLine: prev.Line}
		}
		if r.Weight < 0 {
			return nil, &errors.InvalidWeightError{ID: r.ID, Value: formatWeight(r.Weight), Line: r.Line}
		}
		if r.Weight > math.MaxInt64-total {
			return nil, &errors.InvalidWeightError{
				ID: r.ID, Value: formatWeight(r.Weight), Line: r.Line,
				Reason: "total weight of all tasks exceeds the int64 range",
			}
		}
		total += r.Weight
		g.tasks[r.ID] = &Task{
			ID:           r.ID,
			Weight:       r.Weight,
			Predecessors: dedupe(r.Predecessors),
			Line:         r.Line,
		}
		g.order = append(g.order, r.ID)
	}

	for _, id := range g.order {
		t := g.tasks[id]
		for _, p := range t.Predecessors {
			if _, ok := g.tasks[p]; !ok {
				return nil, &errors.UnknownPredecessorError{TaskID: id, Predecessor: p}
			}
			g.successors[p] = append(g.successors[p], id)
			g.predecessors[id] = append(g.predecessors[id], p)
			g.edges++
		}
	}

	for _, adj := range []map[string][]string{g.successors, g.predecessors} {
		for _, ids := range adj {
			slices.Sort(ids)
		}
	}

	return g, nil
}

// Task returns the task with the given ID and true, or nil and false if not found.
func (g *Graph) Task(id string) (*Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Tasks returns all tasks in declaration order.
func (g *Graph) Tasks() []*Task {
	tasks := make([]*Task, len(g.order))
	for i, id := range g.order {
		tasks[i] = g.tasks[id]
	}
	return tasks
}

// IDs returns all task identifiers in declaration order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Len returns the number of tasks.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Weight returns the weight of the task, or 0 if it doesn't exist.
func (g *Graph) Weight(id string) int64 {
	if t, ok := g.tasks[id]; ok {
		return t.Weight
	}
	return 0
}

// Successors returns the IDs of tasks that depend on id, sorted.
// The returned slice should not be modified.
func (g *Graph) Successors(id string) []string { return g.successors[id] }

// Predecessors returns the IDs of tasks id depends on, sorted.
// The returned slice should not be modified.
func (g *Graph) Predecessors(id string) []string { return g.predecessors[id] }

// InDegree returns the number of predecessors of id.
func (g *Graph) InDegree(id string) int { return len(g.predecessors[id]) }

// OutDegree returns the number of successors of id.
func (g *Graph) OutDegree(id string) int { return len(g.successors[id]) }

// Sources returns the IDs of tasks without predecessors, sorted.
func (g *Graph) Sources() []string {
	var ids []string
	for _, id := range g.order {
		if len(g.predecessors[id]) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Sinks returns the IDs of tasks without successors, sorted.
func (g *Graph) Sinks() []string {
	var ids []string
	for _, id := range g.order {
		if len(g.successors[id]) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Edges returns every edge sorted by From, then To.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, from := range g.order {
		for _, to := range g.successors[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return edges
}

// NoEdge marks an absent edge in [Graph.Matrix].
const NoEdge int64 = -1

// Matrix returns the weighted adjacency matrix in declaration order.
// Cell [i][j] holds the weight of task i when task i precedes task j,
// and NoEdge otherwise.
func (g *Graph) Matrix() [][]int64 {
	index := PosMap(g.order)
	m := make([][]int64, len(g.order))
	for i, id := range g.order {
		row := make([]int64, len(g.order))
		for j := range row {
			row[j] = NoEdge
		}
		for _, succ := range g.successors[id] {
			row[index[succ]] = g.tasks[id].Weight
		}
		m[i] = row
	}
	return m
}

// PosMap creates a position lookup map from a slice of task IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func formatWeight(w int64) string { return strconv.FormatInt(w, 10) }
