package topo

import (
	"container/heap"
	"maps"
	"slices"

	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// State tracks a task's progress through the ordering pass.
// A task only ever moves forward: Unvisited → Ready → Ordered.
type State int

const (
	Unvisited State = iota
	Ready
	Ordered
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Ordered:
		return "ordered"
	default:
		return "unvisited"
	}
}

// Order is a topological order of a graph together with task ranks.
type Order struct {
	IDs  []string       // Every task exactly once, predecessors first
	Rank map[string]int // Longest predecessor chain length, in edges
}

// Sort produces a deterministic topological order of g.
// It returns [errors.CycleError] if the dependency relation has a cycle.
func Sort(g *dag.Graph) (*Order, error) {
	n := g.Len()
	inDegree := make(map[string]int, n)
	state := make(map[string]State, n)
	rank := make(map[string]int, n)
	ready := make(idHeap, 0, n)

	for _, id := range g.IDs() {
		d := g.InDegree(id)
		inDegree[id] = d
		if d == 0 {
			state[id] = Ready
			rank[id] = 0
			ready = append(ready, id)
		}
	}
	heap.Init(&ready)

	ids := make([]string, 0, n)
	for ready.Len() > 0 {
		curr := heap.Pop(&ready).(string)
		state[curr] = Ordered
		ids = append(ids, curr)

		for _, succ := range g.Successors(curr) {
			if r := rank[curr] + 1; r > rank[succ] {
				rank[succ] = r
			}
			inDegree[succ]--
			if inDegree[succ] == 0 {
				state[succ] = Ready
				heap.Push(&ready, succ)
			}
		}
	}

	if len(ids) < n {
		return nil, cycleError(g, state)
	}
	return &Order{IDs: ids, Rank: rank}, nil
}

// Len returns the number of ordered tasks.
func (o *Order) Len() int { return len(o.IDs) }

// Position returns the index of id in the order, or -1 if absent.
func (o *Order) Position(id string) int { return slices.Index(o.IDs, id) }

// MaxRank returns the largest rank, or 0 for an empty order.
func (o *Order) MaxRank() int {
	if len(o.Rank) == 0 {
		return 0
	}
	return slices.Max(slices.Collect(maps.Values(o.Rank)))
}

// Levels groups task IDs by rank. Level i holds the tasks of rank i,
// sorted by ID. Tasks within a level have no edges between them.
func (o *Order) Levels() [][]string {
	if len(o.IDs) == 0 {
		return nil
	}
	levels := make([][]string, o.MaxRank()+1)
	for _, id := range o.IDs {
		r := o.Rank[id]
		levels[r] = append(levels[r], id)
	}
	for _, l := range levels {
		slices.Sort(l)
	}
	return levels
}

// cycleError reports the tasks left unordered and one cycle among them.
func cycleError(g *dag.Graph, state map[string]State) *errors.CycleError {
	var unresolved []string
	for _, id := range g.IDs() {
		if state[id] != Ordered {
			unresolved = append(unresolved, id)
		}
	}
	slices.Sort(unresolved)
	return &errors.CycleError{
		Unresolved: unresolved,
		Cycle:      findCycle(g, unresolved, state),
	}
}

// findCycle walks predecessors inside the unresolved set until a task
// repeats. Every unresolved task has at least one unresolved predecessor,
// so the walk cannot dead-end. The cycle is returned in edge direction,
// rotated to start at its smallest ID, with that ID repeated at the end.
func findCycle(g *dag.Graph, unresolved []string, state map[string]State) []string {
	if len(unresolved) == 0 {
		return nil
	}

	seen := make(map[string]int)
	var walk []string
	curr := unresolved[0]
	for {
		if i, ok := seen[curr]; ok {
			walk = walk[i:]
			break
		}
		seen[curr] = len(walk)
		walk = append(walk, curr)

		next := ""
		for _, p := range g.Predecessors(curr) {
			if state[p] != Ordered {
				next = p
				break
			}
		}
		if next == "" {
			return nil
		}
		curr = next
	}

	slices.Reverse(walk)
	start := slices.Index(walk, slices.Min(walk))
	cycle := append(slices.Clone(walk[start:]), walk[:start]...)
	return append(cycle, cycle[0])
}

// idHeap is a min-heap of task IDs.
type idHeap []string

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
