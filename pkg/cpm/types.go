package cpm

import "github.com/matzehuels/schedulator/pkg/dag"

// TaskSchedule holds the computed timing of a single task.
type TaskSchedule struct {
	TaskID    string
	Weight    int64
	Rank      int   // longest predecessor chain, in edges
	ES, EF    int64 // earliest start/finish
	LS, LF    int64 // latest start/finish
	Slack     int64 // LS - ES
	FreeFloat int64 // delay absorbable without moving any successor's ES
	Critical  bool  // Slack == 0
}

// Schedule is the result of a critical path analysis.
type Schedule struct {
	Tasks        map[string]*TaskSchedule
	Order        []string // topological order the passes ran in
	Duration     int64    // project finish time T
	CriticalPath []string // source-to-sink zero-slack chain, ties broken by ID

	graph *dag.Graph
}

// Task returns the schedule of the task with the given ID.
func (s *Schedule) Task(id string) (*TaskSchedule, bool) {
	ts, ok := s.Tasks[id]
	return ts, ok
}

// Rows returns the task schedules in topological order.
func (s *Schedule) Rows() []*TaskSchedule {
	rows := make([]*TaskSchedule, len(s.Order))
	for i, id := range s.Order {
		rows[i] = s.Tasks[id]
	}
	return rows
}

// CriticalTasks returns the IDs of all zero-slack tasks in topological order.
// This can be a superset of CriticalPath when several critical chains exist.
func (s *Schedule) CriticalTasks() []string {
	var ids []string
	for _, id := range s.Order {
		if s.Tasks[id].Critical {
			ids = append(ids, id)
		}
	}
	return ids
}

// PathWeight returns the summed weight of the tasks in path.
func (s *Schedule) PathWeight(path []string) int64 {
	var total int64
	for _, id := range path {
		if ts, ok := s.Tasks[id]; ok {
			total += ts.Weight
		}
	}
	return total
}
