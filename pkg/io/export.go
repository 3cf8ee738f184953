package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/schedulator/pkg/cpm"
)

// Report is the serialized form of a schedule.
type Report struct {
	Duration      int64        `json:"duration"`
	CriticalPath  []string     `json:"critical_path"`
	CriticalPaths [][]string   `json:"critical_paths,omitempty"`
	Tasks         []TaskReport `json:"tasks"`
}

// TaskReport is one task row of a [Report].
type TaskReport struct {
	ID        string `json:"id"`
	Weight    int64  `json:"weight"`
	Rank      int    `json:"rank"`
	ES        int64  `json:"es"`
	EF        int64  `json:"ef"`
	LS        int64  `json:"ls"`
	LF        int64  `json:"lf"`
	Slack     int64  `json:"slack"`
	FreeFloat int64  `json:"free_float"`
	Critical  bool   `json:"critical"`
}

// NewReport converts a schedule into its serialized form, with tasks in
// topological order. paths is optional and usually comes from
// Schedule.CriticalPaths.
func NewReport(s *cpm.Schedule, paths [][]string) Report {
	rep := Report{
		Duration:      s.Duration,
		CriticalPath:  s.CriticalPath,
		CriticalPaths: paths,
		Tasks:         make([]TaskReport, 0, len(s.Order)),
	}
	if rep.CriticalPath == nil {
		rep.CriticalPath = []string{}
	}
	for _, ts := range s.Rows() {
		rep.Tasks = append(rep.Tasks, TaskReport{
			ID:        ts.TaskID,
			Weight:    ts.Weight,
			Rank:      ts.Rank,
			ES:        ts.ES,
			EF:        ts.EF,
			LS:        ts.LS,
			LF:        ts.LF,
			Slack:     ts.Slack,
			FreeFloat: ts.FreeFloat,
			Critical:  ts.Critical,
		})
	}
	return rep
}

// WriteJSON encodes the schedule report as indented JSON.
func WriteJSON(s *cpm.Schedule, paths [][]string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(s, paths)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// CSVHeader is the header row written by [WriteCSV].
var CSVHeader = []string{"id", "weight", "rank", "es", "ef", "ls", "lf", "slack", "free_float", "critical"}

// WriteCSV writes one row per task in topological order, preceded by
// [CSVHeader].
func WriteCSV(s *cpm.Schedule, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	i := strconv.FormatInt
	for _, ts := range s.Rows() {
		row := []string{
			ts.TaskID,
			i(ts.Weight, 10),
			strconv.Itoa(ts.Rank),
			i(ts.ES, 10),
			i(ts.EF, 10),
			i(ts.LS, 10),
			i(ts.LF, 10),
			i(ts.Slack, 10),
			i(ts.FreeFloat, 10),
			strconv.FormatBool(ts.Critical),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", ts.TaskID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
