package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// maxLineSize bounds a single input line. Generous enough for tasks with
// thousands of predecessors.
const maxLineSize = 1 << 20

// ReadText reads records in the line format: "<id> <weight> [<pred>...]".
//
// Blank lines and lines whose first non-space character is # are skipped.
// A line with an identifier but no weight fails with ErrCodeInvalidFormat.
// Each record's Line is its 1-based line number in r.
func ReadText(r io.Reader) ([]dag.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []dag.Record
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: task %q has no weight", line, fields[0])
		}
		w, err := parseWeight(fields[0], fields[1], line)
		if err != nil {
			return nil, err
		}
		rec := dag.Record{ID: fields[0], Weight: w, Line: line}
		if len(fields) > 2 {
			rec.Predecessors = fields[2:]
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read line %d", line+1)
	}
	return records, nil
}

// parseWeight accepts base-10 integers. Negative values are returned as-is
// for dag.Build to reject.
func parseWeight(id, raw string, line int) (int64, error) {
	w, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.InvalidWeightError{ID: id, Value: raw, Line: line}
	}
	return w, nil
}
