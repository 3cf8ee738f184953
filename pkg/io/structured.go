package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/errors"
)

// taskFile is the shared shape of TOML, JSON and YAML task files.
// TOML uses the singular array-of-tables name "task".
type taskFile struct {
	Tasks    []taskEntry `json:"tasks" yaml:"tasks"`
	TOMLTask []taskEntry `toml:"task" json:"-" yaml:"-"`
}

type taskEntry struct {
	ID     string   `toml:"id" json:"id" yaml:"id"`
	Weight any      `toml:"weight" json:"weight" yaml:"weight"`
	After  []string `toml:"after" json:"after" yaml:"after"`
}

// ReadTOML reads records from a TOML document with one [[task]] table per task.
func ReadTOML(r io.Reader) ([]dag.Record, error) {
	var f taskFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML")
	}
	return toRecords(f.TOMLTask)
}

// ReadJSON reads records from a JSON object with a "tasks" array.
func ReadJSON(r io.Reader) ([]dag.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var f taskFile
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	return toRecords(f.Tasks)
}

// ReadYAML reads records from a YAML document with a "tasks" sequence.
func ReadYAML(r io.Reader) ([]dag.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read YAML")
	}
	var f taskFile
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
		}
	}
	return toRecords(f.Tasks)
}

func toRecords(entries []taskEntry) ([]dag.Record, error) {
	records := make([]dag.Record, 0, len(entries))
	for i, e := range entries {
		w, err := weightOf(e.ID, e.Weight)
		if err != nil {
			return nil, err
		}
		records = append(records, dag.Record{
			ID:           e.ID,
			Weight:       w,
			Predecessors: e.After,
			Line:         i + 1,
		})
	}
	return records, nil
}

// weightOf normalizes the numeric types the decoders produce. Whole floats
// such as 3.0 are accepted; fractions, strings and missing values are not.
func weightOf(id string, v any) (int64, error) {
	bad := func() error {
		s := "<missing>"
		if v != nil {
			s = fmt.Sprint(v)
		}
		return &errors.InvalidWeightError{ID: id, Value: s}
	}

	switch w := v.(type) {
	case int64:
		return w, nil
	case int:
		return int64(w), nil
	case uint64:
		if w > math.MaxInt64 {
			return 0, bad()
		}
		return int64(w), nil
	case float64:
		if w != math.Trunc(w) || math.Abs(w) >= math.MaxInt64 {
			return 0, bad()
		}
		return int64(w), nil
	case json.Number:
		n, err := strconv.ParseInt(w.String(), 10, 64)
		if err != nil {
			return 0, bad()
		}
		return n, nil
	default:
		return 0, bad()
	}
}
