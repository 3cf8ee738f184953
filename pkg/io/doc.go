// Package io reads task records and writes schedule reports.
//
// # Input Formats
//
// The line format is the native one. Each non-blank line declares one task:
//
//	# id  weight  predecessors...
//	A     3
//	B     2       A
//	C     4       A
//	D     1       B C
//
// Fields are separated by any whitespace. Lines starting with # are comments.
// Predecessors may name tasks declared further down the file.
//
// The same tasks can be written as TOML, JSON or YAML:
//
//	[[task]]
//	id = "D"
//	weight = 1
//	after = ["B", "C"]
//
//	{"tasks": [{"id": "D", "weight": 1, "after": ["B", "C"]}]}
//
//	tasks:
//	  - id: D
//	    weight: 1
//	    after: [B, C]
//
// [ReadFile] picks the reader from the file extension; see [DetectFormat].
// All readers only tokenize. Structural checks (duplicates, unknown
// predecessors, cycles) happen in dag.Build and topo.Sort, so every format
// reports them with the same typed errors.
//
// Weights must be non-negative integers. A weight that is not an integer
// fails with [errors.InvalidWeightError] carrying the original text; a
// negative one passes through and is rejected by dag.Build.
//
// # Output Formats
//
// [WriteJSON] and [WriteCSV] serialize a computed schedule with one entry per
// task in topological order:
//
//	{
//	  "duration": 8,
//	  "critical_path": ["A", "C", "D"],
//	  "tasks": [
//	    {"id": "A", "weight": 3, "rank": 0, "es": 0, "ef": 3, ...}
//	  ]
//	}
package io
