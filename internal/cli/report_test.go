package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedulator/internal/testutil"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/pipeline"
)

func diamondResult(t *testing.T) *pipeline.Result {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	res, err := runner.Analyze(context.Background(), testutil.DiamondRecords(), pipeline.Options{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	return res
}

func TestScheduleTable(t *testing.T) {
	res := diamondResult(t)
	out := scheduleTable(res.Schedule, "rounded")

	for _, want := range []string{"Task", "Slack", "Free", "╭", "A", "B", "C", "D"} {
		if !strings.Contains(out, want) {
			t.Errorf("scheduleTable() missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "●"); got != 3 {
		t.Errorf("critical markers = %d, want 3:\n%s", got, out)
	}
}

func TestScheduleTableStyles(t *testing.T) {
	res := diamondResult(t)
	tests := []struct {
		style  string
		corner string
	}{
		{"rounded", "╭"},
		{"normal", "┌"},
		{"thick", "┏"},
		{"double", "╔"},
		{"", "╭"},
	}
	for _, tt := range tests {
		if out := scheduleTable(res.Schedule, tt.style); !strings.Contains(out, tt.corner) {
			t.Errorf("style %q: missing corner %q", tt.style, tt.corner)
		}
	}
	if out := scheduleTable(res.Schedule, "hidden"); strings.ContainsAny(out, "│╭┌") {
		t.Errorf("hidden style drew borders:\n%s", out)
	}
}

func TestMatrixTable(t *testing.T) {
	g := testutil.MustBuild(t, testutil.DiamondRecords())
	out := matrixTable(g, "normal")

	lines := strings.Split(out, "\n")
	var rowA string
	for _, l := range lines {
		if strings.Contains(l, " A ") && strings.Count(l, "3") == 2 {
			rowA = l
		}
	}
	if rowA == "" {
		t.Errorf("matrixTable() has no row A with weight 3 toward B and C:\n%s", out)
	}
	if !strings.Contains(out, "-") {
		t.Errorf("matrixTable() should mark absent edges with -:\n%s", out)
	}
	if g.Matrix()[0][0] != dag.NoEdge {
		t.Error("diagonal should be NoEdge")
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{[]string{"A", "C", "D"}, "A → C → D"},
		{[]string{"X"}, "X"},
		{nil, "(none)"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	res := diamondResult(t)

	var buf bytes.Buffer
	writeReport(&buf, res, reportOptions{Style: "rounded", Matrix: true, AllPaths: true})
	out := buf.String()

	for _, want := range []string{"Adjacency matrix", "Duration", "8", "Critical path", "A → C → D"} {
		if !strings.Contains(out, want) {
			t.Errorf("writeReport() missing %q:\n%s", want, out)
		}
	}
	// One critical path, so no numbered list.
	if strings.Contains(out, "path 1") {
		t.Errorf("writeReport() listed paths for a single critical path:\n%s", out)
	}

	buf.Reset()
	writeReport(&buf, res, reportOptions{})
	if strings.Contains(buf.String(), "Adjacency matrix") {
		t.Error("matrix printed without Matrix option")
	}
}
