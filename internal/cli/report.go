package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/schedulator/pkg/cpm"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// reportOptions selects the sections of a terminal report.
type reportOptions struct {
	Style    string
	Matrix   bool
	AllPaths bool
}

// border maps a table_style name to a lipgloss border.
func border(style string) lipgloss.Border {
	switch style {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	}
	return lipgloss.RoundedBorder()
}

func newTable(style string) *table.Table {
	return table.New().
		Border(border(style)).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim))
}

// writeReport prints the schedule table, optional matrix, and path summary.
func writeReport(w io.Writer, res *pipeline.Result, opts reportOptions) {
	s := res.Schedule

	fmt.Fprintln(w, scheduleTable(s, opts.Style))
	if opts.Matrix {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Adjacency matrix"))
		fmt.Fprintln(w, matrixTable(res.Graph, opts.Style))
	}
	fmt.Fprintln(w)

	fprintKeyValue(w, "Duration", strconv.FormatInt(s.Duration, 10))
	fprintKeyValue(w, "Critical path", formatPath(s.CriticalPath))
	if opts.AllPaths && len(res.Paths) > 1 {
		for i, p := range res.Paths {
			fprintKeyValue(w, fmt.Sprintf("  path %d", i+1), formatPath(p))
		}
	}
}

// scheduleTable renders one row per task in topological order.
// Critical rows are highlighted.
func scheduleTable(s *cpm.Schedule, style string) string {
	rows := s.Rows()
	cells := make([][]string, len(rows))
	for i, ts := range rows {
		crit := ""
		if ts.Critical {
			crit = "●"
		}
		cells[i] = []string{
			ts.TaskID,
			strconv.FormatInt(ts.Weight, 10),
			strconv.Itoa(ts.Rank),
			strconv.FormatInt(ts.ES, 10),
			strconv.FormatInt(ts.EF, 10),
			strconv.FormatInt(ts.LS, 10),
			strconv.FormatInt(ts.LF, 10),
			strconv.FormatInt(ts.Slack, 10),
			strconv.FormatInt(ts.FreeFloat, 10),
			crit,
		}
	}

	t := newTable(style).
		Headers("Task", "Weight", "Rank", "ES", "EF", "LS", "LF", "Slack", "Free", "Critical").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 && col < 9 {
				base = base.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(rows) && rows[row].Critical {
				return base.Inherit(StyleCritical)
			}
			return base
		})
	return t.Render()
}

// matrixTable renders the weighted adjacency matrix with "-" for absent edges.
func matrixTable(g *dag.Graph, style string) string {
	ids := g.IDs()
	m := g.Matrix()
	cells := make([][]string, len(ids))
	for i, row := range m {
		line := make([]string, 0, len(row)+1)
		line = append(line, ids[i])
		for _, w := range row {
			if w == dag.NoEdge {
				line = append(line, "-")
			} else {
				line = append(line, strconv.FormatInt(w, 10))
			}
		}
		cells[i] = line
	}

	t := newTable(style).
		Headers(append([]string{""}, ids...)...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})
	return t.Render()
}

// formatPath joins task IDs with arrows, e.g. "A → C → D".
func formatPath(path []string) string {
	if len(path) == 0 {
		return "(none)"
	}
	return strings.Join(path, " "+iconArrow+" ")
}
