package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schedulator/pkg/cpm"
	"github.com/matzehuels/schedulator/pkg/dag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds ES/EF, LS/LF and slack to every label.
	// When false, labels show the task ID and weight.
	Detailed bool
}

const criticalColor = "#d62728"

// ToDOT converts a scheduled graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Tasks are placed in rank=same groups per topological rank. Critical tasks
// get a red bold outline; an edge is red when both ends lie on a critical
// chain (the successor starts exactly when the predecessor finishes).
func ToDOT(g *dag.Graph, s *cpm.Schedule, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for rank, level := range levels(s) {
		fmt.Fprintf(&buf, "\n  subgraph rank_%d {\n    rank=same;\n", rank)
		for _, id := range level {
			ts := s.Tasks[id]
			fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(fmtAttrs(ts, fmtLabel(ts, opts.Detailed)), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, to := s.Tasks[e.From], s.Tasks[e.To]
		if from.Critical && to.Critical && to.ES == from.EF {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", e.From, e.To, criticalColor)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// levels groups the schedule's task IDs by rank, preserving topological order.
func levels(s *cpm.Schedule) [][]string {
	var out [][]string
	for _, id := range s.Order {
		r := s.Tasks[id].Rank
		for len(out) <= r {
			out = append(out, nil)
		}
		out[r] = append(out[r], id)
	}
	return out
}

func fmtLabel(ts *cpm.TaskSchedule, detailed bool) string {
	head := fmt.Sprintf("%s (%d)", ts.TaskID, ts.Weight)
	if !detailed {
		return head
	}
	return strings.Join([]string{
		head,
		fmt.Sprintf("ES %d  EF %d", ts.ES, ts.EF),
		fmt.Sprintf("LS %d  LF %d", ts.LS, ts.LF),
		fmt.Sprintf("slack %d", ts.Slack),
	}, "\n")
}

func fmtAttrs(ts *cpm.TaskSchedule, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if ts.Critical {
		attrs = append(attrs, fmt.Sprintf("color=%q", criticalColor), "penwidth=2", fmt.Sprintf("fontcolor=%q", criticalColor))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the image scales with its
// container instead of carrying Graphviz's point dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
