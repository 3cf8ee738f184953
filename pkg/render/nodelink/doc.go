// Package nodelink renders schedules as node-link diagrams.
//
// # Overview
//
// Tasks appear as boxes connected by dependency arrows, laid out left to
// right. Tasks of the same rank share a column, so the diagram reads like
// the topological levels of the schedule. Critical tasks and the edges
// between consecutive critical tasks are drawn in red.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, schedule, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: label tasks with ES/EF, LS/LF and slack instead of just
//     the identifier and weight.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly. No external binaries are needed.
package nodelink
