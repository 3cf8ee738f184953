// Package render groups the visual renderers for schedules.
//
// The [nodelink] subpackage draws the task graph as a Graphviz node-link
// diagram with tasks grouped by rank and the critical path highlighted.
//
//	dot := nodelink.ToDOT(g, schedule, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
