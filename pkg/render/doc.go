// Package render writes sort results for people and tools.
//
// # Formats
//
// [WriteOrder] and [WriteGroups] write a linear order or a grouped order
// as plain text or JSON. Text output is one id per line for orders and one
// "[type] a, b" line per group for grouped orders.
//
// # Graphs
//
// [ToDOT] turns the registered elements into a Graphviz digraph with an
// edge from every element to each of its dependencies. When groups are
// given, each group becomes a cluster so the bands of the grouped order
// stay visible. [RenderSVG] lays the graph out with the embedded Graphviz
// of go-graphviz; no external binaries are needed.
//
//	dot := render.ToDOT(reg.Elements(), groups, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
package render
