package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackorder/pkg/topsort"
)

// Options configures DOT output.
type Options struct {
	// Detailed adds the element type and group level to node labels.
	Detailed bool
}

// ToDOT converts elements and their grouped order to Graphviz DOT.
// groups may be nil, in which case no clusters are drawn.
func ToDOT(elements []topsort.Element, groups []topsort.Group, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	level := make(map[string]int)
	for _, g := range groups {
		for _, id := range g.Elements {
			level[id] = g.Level
		}
	}

	byID := make(map[string]topsort.Element, len(elements))
	for _, e := range elements {
		byID[e.ID] = e
	}

	clustered := make(map[string]bool)
	for _, g := range groups {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", g.Level)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("%s #%d", g.Type, g.Level))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, id := range g.Elements {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", id, fmtLabel(byID[id], level, opts.Detailed))
			clustered[id] = true
		}
		buf.WriteString("  }\n")
	}

	for _, e := range elements {
		if !clustered[e.ID] {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", e.ID, fmtLabel(e, level, opts.Detailed))
		}
	}

	buf.WriteString("\n")
	for _, e := range elements {
		for _, dep := range e.Dependencies {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.ID, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e topsort.Element, level map[string]int, detailed bool) string {
	if !detailed {
		return e.ID
	}
	parts := []string{e.ID}
	if e.Type != "" {
		parts = append(parts, "type: "+e.Type)
	}
	if l, ok := level[e.ID]; ok {
		parts = append(parts, fmt.Sprintf("group: %d", l))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG lays out a DOT graph and returns it as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// viewBox anchored at the origin so the image scales in browsers.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
