// Package structure renders a document's element tree as a node-link
// diagram via Graphviz. It exists for debugging: reconstruction output is
// easier to reason about when the group nesting and z-order are visible as
// a graph instead of pixels.
package structure

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// Options configures structure diagram rendering.
type Options struct {
	// Detailed includes geometry summaries in node labels.
	Detailed bool
}

// ToDOT converts a document to Graphviz DOT. The canvas is the root node,
// top-level elements hang off it in z-order, and group children hang off
// their groups. Dangling child references are drawn dashed.
func ToDOT(doc *scene.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightyellow];\n",
		"canvas", fmt.Sprintf("canvas\n%d×%d", doc.Canvas.Width, doc.Canvas.Height))

	for _, id := range doc.Order {
		el, ok := doc.Elements[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, nodeLabel(id, el, opts.Detailed))
		fmt.Fprintf(&buf, "  %q -> %q;\n", "canvas", id)

		if el.Type != scene.TypeGroup {
			continue
		}
		for _, child := range el.Children {
			if _, ok := doc.Elements[child]; !ok {
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n",
					child, child+"\n(missing)")
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", id, child)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(id string, el scene.Element, detailed bool) string {
	label := fmt.Sprintf("%s\n%s", id, el.Type)
	if !detailed {
		return label
	}
	var parts []string
	switch el.Type {
	case scene.TypeRect, scene.TypeImage:
		parts = append(parts, fmt.Sprintf("%g,%g %gx%g", f(el.X), f(el.Y), f(el.Width), f(el.Height)))
	case scene.TypeEllipse:
		parts = append(parts, fmt.Sprintf("c=%g,%g r=%g,%g", f(el.CX), f(el.CY), f(el.RX), f(el.RY)))
	case scene.TypeText:
		if el.Content != nil {
			parts = append(parts, truncate(*el.Content, 20))
		}
	case scene.TypeIcon:
		if el.Name != nil {
			parts = append(parts, *el.Name)
		}
	case scene.TypeGroup:
		parts = append(parts, fmt.Sprintf("%d children", len(el.Children)))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func f(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
	return buf.Bytes(), nil
}
