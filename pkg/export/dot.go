// Package export renders diagrams to Graphviz DOT and to SVG. The
// layout is pinned: every vertex carries its canvas position, so the
// exported picture is the diagram as drawn, not a Graphviz layout.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
)

// Options configures DOT generation.
type Options struct {
	// Crossings adds a marker node at each crossing, labelled with the
	// over strand. Virtual crossings are marked with a circle.
	Crossings bool
}

// ToDOT renders the diagram as a DOT graph with pinned positions.
// Canvas y grows downward, Graphviz y upward, so y is negated.
func ToDOT(d *diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph linkpad {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, v := range d.Vertices() {
		fmt.Fprintf(&buf, "  v%d [pos=\"%g,%g!\", color=%q];\n", v.ID, v.Pos.X, -v.Pos.Y, v.Color)
	}

	buf.WriteString("\n")
	for _, a := range d.Arrows() {
		if a.End == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  v%d -> v%d [color=%q];\n", a.Start, a.End, a.Color)
	}

	if opts.Crossings {
		buf.WriteString("\n")
		for i, c := range d.Crossings() {
			shape := "none"
			label := fmt.Sprintf("a%d/a%d", c.Over, c.Under)
			if c.Virtual {
				shape = "circle"
				label = "v"
			}
			fmt.Fprintf(&buf, "  x%d [pos=\"%g,%g!\", shape=%s, width=0.15, label=%q, fontsize=8];\n",
				i, c.Pos.X, -c.Pos.Y, shape, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
