package output

import (
	"fmt"
	"strings"

	"cmakefileapi/internal/graph"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the target graph with one cluster per build directory.
// Members and edges of the given cycles are drawn in red.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph targets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.5;\n\n")

	cycleEdges := cycleEdgeSet(cycles)
	cycleNodes := cycleNodeSet(cycles)

	for i, dir := range groupByDirectory(d.graph.Nodes()) {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", dirLabel(dir.name))
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    color=\"whitesmoke\";\n")
		for _, n := range dir.nodes {
			label := fmt.Sprintf("%s\\n%s", n.Name, strings.ToLower(n.Type))
			if cycleNodes[n.Name] {
				fmt.Fprintf(&buf, "    %q [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", n.Name, label)
			} else {
				fmt.Fprintf(&buf, "    %q [label=\"%s\", fillcolor=%q, style=\"rounded,filled\"];\n", n.Name, label, typeColor(n.Type))
			}
		}
		buf.WriteString("  }\n\n")
	}

	for _, e := range d.graph.Edges() {
		if cycleEdges[e] {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"forestgreen\"];\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func typeColor(targetType string) string {
	switch targetType {
	case "EXECUTABLE":
		return "lightblue"
	case "STATIC_LIBRARY", "OBJECT_LIBRARY":
		return "white"
	case "SHARED_LIBRARY", "MODULE_LIBRARY":
		return "honeydew"
	case "INTERFACE_LIBRARY":
		return "lightyellow"
	default:
		return "gainsboro"
	}
}
