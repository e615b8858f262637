package output

import (
	"fmt"
	"strings"

	"cmakefileapi/internal/graph"
)

type PlantUMLGenerator struct {
	graph *graph.Graph
}

func NewPlantUMLGenerator(g *graph.Graph) *PlantUMLGenerator {
	return &PlantUMLGenerator{graph: g}
}

// Generate renders targets as components grouped into one package per build
// directory.
func (p *PlantUMLGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("skinparam componentStyle rectangle\n")
	b.WriteString("skinparam packageStyle rectangle\n")
	b.WriteString("left to right direction\n\n")

	nodes := p.graph.Nodes()
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	aliases := makeMermaidIDs(names)
	cycleEdges := cycleEdgeSet(cycles)
	cycleNodes := cycleNodeSet(cycles)

	for _, dir := range groupByDirectory(nodes) {
		fmt.Fprintf(&b, "package %q {\n", dirLabel(dir.name))
		for _, n := range dir.nodes {
			stereotype := fmt.Sprintf("<<%s>>", strings.ToLower(n.Type))
			if cycleNodes[n.Name] {
				fmt.Fprintf(&b, "  component %q as %s %s #MistyRose\n", n.Name, aliases[n.Name], stereotype)
			} else {
				fmt.Fprintf(&b, "  component %q as %s %s\n", n.Name, aliases[n.Name], stereotype)
			}
		}
		b.WriteString("}\n")
	}
	b.WriteString("\n")

	for _, e := range p.graph.Edges() {
		if cycleEdges[e] {
			fmt.Fprintf(&b, "%s -[#red,thickness=2]-> %s : CYCLE\n", aliases[e.From], aliases[e.To])
		} else {
			fmt.Fprintf(&b, "%s --> %s\n", aliases[e.From], aliases[e.To])
		}
	}

	b.WriteString("@enduml\n")
	return b.String(), nil
}
