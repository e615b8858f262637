package output

import (
	"fmt"
	"strings"

	"cmakefileapi/internal/graph"
)

type TSVGenerator struct {
	graph *graph.Graph
}

func NewTSVGenerator(g *graph.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate writes one row per dependency edge.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("Configuration\tFrom\tFromType\tTo\tToType\n")

	cfg := t.graph.Configuration()
	for _, e := range t.graph.Edges() {
		from, _ := t.graph.Lookup(e.From)
		to, _ := t.graph.Lookup(e.To)
		fmt.Fprintf(&buf, "%s\t%s\t%s\t%s\t%s\n", cfg, e.From, from.Type, e.To, to.Type)
	}

	return buf.String(), nil
}
