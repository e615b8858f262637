package output

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"cmakefileapi/internal/graph"
)

type MermaidGenerator struct {
	graph   *graph.Graph
	metrics map[string]graph.TargetMetrics
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

// SetMetrics adds fan-in, fan-out and depth to node labels.
func (m *MermaidGenerator) SetMetrics(metrics map[string]graph.TargetMetrics) {
	if len(metrics) == 0 {
		m.metrics = nil
		return
	}
	m.metrics = make(map[string]graph.TargetMetrics, len(metrics))
	for name, metric := range metrics {
		m.metrics[name] = metric
	}
}

func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	nodes := m.graph.Nodes()
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	ids := makeMermaidIDs(names)
	cycleEdges := cycleEdgeSet(cycles)
	cycleNodes := cycleNodeSet(cycles)

	for i, dir := range groupByDirectory(nodes) {
		fmt.Fprintf(&b, "  subgraph dir_%d[\"%s\"]\n", i, escapeMermaidLabel(dirLabel(dir.name)))
		for _, n := range dir.nodes {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids[n.Name], escapeMermaidLabel(m.label(n)))
		}
		b.WriteString("  end\n")
	}

	var cycleLinks []int
	for i, e := range m.graph.Edges() {
		fmt.Fprintf(&b, "  %s --> %s\n", ids[e.From], ids[e.To])
		if cycleEdges[e] {
			cycleLinks = append(cycleLinks, i)
		}
	}

	b.WriteString("  classDef cycle fill:#ffe4e1,stroke:#d00,stroke-width:2px\n")
	var inCycle []string
	for _, name := range names {
		if cycleNodes[name] {
			inCycle = append(inCycle, ids[name])
		}
	}
	if len(inCycle) > 0 {
		fmt.Fprintf(&b, "  class %s cycle\n", strings.Join(inCycle, ","))
	}
	if len(cycleLinks) > 0 {
		fmt.Fprintf(&b, "  linkStyle %s stroke:#d00,stroke-width:3px\n", joinInts(cycleLinks))
	}

	return b.String(), nil
}

func (m *MermaidGenerator) label(n *graph.Node) string {
	label := fmt.Sprintf("%s<br/>%s", n.Name, strings.ToLower(n.Type))
	if metric, ok := m.metrics[n.Name]; ok {
		label += fmt.Sprintf("<br/>(in:%d out:%d depth:%d)", metric.FanIn, metric.FanOut, metric.Depth)
	}
	return label
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "t"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "t_" + out
	}
	return out
}

// makeMermaidIDs assigns each name a unique identifier. Names are taken in
// the given order, so a sorted input gives stable ids.
func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

type directoryGroup struct {
	name  string
	nodes []*graph.Node
}

// groupByDirectory buckets nodes by build directory. Groups are sorted by
// directory and keep the input order of nodes.
func groupByDirectory(nodes []*graph.Node) []directoryGroup {
	byDir := make(map[string][]*graph.Node)
	for _, n := range nodes {
		byDir[n.Directory] = append(byDir[n.Directory], n)
	}
	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	out := make([]directoryGroup, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, directoryGroup{name: d, nodes: byDir[d]})
	}
	return out
}

func dirLabel(dir string) string {
	if dir == "" || dir == "." {
		return "(top level)"
	}
	return dir
}

func cycleEdgeSet(cycles [][]string) map[graph.Edge]bool {
	out := make(map[graph.Edge]bool)
	for _, cycle := range cycles {
		for i, from := range cycle {
			out[graph.Edge{From: from, To: cycle[(i+1)%len(cycle)]}] = true
		}
	}
	return out
}

func cycleNodeSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		for _, n := range cycle {
			out[n] = true
		}
	}
	return out
}
