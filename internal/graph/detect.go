package graph

import "sort"

// DetectCycles returns the dependency cycles found by a depth-first walk in
// name order. Each cycle lists its members in dependency order, starting at
// the node where the walk entered it.
func (g *Graph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			g.findCycles(name, visited, onStack, nil, &cycles)
		}
	}
	return cycles
}

func (g *Graph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range g.DependenciesOf(curr) {
		if onStack[next] {
			for i, n := range path {
				if n == next {
					cycle := make([]string, len(path)-i)
					copy(cycle, path[i:])
					*cycles = append(*cycles, cycle)
					break
				}
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

// CycleEdges returns the set of edges that close or lie on a detected
// cycle.
func (g *Graph) CycleEdges() map[Edge]bool {
	out := make(map[Edge]bool)
	for _, cycle := range g.DetectCycles() {
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			out[Edge{From: from, To: to}] = true
		}
	}
	return out
}

// FindChain returns the shortest dependency chain from one target to
// another. Both ends may be given by name or id. Neighbors are visited in
// name order so the result is deterministic.
func (g *Graph) FindChain(from, to string) ([]string, bool) {
	src, ok := g.Lookup(from)
	if !ok {
		return nil, false
	}
	dst, ok := g.Lookup(to)
	if !ok {
		return nil, false
	}
	if src.Name == dst.Name {
		return []string{src.Name}, true
	}

	queue := []string{src.Name}
	visited := map[string]bool{src.Name: true}
	prev := make(map[string]string)

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range g.DependenciesOf(curr) {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = curr

			if next == dst.Name {
				path := []string{next}
				for node := next; node != src.Name; {
					node = prev[node]
					path = append(path, node)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}
