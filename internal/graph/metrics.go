package graph

import "sort"

type TargetMetrics struct {
	// Depth is the longest dependency path below the target, counting
	// a cycle as a single step.
	Depth  int
	FanIn  int
	FanOut int
}

func (g *Graph) ComputeMetrics() map[string]TargetMetrics {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	adjacency := make(map[string][]string, len(names))
	for _, name := range names {
		adjacency[name] = g.DependenciesOf(name)
	}

	componentOf, components := stronglyConnectedComponents(names, adjacency)
	componentEdges := make(map[int]map[int]bool, len(components))
	for _, from := range names {
		fromComp := componentOf[from]
		for _, to := range adjacency[from] {
			toComp := componentOf[to]
			if fromComp == toComp {
				continue
			}
			if componentEdges[fromComp] == nil {
				componentEdges[fromComp] = make(map[int]bool)
			}
			componentEdges[fromComp][toComp] = true
		}
	}

	depthByComp := make(map[int]int, len(components))
	var computeDepth func(int) int
	computeDepth = func(comp int) int {
		if depth, ok := depthByComp[comp]; ok {
			return depth
		}
		maxDepth := 0
		for next := range componentEdges[comp] {
			if candidate := 1 + computeDepth(next); candidate > maxDepth {
				maxDepth = candidate
			}
		}
		depthByComp[comp] = maxDepth
		return maxDepth
	}

	metrics := make(map[string]TargetMetrics, len(names))
	for _, name := range names {
		metrics[name] = TargetMetrics{
			Depth:  computeDepth(componentOf[name]),
			FanIn:  len(g.dependents[name]),
			FanOut: len(adjacency[name]),
		}
	}
	return metrics
}

// stronglyConnectedComponents is Tarjan's algorithm over adjacency.
func stronglyConnectedComponents(nodes []string, adjacency map[string][]string) (map[string]int, [][]string) {
	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexByNode := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	componentOf := make(map[string]int, len(nodes))
	components := make([][]string, 0)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indexByNode[v] = index
		lowLink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, seen := indexByNode[w]; !seen {
				strongConnect(w)
				lowLink[v] = min(lowLink[v], lowLink[w])
			} else if onStack[w] {
				lowLink[v] = min(lowLink[v], indexByNode[w])
			}
		}

		if lowLink[v] != indexByNode[v] {
			return
		}

		var component []string
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		sort.Strings(component)
		id := len(components)
		components = append(components, component)
		for _, n := range component {
			componentOf[n] = id
		}
	}

	for _, node := range nodes {
		if _, seen := indexByNode[node]; !seen {
			strongConnect(node)
		}
	}
	return componentOf, components
}
