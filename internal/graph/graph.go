// Package graph builds the target dependency graph of one build
// configuration and answers reachability questions over it.
package graph

import (
	"fmt"
	"sort"

	"cmakefileapi/pkg/objects"

	"github.com/gobwas/glob"
)

// Node is one target of a configuration. Target names are unique within a
// configuration and are used as node keys.
type Node struct {
	Name      string
	ID        string
	Type      string
	Directory string
	Project   string
	Artifacts []string
}

// Edge points from a target to a target it depends on.
type Edge struct {
	From string
	To   string
}

type Graph struct {
	configuration string
	nodes         map[string]*Node
	byID          map[string]string // target id -> name

	deps       map[string]map[string]bool // from -> to
	dependents map[string]map[string]bool // to -> from
}

// Build creates the graph of a resolved configuration. Targets whose names
// match one of the exclude glob patterns are left out along with their
// edges. Dependencies on targets that are not part of the graph are dropped.
func Build(cfg *objects.Configuration, exclude []string) (*Graph, error) {
	matchers := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}

	g := &Graph{
		configuration: cfg.Name,
		nodes:         make(map[string]*Node, len(cfg.TargetRefs)),
		byID:          make(map[string]string, len(cfg.TargetRefs)),
		deps:          make(map[string]map[string]bool),
		dependents:    make(map[string]map[string]bool),
	}

	for i, ref := range cfg.TargetRefs {
		if excluded(ref.Name, matchers) {
			continue
		}
		node := &Node{Name: ref.Name, ID: ref.ID}
		if d, ok := cfg.Directory(ref.DirectoryIndex); ok {
			node.Directory = d.Paths.Build
		}
		if ref.ProjectIndex >= 0 && ref.ProjectIndex < len(cfg.Projects) {
			node.Project = cfg.Projects[ref.ProjectIndex].Name
		}
		if t, ok := cfg.Target(i); ok {
			node.Type = t.Type
			for _, a := range t.Artifacts {
				node.Artifacts = append(node.Artifacts, a.Path)
			}
		}
		g.nodes[node.Name] = node
		g.byID[node.ID] = node.Name
	}

	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		from, ok := g.byID[t.ID]
		if !ok {
			continue
		}
		for _, dep := range t.Dependencies {
			to, ok := g.byID[dep.ID]
			if !ok {
				continue
			}
			g.addEdge(from, to)
		}
	}

	return g, nil
}

func excluded(name string, matchers []glob.Glob) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

func (g *Graph) addEdge(from, to string) {
	if g.deps[from] == nil {
		g.deps[from] = make(map[string]bool)
	}
	g.deps[from][to] = true
	if g.dependents[to] == nil {
		g.dependents[to] = make(map[string]bool)
	}
	g.dependents[to][from] = true
}

// Configuration returns the name of the configuration the graph was built
// from.
func (g *Graph) Configuration() string {
	return g.configuration
}

// Lookup finds a node by target name or id.
func (g *Graph) Lookup(nameOrID string) (*Node, bool) {
	if n, ok := g.nodes[nameOrID]; ok {
		return n, true
	}
	if name, ok := g.byID[nameOrID]; ok {
		return g.nodes[name], true
	}
	return nil, false
}

// Nodes returns every node sorted by name.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Edges returns every edge sorted by source then destination.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for from, tos := range g.deps {
		for to := range tos {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From == out[j].From {
			return out[i].To < out[j].To
		}
		return out[i].From < out[j].From
	})
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int {
	n := 0
	for _, tos := range g.deps {
		n += len(tos)
	}
	return n
}

// DependenciesOf returns the direct dependencies of a node, sorted.
func (g *Graph) DependenciesOf(name string) []string {
	return sortedKeys(g.deps[name])
}

// DependentsOf returns the nodes that depend directly on name, sorted.
func (g *Graph) DependentsOf(name string) []string {
	return sortedKeys(g.dependents[name])
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
