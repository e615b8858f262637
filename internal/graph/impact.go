package graph

import (
	"errors"
	"fmt"
	"sort"
)

var ErrTargetNotFound = errors.New("target not found")

type TargetError struct {
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%v: %s", ErrTargetNotFound, e.Target)
}

func (e *TargetError) Unwrap() error {
	return ErrTargetNotFound
}

// ImpactReport lists the targets that must be rebuilt when Target changes.
type ImpactReport struct {
	Target               string
	Type                 string
	DirectDependents     []string
	TransitiveDependents []string
}

// AnalyzeImpact collects the direct and transitive dependents of a target
// given by name or id.
func (g *Graph) AnalyzeImpact(nameOrID string) (ImpactReport, error) {
	node, ok := g.Lookup(nameOrID)
	if !ok {
		return ImpactReport{}, &TargetError{Target: nameOrID}
	}

	report := ImpactReport{Target: node.Name, Type: node.Type}
	direct := g.DependentsOf(node.Name)
	report.DirectDependents = direct

	seen := map[string]bool{node.Name: true}
	for _, d := range direct {
		seen[d] = true
	}

	queue := append([]string(nil), direct...)
	transitive := make([]string, 0)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for next := range g.dependents[curr] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
			transitive = append(transitive, next)
		}
	}
	sort.Strings(transitive)
	report.TransitiveDependents = transitive

	return report, nil
}
