package app

import (
	"fmt"
	"strings"

	"cmakefileapi/internal/graph"
)

// TraceChain describes the shortest dependency chain between two targets
// of the first loaded configuration.
func (a *App) TraceChain(from, to string) (string, error) {
	g, err := a.Graph("")
	if err != nil {
		return "", err
	}
	if _, ok := g.Lookup(from); !ok {
		return "", fmt.Errorf("source target not found: %s", from)
	}
	if _, ok := g.Lookup(to); !ok {
		return "", fmt.Errorf("destination target not found: %s", to)
	}

	chain, ok := g.FindChain(from, to)
	if !ok {
		return "", fmt.Errorf("no dependency chain found from %s to %s", from, to)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dependency chain (%s): %s -> %s\n\n", g.Configuration(), from, to)
	for i, target := range chain {
		b.WriteString(target)
		b.WriteString("\n")
		if i < len(chain)-1 {
			b.WriteString("  -> ")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// AnalyzeImpact reports the dependents of a target in the first loaded
// configuration.
func (a *App) AnalyzeImpact(target string) (graph.ImpactReport, error) {
	g, err := a.Graph("")
	if err != nil {
		return graph.ImpactReport{}, err
	}
	return g.AnalyzeImpact(target)
}

func FormatImpactReport(report graph.ImpactReport) string {
	var b strings.Builder

	b.WriteString("Impact Analysis\n")
	b.WriteString("===============\n")
	fmt.Fprintf(&b, "Target: %s", report.Target)
	if report.Type != "" {
		fmt.Fprintf(&b, " (%s)", strings.ToLower(report.Type))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Direct dependents (%d)\n", len(report.DirectDependents))
	for _, t := range report.DirectDependents {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Transitive impact (%d)\n", len(report.TransitiveDependents))
	for _, t := range report.TransitiveDependents {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return b.String()
}
