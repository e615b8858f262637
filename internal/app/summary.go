package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"cmakefileapi/internal/graph"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// PrintSummary writes a short report of the most recent load to w.
func (a *App) PrintSummary(w io.Writer) {
	snap := a.Snapshot()
	if snap == nil {
		fmt.Fprintln(w, mutedStyle.Render("nothing loaded"))
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%s cmake %s, %s\n", headingStyle.Render("Reply:"), snap.CMake.Version.String, generatorName(snap))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s loaded in %v", snap.IndexPath, snap.Duration)))

	if snap.Cache != nil {
		if e, ok := snap.Cache.Entry("CMAKE_BUILD_TYPE"); ok && e.Value != "" {
			fmt.Fprintf(w, "Build type: %s\n", e.Value)
		}
	}
	if snap.Toolchains != nil {
		for _, tc := range snap.Toolchains.Toolchains {
			fmt.Fprintf(w, "Toolchain %s: %s %s\n", tc.Language, tc.Compiler.ID, tc.Compiler.Version)
		}
	}

	for _, g := range snap.Graphs {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %d targets, %d dependencies\n",
			headingStyle.Render(fmt.Sprintf("[%s]", configurationLabel(g.Configuration()))), g.NodeCount(), g.EdgeCount())

		cycles := g.DetectCycles()
		if len(cycles) > 0 {
			fmt.Fprintln(w, cycleStyle.Render(fmt.Sprintf("FOUND %d DEPENDENCY CYCLES:", len(cycles))))
			for _, c := range cycles {
				fmt.Fprintf(w, "   %s\n", strings.Join(c, " -> "))
			}
		} else {
			fmt.Fprintln(w, successStyle.Render("No dependency cycles found."))
		}

		metrics := g.ComputeMetrics()
		if len(metrics) > 0 {
			topDepth := metricLeaders(metrics, func(m graph.TargetMetrics) int { return m.Depth }, 3, 1)
			topFanIn := metricLeaders(metrics, func(m graph.TargetMetrics) int { return m.FanIn }, 3, 1)
			topFanOut := metricLeaders(metrics, func(m graph.TargetMetrics) int { return m.FanOut }, 3, 1)
			if len(topDepth) > 0 {
				fmt.Fprintf(w, "   Deepest targets: %s\n", strings.Join(topDepth, ", "))
			}
			if len(topFanIn) > 0 {
				fmt.Fprintf(w, "   Highest fan-in: %s\n", strings.Join(topFanIn, ", "))
			}
			if len(topFanOut) > 0 {
				fmt.Fprintf(w, "   Highest fan-out: %s\n", strings.Join(topFanOut, ", "))
			}
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

func generatorName(snap *Snapshot) string {
	gen := snap.CMake.Generator
	if gen.Platform != "" {
		return fmt.Sprintf("%s (%s)", gen.Name, gen.Platform)
	}
	return gen.Name
}

func configurationLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

// metricLeaders returns up to limit targets ordered by value, skipping those
// below minValue. Ties are broken by name.
func metricLeaders(
	metrics map[string]graph.TargetMetrics,
	value func(graph.TargetMetrics) int,
	limit int,
	minValue int,
) []string {
	type leader struct {
		name  string
		value int
	}
	leaders := make([]leader, 0, len(metrics))
	for name, m := range metrics {
		if v := value(m); v >= minValue {
			leaders = append(leaders, leader{name: name, value: v})
		}
	}
	sort.Slice(leaders, func(i, j int) bool {
		if leaders[i].value == leaders[j].value {
			return leaders[i].name < leaders[j].name
		}
		return leaders[i].value > leaders[j].value
	})
	if len(leaders) > limit {
		leaders = leaders[:limit]
	}

	out := make([]string, 0, len(leaders))
	for _, l := range leaders {
		out = append(out, fmt.Sprintf("%s (%d)", l.name, l.value))
	}
	return out
}
