package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"cmakefileapi/internal/history"
)

func (a *App) recordHistory(snap *Snapshot) {
	if a.history == nil {
		return
	}
	buildDir := a.historyKey()
	for _, g := range snap.Graphs {
		s := history.FromGraph(g, filepath.Base(snap.IndexPath), snap.CMake.Version.String, snap.LoadedAt)
		if err := a.history.Save(buildDir, s); err != nil {
			slog.Warn("failed to record load history", "configuration", g.Configuration(), "error", err)
		}
	}
}

// historyKey identifies the build tree in the history database. Relative
// build directories are made absolute so that runs from different working
// directories share their records.
func (a *App) historyKey() string {
	if abs, err := filepath.Abs(a.Config.BuildDir); err == nil {
		return abs
	}
	return a.Config.BuildDir
}

// Trend reports how the graph of configuration changed across recorded
// loads. An empty configuration selects the first loaded one.
func (a *App) Trend(configuration string) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, fmt.Errorf("load history is disabled; set history.path")
	}
	if configuration == "" {
		g, err := a.Graph("")
		if err != nil {
			return history.TrendReport{}, err
		}
		configuration = g.Configuration()
	}

	snapshots, err := a.history.Load(a.historyKey(), configuration, time.Time{})
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.BuildTrendReport(a.historyKey(), snapshots, a.Config.History.Window)
}

func FormatTrendReport(report history.TrendReport) string {
	var b strings.Builder

	b.WriteString("Load History\n")
	b.WriteString("============\n")
	fmt.Fprintf(&b, "Configuration: %s (%d loads, window %s)\n\n", configurationLabel(report.Configuration), report.LoadCount, report.Window)
	fmt.Fprintf(&b, "%-20s %8s %8s %7s %6s %10s\n", "Loaded", "Targets", "Edges", "Cycles", "Depth", "AvgCycles")
	for _, p := range report.Points {
		fmt.Fprintf(&b, "%-20s %8s %8s %7s %6d %10.2f\n",
			p.Timestamp.Format("2006-01-02 15:04:05"),
			withDelta(p.TargetCount, p.DeltaTargets),
			withDelta(p.EdgeCount, p.DeltaEdges),
			withDelta(p.CycleCount, p.DeltaCycles),
			p.MaxDepth,
			p.AvgCycles,
		)
	}
	return b.String()
}

func withDelta(value, delta int) string {
	if delta == 0 {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("%d(%+d)", value, delta)
}
