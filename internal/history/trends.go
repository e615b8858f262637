package history

import (
	"fmt"
	"math"
	"time"

	"cmakefileapi/internal/graph"
)

// FromGraph summarizes g as a snapshot taken at ts.
func FromGraph(g *graph.Graph, indexFile, cmakeVersion string, ts time.Time) Snapshot {
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		Timestamp:     ts.UTC(),
		Configuration: g.Configuration(),
		IndexFile:     indexFile,
		CMakeVersion:  cmakeVersion,
		TargetCount:   g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
		CycleCount:    len(g.DetectCycles()),
	}

	metrics := g.ComputeMetrics()
	if len(metrics) == 0 {
		return snap
	}
	var fanIn, fanOut int
	for _, m := range metrics {
		fanIn += m.FanIn
		fanOut += m.FanOut
		snap.MaxDepth = max(snap.MaxDepth, m.Depth)
		snap.MaxFanIn = max(snap.MaxFanIn, m.FanIn)
		snap.MaxFanOut = max(snap.MaxFanOut, m.FanOut)
	}
	snap.AvgFanIn = round2(float64(fanIn) / float64(len(metrics)))
	snap.AvgFanOut = round2(float64(fanOut) / float64(len(metrics)))
	return snap
}

// BuildTrendReport turns ordered snapshots of one configuration into points
// carrying deltas to the previous load and a moving cycle average over
// window.
func BuildTrendReport(buildDir string, snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:    current.Timestamp,
			CMakeVersion: current.CMakeVersion,
			TargetCount:  current.TargetCount,
			EdgeCount:    current.EdgeCount,
			CycleCount:   current.CycleCount,
			MaxDepth:     current.MaxDepth,
			AvgFanIn:     current.AvgFanIn,
			AvgFanOut:    current.AvgFanOut,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaTargets = current.TargetCount - prev.TargetCount
			point.DeltaEdges = current.EdgeCount - prev.EdgeCount
			point.DeltaCycles = current.CycleCount - prev.CycleCount
			point.DeltaMaxDepth = current.MaxDepth - prev.MaxDepth
			point.DeltaAvgFanIn = round2(current.AvgFanIn - prev.AvgFanIn)
			point.DeltaAvgFanOut = round2(current.AvgFanOut - prev.AvgFanOut)
			if prev.TargetCount > 0 {
				point.TargetGrowthPct = round2(float64(point.DeltaTargets) / float64(prev.TargetCount) * 100)
			}
		}

		point.AvgCycles = round2(movingAverageCycles(snapshots, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		BuildDir:      buildDir,
		Configuration: snapshots[0].Configuration,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		LoadCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverageCycles(snapshots []Snapshot, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(snapshots[index].CycleCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	total, count := 0, 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		total += snapshots[i].CycleCount
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
