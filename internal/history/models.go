package history

import "time"

const SchemaVersion = 1

// Snapshot is the summary of one configuration's target graph at one load.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Configuration string    `json:"configuration"`
	IndexFile     string    `json:"index_file"`
	CMakeVersion  string    `json:"cmake_version"`
	TargetCount   int       `json:"target_count"`
	EdgeCount     int       `json:"edge_count"`
	CycleCount    int       `json:"cycle_count"`
	MaxDepth      int       `json:"max_depth"`
	AvgFanIn      float64   `json:"avg_fan_in"`
	AvgFanOut     float64   `json:"avg_fan_out"`
	MaxFanIn      int       `json:"max_fan_in"`
	MaxFanOut     int       `json:"max_fan_out"`
}

type TrendPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	CMakeVersion    string    `json:"cmake_version"`
	TargetCount     int       `json:"target_count"`
	EdgeCount       int       `json:"edge_count"`
	CycleCount      int       `json:"cycle_count"`
	MaxDepth        int       `json:"max_depth"`
	AvgFanIn        float64   `json:"avg_fan_in"`
	AvgFanOut       float64   `json:"avg_fan_out"`
	DeltaTargets    int       `json:"delta_targets"`
	DeltaEdges      int       `json:"delta_edges"`
	DeltaCycles     int       `json:"delta_cycles"`
	DeltaMaxDepth   int       `json:"delta_max_depth"`
	DeltaAvgFanIn   float64   `json:"delta_avg_fan_in"`
	DeltaAvgFanOut  float64   `json:"delta_avg_fan_out"`
	TargetGrowthPct float64   `json:"target_growth_pct"`
	AvgCycles       float64   `json:"avg_cycles"`
	WindowHours     float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	BuildDir      string       `json:"build_dir"`
	Configuration string       `json:"configuration"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	LoadCount     int          `json:"load_count"`
	Points        []TrendPoint `json:"points"`
}
