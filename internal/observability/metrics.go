package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cmakefileapi_load_seconds",
		Help:    "Time spent loading and resolving one reply object.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	SatelliteFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmakefileapi_satellite_files_total",
		Help: "Total number of target and directory files decoded while resolving codemodel references.",
	})

	LoadErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cmakefileapi_load_errors_total",
		Help: "Total number of failed loads by error code.",
	}, []string{"code"})

	ReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmakefileapi_reloads_total",
		Help: "Total number of reloads triggered by a changed reply index.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmakefileapi_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	GraphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cmakefileapi_graph_nodes",
		Help: "Number of targets in the dependency graph of a configuration.",
	}, []string{"configuration"})

	GraphEdges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cmakefileapi_graph_edges",
		Help: "Number of dependency edges in the graph of a configuration.",
	}, []string{"configuration"})

	GraphCycles = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cmakefileapi_graph_cycles",
		Help: "Number of dependency cycles in the graph of a configuration.",
	}, []string{"configuration"})
)
