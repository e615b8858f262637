// Package app wires the reply reader, target graphs, renderers and watcher
// into the cmakefileapi command.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cmakefileapi/internal/config"
	"cmakefileapi/internal/graph"
	"cmakefileapi/internal/history"
	"cmakefileapi/internal/observability"
	"cmakefileapi/pkg/errors"
	"cmakefileapi/pkg/index"
	"cmakefileapi/pkg/objects"
	"cmakefileapi/pkg/query"
	"cmakefileapi/pkg/reply"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Snapshot is the result of one successful load.
type Snapshot struct {
	IndexPath  string
	CMake      index.CMake
	CodeModel  *objects.CodeModel
	Cache      *objects.Cache
	Toolchains *objects.Toolchains
	Graphs     []*graph.Graph
	LoadedAt   time.Time
	Duration   time.Duration
}

type App struct {
	Config *config.Config

	mu       sync.RWMutex
	snapshot *Snapshot
	history  *history.Store

	reloadMu sync.RWMutex
	onReload func(ReloadEvent)
}

// New creates the application. The load history is opened when
// History.Path is configured; Close releases it.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	a := &App{Config: cfg}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
	}
	return a, nil
}

func (a *App) Close() error {
	return a.history.Close()
}

// WriteQuery writes the configured query so that the next cmake run
// produces a reply. A configured client gets a stateful query; otherwise a
// shared stateless query is written.
func (a *App) WriteQuery() error {
	w := query.NewWriter()
	for _, k := range a.Config.QueryKinds() {
		w.RequestObject(k)
	}

	if a.Config.Query.Client == "" {
		return w.WriteStateless(a.Config.BuildDir)
	}
	w.SetClient(a.Config.Query.Client, map[string]string{"tool": "cmakefileapi"})
	return w.WriteStateful(a.Config.BuildDir)
}

// Load reads the reply directory, resolves the codemodel and builds one
// graph per selected configuration. Cache and toolchains are loaded when
// listed; failing to load them is logged and does not fail the load.
func (a *App) Load(ctx context.Context) (*Snapshot, error) {
	_, span := observability.Tracer.Start(ctx, "app.Load",
		trace.WithAttributes(attribute.String("build_dir", a.Config.BuildDir)))
	defer span.End()

	start := time.Now()
	snap, err := a.load()
	if err != nil {
		code, _ := errors.CodeOf(err)
		if code == "" {
			code = "UNKNOWN"
		}
		observability.LoadErrorsTotal.WithLabelValues(string(code)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	snap.LoadedAt = start
	snap.Duration = time.Since(start)

	for _, g := range snap.Graphs {
		observability.GraphNodes.WithLabelValues(g.Configuration()).Set(float64(g.NodeCount()))
		observability.GraphEdges.WithLabelValues(g.Configuration()).Set(float64(g.EdgeCount()))
		observability.GraphCycles.WithLabelValues(g.Configuration()).Set(float64(len(g.DetectCycles())))
	}
	span.SetAttributes(attribute.Int("configurations", len(snap.Graphs)))

	a.mu.Lock()
	a.snapshot = snap
	a.mu.Unlock()

	a.recordHistory(snap)

	slog.Debug("reply loaded", "index", snap.IndexPath, "configurations", len(snap.Graphs), "duration", snap.Duration)
	return snap, nil
}

func (a *App) load() (*Snapshot, error) {
	var opts []reply.Option
	if a.Config.Reader.LenientObjects {
		opts = append(opts, reply.WithLenientObjects())
	}
	r, err := reply.NewReader(a.Config.BuildDir, opts...)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		IndexPath: r.IndexPath(),
		CMake:     r.Index().CMake,
	}

	cm, err := timed(objects.KindCodeModel, func() (*objects.CodeModel, error) {
		return reply.ReadObject[objects.CodeModel](r)
	})
	if err != nil {
		return nil, err
	}
	snap.CodeModel = cm
	for _, c := range cm.Configurations {
		observability.SatelliteFilesTotal.Add(float64(len(c.Targets) + len(c.Directories)))
	}

	if r.HasObject(objects.KindCache) {
		snap.Cache, err = timed(objects.KindCache, func() (*objects.Cache, error) {
			return reply.ReadObject[objects.Cache](r)
		})
		if err != nil {
			slog.Warn("failed to load cache", "error", err)
		}
	}
	if r.HasObject(objects.KindToolchains) {
		snap.Toolchains, err = timed(objects.KindToolchains, func() (*objects.Toolchains, error) {
			return reply.ReadObject[objects.Toolchains](r)
		})
		if err != nil {
			slog.Warn("failed to load toolchains", "error", err)
		}
	}

	for i := range cm.Configurations {
		cfg := &cm.Configurations[i]
		if !a.Config.WantsConfiguration(cfg.Name) {
			continue
		}
		g, err := graph.Build(cfg, a.Config.Filter.ExcludeTargets)
		if err != nil {
			return nil, err
		}
		snap.Graphs = append(snap.Graphs, g)
	}
	return snap, nil
}

func timed[T any](kind objects.Kind, load func() (*T, error)) (*T, error) {
	start := time.Now()
	obj, err := load()
	observability.LoadDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	return obj, err
}

// Snapshot returns the most recent successful load, or nil.
func (a *App) Snapshot() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Graphs returns the graphs of the most recent load in configuration order.
func (a *App) Graphs() []*graph.Graph {
	snap := a.Snapshot()
	if snap == nil {
		return nil
	}
	return snap.Graphs
}

// Graph returns the graph of the named configuration. An empty name selects
// the first loaded configuration.
func (a *App) Graph(configuration string) (*graph.Graph, error) {
	graphs := a.Graphs()
	if len(graphs) == 0 {
		return nil, fmt.Errorf("no configuration loaded")
	}
	if configuration == "" {
		return graphs[0], nil
	}
	for _, g := range graphs {
		if g.Configuration() == configuration {
			return g, nil
		}
	}
	return nil, fmt.Errorf("configuration not loaded: %s", configuration)
}
