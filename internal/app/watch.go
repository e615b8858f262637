package app

import (
	"context"
	"log/slog"
	"time"

	"cmakefileapi/internal/observability"
	"cmakefileapi/internal/watcher"
	"cmakefileapi/pkg/reply"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ReloadEvent describes one reload triggered by the watcher. Err is set
// when the reload failed; the previous snapshot then stays current.
type ReloadEvent struct {
	ID       string
	Paths    []string
	Snapshot *Snapshot
	Err      error
}

func (a *App) SetReloadHandler(handler func(ReloadEvent)) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	a.onReload = handler
}

func (a *App) emitReload(ev ReloadEvent) {
	a.reloadMu.RLock()
	handler := a.onReload
	a.reloadMu.RUnlock()
	if handler != nil {
		handler(ev)
	}
}

// StartWatcher reloads whenever cmake writes a new reply index, at most
// Watch.MaxReloadsPerSecond times per second. The watcher stops when ctx is
// done.
func (a *App) StartWatcher(ctx context.Context) (*watcher.Watcher, error) {
	limiter := rate.NewLimiter(rate.Limit(a.Config.Watch.MaxReloadsPerSecond), 1)

	w, err := watcher.NewWatcher(reply.Dir(a.Config.BuildDir), a.Config.Watch.Debounce, func(paths []string) {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		a.reload(ctx, paths)
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		_ = w.Close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		_ = w.Close()
	}()

	slog.Info("watching reply directory", "dir", reply.Dir(a.Config.BuildDir), "watching", w.Watched())
	return w, nil
}

func (a *App) reload(ctx context.Context, paths []string) {
	id := uuid.New().String()
	observability.ReloadsTotal.Inc()
	slog.Info("reply index changed", "reload_id", id, "paths", paths)

	start := time.Now()
	snap, err := a.Load(ctx)
	if err != nil {
		slog.Error("reload failed", "reload_id", id, "error", err)
		a.emitReload(ReloadEvent{ID: id, Paths: paths, Err: err})
		return
	}
	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "reload_id", id, "error", err)
	}
	slog.Info("reload complete", "reload_id", id, "configurations", len(snap.Graphs), "duration", time.Since(start))
	a.emitReload(ReloadEvent{ID: id, Paths: paths, Snapshot: snap})
}

// ServeMetrics starts the Prometheus endpoint on the configured address.
// It returns nil when no address is configured.
func (a *App) ServeMetrics() (*observability.Server, error) {
	addr := a.Config.Telemetry.MetricsAddress
	if addr == "" {
		return nil, nil
	}
	s := observability.NewServer(addr)
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}
