// Package cliapp implements the cmakefileapi command line.
package cliapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreapp "cmakefileapi/internal/app"
	"cmakefileapi/internal/config"
	"cmakefileapi/internal/observability"
	apierrors "cmakefileapi/pkg/errors"
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "cmakefileapi v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.verbose)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	if opts.query {
		if err := app.WriteQuery(); err != nil {
			slog.Error("failed to write query", "error", err)
			return 1
		}
		fmt.Fprintf(stdout, "Query written to %s; run cmake to produce a reply.\n", cfg.BuildDir)
		return 0
	}

	if _, err := app.Load(ctx); err != nil {
		reportLoadError(stderr, err)
		return 1
	}

	if stop, code := runSingleCommand(app, opts, stdout, stderr); stop {
		return code
	}

	if err := app.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	app.PrintSummary(stdout)

	if opts.once {
		return 0
	}

	server, err := app.ServeMetrics()
	if err != nil {
		slog.Error("failed to start metrics server", "error", err)
		return 1
	}
	if server != nil {
		slog.Info("serving metrics", "address", server.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	app.SetReloadHandler(func(ev coreapp.ReloadEvent) {
		if ev.Err == nil {
			app.PrintSummary(stdout)
		}
	})
	if _, err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return 0
}

func runSingleCommand(app *coreapp.App, opts cliOptions, stdout, stderr io.Writer) (bool, int) {
	if opts.trace {
		out, err := app.TraceChain(opts.args[0], opts.args[1])
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return true, 1
		}
		fmt.Fprintln(stdout, out)
		return true, 0
	}

	if opts.impact != "" {
		report, err := app.AnalyzeImpact(opts.impact)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return true, 1
		}
		fmt.Fprint(stdout, coreapp.FormatImpactReport(report))
		return true, 0
	}

	if opts.trend {
		for _, g := range app.Graphs() {
			report, err := app.Trend(g.Configuration())
			if err != nil {
				fmt.Fprintln(stderr, err.Error())
				return true, 1
			}
			fmt.Fprintln(stdout, coreapp.FormatTrendReport(report))
		}
		return true, 0
	}

	return false, 0
}

func reportLoadError(stderr io.Writer, err error) {
	slog.Error("failed to load reply", "error", err)
	if apierrors.IsCode(err, apierrors.CodeProtocolUnavailable) {
		fmt.Fprintln(stderr, "no reply found: run cmakefileapi -query, then run cmake on the build directory")
	}
}

// loadConfig falls back to the built-in defaults when the default config
// file does not exist. An explicitly given path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.query && (opts.trace || opts.impact != "" || opts.trend) {
		return fmt.Errorf("--query cannot be combined with --trace, --impact or --trend")
	}
	if opts.trace && opts.impact != "" {
		return fmt.Errorf("--trace and --impact cannot be used together")
	}

	if opts.buildDir != "" {
		cfg.BuildDir = opts.buildDir
	}

	if opts.trace {
		if len(opts.args) != 2 {
			return fmt.Errorf("trace mode requires two target arguments: cmakefileapi --trace <from> <to>")
		}
		return nil
	}

	if len(opts.args) > 0 {
		if opts.buildDir != "" {
			return fmt.Errorf("build directory given twice: --build %s and %s", opts.buildDir, opts.args[0])
		}
		cfg.BuildDir = opts.args[0]
	}
	return nil
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
