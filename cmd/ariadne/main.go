package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"ariadne/internal/core/config"
	"ariadne/internal/shared/observability"
	"ariadne/internal/ui/cli"
	"ariadne/internal/ui/report"
)

var (
	configPath = flag.String("config", "./ariadne.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run a single analysis and exit")
	jsonOut    = flag.String("json", "", "Write the analysis as JSON to the given path")
	lookup     = flag.String("lookup", "", "Look a symbol up in the store and exit (no analysis)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.3.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("ariadne v%s\n", VERSION)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	runID := uuid.NewString()
	logger := newLogger(cfg, *verbose).With("run_id", runID)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		logger.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	app, err := NewApp(cfg, runID, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *lookup != "" {
		out, err := app.Lookup(*lookup)
		if err != nil {
			logger.Error("lookup failed", "error", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	var obsServer *cli.ObservabilityServer
	if cfg.Observability.Listen != "" {
		obsServer = cli.NewObservabilityServer(cfg.Observability.Listen, app.Health, logger)
		if err := obsServer.Start(ctx); err != nil {
			logger.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = obsServer.Stop(shutdownCtx)
		}()
	}

	pa, err := app.RunOnce(ctx)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(report.Render(pa))

	if *jsonOut != "" {
		if err := app.WriteJSON(*jsonOut, pa); err != nil {
			logger.Error("failed to write JSON output", "error", err)
			os.Exit(1)
		}
	}

	if *once || !cfg.Watch.Enabled {
		if len(pa.Errors) > 0 {
			os.Exit(1)
		}
		return
	}

	if err := app.StartWatcher(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	logger.Info("watching for changes", "paths", cfg.Paths)

	<-ctx.Done()
	logger.Info("shutting down")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		// Fall back to defaults only when the default config file simply
		// does not exist; an explicit path must load.
		if os.IsNotExist(err) && path == "./ariadne.toml" {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
