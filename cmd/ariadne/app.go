package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"ariadne/internal/core/config"
	"ariadne/internal/core/watcher"
	"ariadne/internal/data/symbolstore"
	"ariadne/internal/engine/analyzer"
	"ariadne/internal/engine/lang"
	"ariadne/internal/engine/semantic"
	"ariadne/internal/ui/cli"
	"ariadne/internal/ui/report"
)

// App wires the analyzer, the optional symbol store, and the watcher.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	runID    string
	analyzer *analyzer.Analyzer
	store    *symbolstore.Store
	watcher  *watcher.Watcher

	mu      sync.Mutex
	last    *analyzer.ProjectAnalysis
	lastRun time.Time
}

func NewApp(cfg *config.Config, runID string, logger *slog.Logger) (*App, error) {
	registry := lang.BuildRegistry(cfg.LanguageOverrides())
	loader, err := lang.NewLoader(registry)
	if err != nil {
		return nil, fmt.Errorf("load grammars: %w", err)
	}

	app := &App{
		cfg:      cfg,
		logger:   logger,
		runID:    runID,
		analyzer: analyzer.New(loader, logger),
	}

	if cfg.Store.Enabled {
		store, err := symbolstore.Open(cfg.Store.Path, cfg.Store.ProjectKey)
		if err != nil {
			return nil, fmt.Errorf("open symbol store: %w", err)
		}
		app.store = store
	}

	return app, nil
}

func (a *App) Close() error {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// RunOnce scans the configured roots, analyzes them, persists results when
// the store is enabled, and returns the analysis.
func (a *App) RunOnce(ctx context.Context) (*analyzer.ProjectAnalysis, error) {
	pa, err := a.analyzer.ScanAndAnalyze(ctx, a.cfg.Paths, a.cfg.Exclude.Dirs, a.cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.last = pa
	a.lastRun = time.Now()
	a.mu.Unlock()

	if a.store != nil {
		indexes := make([]*semantic.SemanticIndex, 0, len(pa.Project.Files()))
		for _, fa := range pa.Project.Files() {
			indexes = append(indexes, fa.Index)
		}
		if err := a.store.SyncProject(indexes); err != nil {
			a.logger.Error("symbol store sync failed", "error", err)
		}
	}

	return pa, nil
}

// StartWatcher begins watch mode: changes under the configured roots
// trigger a full re-analysis, and the refreshed summary is printed.
func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.New(watcher.Options{
		Debounce:       a.cfg.Watch.Debounce,
		MaxFlushPerSec: a.cfg.Watch.MaxEventsPerSec,
		ExcludeDirs:    a.cfg.Exclude.Dirs,
		ExcludeFiles:   a.cfg.Exclude.Files,
		IsSupported:    a.analyzer.Detector().IsSupported,
	}, a.logger, func(paths []string) {
		a.logger.Info("changes detected", "files", len(paths))
		pa, err := a.RunOnce(ctx)
		if err != nil {
			a.logger.Error("re-analysis failed", "error", err)
			return
		}
		fmt.Println(report.Render(pa))
	})
	if err != nil {
		return err
	}
	if err := w.Watch(a.cfg.Paths); err != nil {
		_ = w.Close()
		return err
	}
	a.watcher = w
	return nil
}

// Lookup lists stored symbols by name from a previous run, without
// re-analyzing anything.
func (a *App) Lookup(symbol string) (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("symbol store is disabled; enable [store] in the config")
	}
	recs := a.store.Lookup(symbol)
	if len(recs) == 0 {
		return fmt.Sprintf("no stored symbols named %q\n", symbol), nil
	}
	var b strings.Builder
	for _, rec := range recs {
		fmt.Fprintf(&b, "%s\t%s\t%s:%d", rec.Name, rec.Kind, rec.FilePath, rec.Line)
		if rec.Owner != "" {
			fmt.Fprintf(&b, "\towner=%s", rec.Owner)
		}
		if rec.TypeHint != "" {
			fmt.Fprintf(&b, "\ttype=%s", rec.TypeHint)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (a *App) Health(ctx context.Context) cli.Health {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := cli.Health{Status: "up", RunID: a.runID, LastRun: a.lastRun}
	if a.last != nil {
		h.Files = len(a.last.Project.Files())
		h.FileErrors = len(a.last.Errors)
	}
	return h
}

// jsonFile is the per-file shape of the exported analysis document.
type jsonFile struct {
	Index      *semantic.SemanticIndex `json:"index"`
	Unresolved []semantic.Reference    `json:"unresolved,omitempty"`
}

type jsonDocument struct {
	RunID string              `json:"run_id"`
	Files map[string]jsonFile `json:"files"`
}

// WriteJSON exports the last analysis as one JSON document.
func (a *App) WriteJSON(path string, pa *analyzer.ProjectAnalysis) error {
	doc := jsonDocument{RunID: a.runID, Files: make(map[string]jsonFile)}
	for p, fa := range pa.Project.Files() {
		doc.Files[p] = jsonFile{Index: fa.Index}
	}
	for _, u := range pa.Unresolved {
		f := doc.Files[u.FilePath]
		f.Unresolved = append(f.Unresolved, u.Reference)
		doc.Files[u.FilePath] = f
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
