package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/derive"
	"ariadne/internal/engine/lang"
	"ariadne/internal/engine/query"
	"ariadne/internal/engine/resolver"
	"ariadne/internal/engine/semantic"
	"ariadne/internal/shared/observability"
)

// Analyzer runs the per-file pipeline: parse, capture, build the semantic
// index, derive the projections. It is safe for concurrent use; the query
// engine caches compiled queries behind its own lock.
type Analyzer struct {
	loader   *lang.Loader
	engine   *query.Engine
	detector *lang.Detector
	logger   *slog.Logger
}

func New(loader *lang.Loader, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		loader:   loader,
		engine:   query.NewEngine(loader),
		detector: lang.NewDetector(loader.Registry()),
		logger:   logger,
	}
}

func (a *Analyzer) Detector() *lang.Detector {
	return a.detector
}

// AnalyzeFile runs the full per-file pipeline over one source buffer.
// A duplicate export surfaces as a CodeDuplicateExport error with the
// analysis still attached, so callers can keep the index and report the
// defect.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, content []byte) (*resolver.FileAnalysis, error) {
	language := a.detector.Detect(path)
	if language == "" {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("unsupported file type: %s", path))
	}

	_, span := observability.Tracer.Start(ctx, "analyzer.AnalyzeFile", observability.FileAttributes(path, language))
	defer span.End()

	started := time.Now()
	captures, err := a.engine.Run(path, language, content)
	if err != nil {
		observability.FilesAnalyzedTotal.WithLabelValues(language, "parse_error").Inc()
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	observability.ParsingDuration.WithLabelValues(language).Observe(time.Since(started).Seconds())

	indexStarted := time.Now()
	idx := semantic.BuildIndex(path, language, captures.Scopes, captures.RootScopeID, captures.Captures)

	dd, err := derive.Build(idx)
	observability.IndexingDuration.WithLabelValues(language).Observe(time.Since(indexStarted).Seconds())
	if err != nil {
		observability.FilesAnalyzedTotal.WithLabelValues(language, "derive_error").Inc()
		return &resolver.FileAnalysis{Index: idx}, errors.AddContext(err, errors.CtxPath, path)
	}

	if extra := resolver.ApplyRustAsyncRules(idx, dd); len(extra) > 0 {
		for key, typeName := range extra {
			if _, exists := dd.TypeBindings[key]; !exists {
				dd.TypeBindings[key] = typeName
			}
		}
	}

	observability.FilesAnalyzedTotal.WithLabelValues(language, "ok").Inc()
	return &resolver.FileAnalysis{Index: idx, Derived: dd}, nil
}
