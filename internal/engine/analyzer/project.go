package analyzer

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/resolver"
	"ariadne/internal/shared/observability"
)

// FileError records one file that failed analysis. Duplicate-export errors
// keep their code, so callers can distinguish pipeline defects from
// unreadable input.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) IsDuplicateExport() bool {
	return errors.IsCode(e.Err, errors.CodeDuplicateExport)
}

// ProjectAnalysis is the cross-file result: every per-file analysis, the
// type hierarchy over them, resolution outcomes, and the failures.
type ProjectAnalysis struct {
	Project    *resolver.Project
	Hierarchy  *resolver.TypeHierarchyGraph
	Resolved   map[string][]resolver.Resolution
	Unresolved []resolver.UnresolvedReference
	Errors     []FileError
}

// DefinitionCount totals top-level definitions across all analyzed files.
func (pa *ProjectAnalysis) DefinitionCount() int {
	n := 0
	for _, fa := range pa.Project.Files() {
		n += len(fa.Index.AllDefinitions())
	}
	return n
}

func (pa *ProjectAnalysis) ReferenceCount() int {
	n := 0
	for _, fa := range pa.Project.Files() {
		n += len(fa.Index.References)
	}
	return n
}

// AnalyzeProject fans the per-file pipeline out over a worker pool, waits
// for every file, then reduces single-threaded: project assembly, hierarchy
// construction, and reference resolution all see the complete file set.
func (a *Analyzer) AnalyzeProject(ctx context.Context, paths []string) (*ProjectAnalysis, error) {
	started := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("project").Observe(time.Since(started).Seconds())
	}()

	type outcome struct {
		path     string
		analysis *resolver.FileAnalysis
		err      error
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	outcomes := make(chan outcome, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes <- outcome{path: path, err: err}
					continue
				}
				content, err := os.ReadFile(path)
				if err != nil {
					outcomes <- outcome{path: path, err: err}
					continue
				}
				fa, err := a.AnalyzeFile(ctx, path, content)
				outcomes <- outcome{path: path, analysis: fa, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(outcomes)

	// Single-threaded reduce from here on.
	collected := make([]outcome, 0, len(paths))
	for o := range outcomes {
		collected = append(collected, o)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].path < collected[j].path })

	pa := &ProjectAnalysis{Project: resolver.NewProject()}
	for _, o := range collected {
		if o.err != nil {
			pa.Errors = append(pa.Errors, FileError{Path: o.path, Err: o.err})
			a.logger.Warn("file analysis failed", "path", o.path, "error", o.err)
			// Keep a partial index when derive failed; resolution simply
			// sees fewer projections for that file.
			if o.analysis != nil && o.analysis.Index != nil {
				pa.Project.Add(o.analysis)
			}
			continue
		}
		pa.Project.Add(o.analysis)
	}

	if err := ctx.Err(); err != nil {
		return pa, err
	}

	pa.Hierarchy = resolver.BuildHierarchy(pa.Project, a.logger)
	res := resolver.NewResolver(pa.Project, pa.Hierarchy, a.logger)
	pa.Resolved, pa.Unresolved = res.ResolveAll()

	observability.HierarchyTypes.Set(float64(pa.Hierarchy.Size()))
	observability.DefinitionsIndexed.Set(float64(pa.DefinitionCount()))
	observability.ReferencesIndexed.Set(float64(pa.ReferenceCount()))
	resolvedCount := 0
	for _, rs := range pa.Resolved {
		resolvedCount += len(rs)
	}
	observability.ResolutionOutcomes.WithLabelValues("resolved").Add(float64(resolvedCount))
	observability.ResolutionOutcomes.WithLabelValues("unresolved").Add(float64(len(pa.Unresolved)))

	return pa, nil
}
