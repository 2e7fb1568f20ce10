package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// ScanDirectories walks the given roots and returns every supported source
// file, minus glob-excluded directories and files. Results are sorted so
// repeated scans of the same tree are stable.
func (a *Analyzer) ScanDirectories(roots []string, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if !a.detector.IsSupported(path) {
				return nil
			}
			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// ScanAndAnalyze is the one-shot entry point: discover files under the
// roots, then run the project analysis over them.
func (a *Analyzer) ScanAndAnalyze(ctx context.Context, roots []string, excludeDirs, excludeFiles []string) (*ProjectAnalysis, error) {
	files, err := a.ScanDirectories(roots, excludeDirs, excludeFiles)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeProject(ctx, files)
}
