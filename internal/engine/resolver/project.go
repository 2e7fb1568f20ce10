package resolver

import (
	"ariadne/internal/engine/derive"
	"ariadne/internal/engine/semantic"
)

// FileAnalysis pairs one file's semantic index with its derived projections.
type FileAnalysis struct {
	Index   *semantic.SemanticIndex
	Derived *derive.DerivedData
}

// Project is the cross-file view the resolver works over: every analyzed
// file keyed by path. It is assembled single-threaded after the per-file
// passes finish and is read-only from then on.
type Project struct {
	files map[string]*FileAnalysis
}

func NewProject() *Project {
	return &Project{files: make(map[string]*FileAnalysis)}
}

func (p *Project) Add(fa *FileAnalysis) {
	if fa == nil || fa.Index == nil {
		return
	}
	p.files[fa.Index.FilePath] = fa
}

func (p *Project) File(path string) (*FileAnalysis, bool) {
	fa, ok := p.files[path]
	return fa, ok
}

func (p *Project) Files() map[string]*FileAnalysis {
	return p.files
}

// HasFile reports whether path was analyzed. Import resolution probes
// candidate paths against this set instead of the filesystem.
func (p *Project) HasFile(path string) bool {
	_, ok := p.files[path]
	return ok
}
