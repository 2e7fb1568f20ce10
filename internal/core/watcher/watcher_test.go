package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_RejectsNilCallback(t *testing.T) {
	w, err := New(Options{Debounce: 100 * time.Millisecond}, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	opts := Options{
		Debounce:     100 * time.Millisecond,
		ExcludeDirs:  []string{"node_modules"},
		ExcludeFiles: []string{"*.min.js"},
		IsSupported: func(path string) bool {
			return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".py")
		},
	}
	w, err := New(opts, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "index.ts")
	os.WriteFile(testFile, []byte("export const a = 1"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for file change event")
	}

	// Unsupported extensions never reach the callback.
	readme := filepath.Join(tmpDir, "README.md")
	os.WriteFile(readme, []byte("# notes"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "README.md" {
				t.Error("unsupported file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory is picked up recursively.
	subdir := filepath.Join(tmpDir, "pkg")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "util.py")
	if err := os.WriteFile(subFile, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := New(Options{Debounce: 100 * time.Millisecond}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.rs")
	newPath := filepath.Join(tmpDir, "new.rs")
	if err := os.WriteFile(oldPath, []byte("fn main() {}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_ExcludeFilters(t *testing.T) {
	w, err := New(Options{
		Debounce:     10 * time.Millisecond,
		ExcludeDirs:  []string{".git", "node_modules"},
		ExcludeFiles: []string{"*.gen.ts"},
		IsSupported: func(path string) bool {
			return strings.HasSuffix(path, ".ts")
		},
	}, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.shouldExcludeDir("a/b/node_modules") {
		t.Error("expected node_modules to be excluded")
	}
	if w.shouldExcludeDir("a/b/src") {
		t.Error("expected src to be watched")
	}
	if !w.shouldExcludeFile("src/api.gen.ts") {
		t.Error("expected generated file to be excluded")
	}
	if !w.shouldExcludeFile("src/main.py") {
		t.Error("expected unsupported extension to be excluded")
	}
	if w.shouldExcludeFile("src/main.ts") {
		t.Error("expected supported file to be included")
	}
}
