// Package symbolstore persists per-file semantic indexes in SQLite so a
// project can be queried across runs without re-parsing everything. Each
// file contributes flattened symbol rows for name lookup plus a JSON blob
// holding the full index for exact reload.
package symbolstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ariadne/internal/engine/semantic"
	"ariadne/internal/shared/observability"
)

const sqliteDriverName = "sqlite"

// SymbolRecord is one flattened definition row as returned by Lookup.
// Container children appear as their own rows with Owner set.
type SymbolRecord struct {
	Name         string
	Kind         semantic.SymbolKind
	FilePath     string
	Language     string
	Owner        string
	Availability semantic.Availability
	ExportedAs   string
	Line         int
	TypeHint     string
	Doc          string
}

type Store struct {
	db         *sql.DB
	projectKey string
	lookupStmt *sql.Stmt

	cacheMu     sync.RWMutex
	lookupCache map[string][]SymbolRecord
}

// Open opens (creating if needed) the store at path. projectKey partitions
// rows so one database file can hold several analyzed trees.
func Open(path, projectKey string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("symbol store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("symbol store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create symbol store directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite symbol store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite symbol store %q: %w", cleanPath, err)
	}

	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	key := strings.TrimSpace(projectKey)
	if key == "" {
		key = "default"
	}

	lookupStmt, err := db.Prepare(`SELECT
  name,
  kind,
  file_path,
  language,
  owner,
  availability,
  exported_as,
  line,
  type_hint,
  doc
FROM symbols
WHERE project_key = ? AND name = ?
ORDER BY file_path, line, name`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare lookup stmt: %w", err)
	}

	return &Store{
		db:          db,
		projectKey:  key,
		lookupStmt:  lookupStmt,
		lookupCache: make(map[string][]SymbolRecord),
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.lookupStmt != nil {
		_ = s.lookupStmt.Close()
	}
	return s.db.Close()
}

// DB exposes the underlying handle so callers can share the single WAL
// writer instead of opening a second connection to the same file.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) clearCache() {
	if s == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.lookupCache = make(map[string][]SymbolRecord)
}

// Batch groups several file writes into one transaction. Callers must
// finish with Commit or Rollback.
type Batch struct {
	tx    *sql.Tx
	store *Store
}

func (s *Store) BeginBatch() (*Batch, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	return &Batch{tx: tx, store: s}, nil
}

func (b *Batch) UpsertIndex(idx *semantic.SemanticIndex) error {
	if err := upsertIndexRows(b.tx, b.store.projectKey, idx); err != nil {
		return err
	}
	if err := upsertIndexBlob(b.tx, b.store.projectKey, idx); err != nil {
		return err
	}
	b.store.clearCache()
	return nil
}

func (b *Batch) DeleteFile(path string) error {
	if err := deletePath(b.tx, b.store.projectKey, path); err != nil {
		return err
	}
	if _, err := b.tx.Exec(`DELETE FROM index_blobs WHERE project_key = ? AND file_path = ?`, b.store.projectKey, path); err != nil {
		return fmt.Errorf("delete index blob: %w", err)
	}
	b.store.clearCache()
	return nil
}

func (b *Batch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (b *Batch) Rollback() error {
	return b.tx.Rollback()
}

// UpsertIndex replaces all rows for the index's file and stores the blob.
func (s *Store) UpsertIndex(idx *semantic.SemanticIndex) error {
	if s == nil || s.db == nil || idx == nil {
		return nil
	}
	start := time.Now()
	err := s.upsertIndex(idx)
	observability.StoreWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.StoreWriteErrorsTotal.Inc()
	}
	return err
}

func (s *Store) upsertIndex(idx *semantic.SemanticIndex) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	if err := upsertIndexRows(tx, s.projectKey, idx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := upsertIndexBlob(tx, s.projectKey, idx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	s.clearCache()
	return nil
}

func (s *Store) DeleteFile(path string) error {
	if s == nil || s.db == nil {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	if err := deletePath(tx, s.projectKey, path); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM index_blobs WHERE project_key = ? AND file_path = ?`, s.projectKey, path); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete index blob: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	s.clearCache()
	return nil
}

// SyncProject replaces the stored project with exactly the given indexes,
// pruning files no longer present.
func (s *Store) SyncProject(indexes []*semantic.SemanticIndex) error {
	if s == nil || s.db == nil {
		return nil
	}
	start := time.Now()
	err := s.syncProject(indexes)
	observability.StoreWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.StoreWriteErrorsTotal.Inc()
	}
	return err
}

func (s *Store) syncProject(indexes []*semantic.SemanticIndex) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sync tx: %w", err)
	}

	paths := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		paths = append(paths, idx.FilePath)
	}

	if len(paths) == 0 {
		if _, err := tx.Exec(`DELETE FROM symbols WHERE project_key = ?`, s.projectKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear symbols for empty project: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM index_blobs WHERE project_key = ?`, s.projectKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear index blobs for empty project: %w", err)
		}
	} else {
		if err := loadTempPaths(tx, s.projectKey, paths); err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`DELETE FROM symbols WHERE project_key = ? AND file_path NOT IN (SELECT file_path FROM current_paths WHERE project_key = ?)`, s.projectKey, s.projectKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete stale symbol rows: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM index_blobs WHERE project_key = ? AND file_path NOT IN (SELECT file_path FROM current_paths WHERE project_key = ?)`, s.projectKey, s.projectKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete stale index blobs: %w", err)
		}
		for _, idx := range indexes {
			if err := upsertIndexRows(tx, s.projectKey, idx); err != nil {
				_ = tx.Rollback()
				return err
			}
			if err := upsertIndexBlob(tx, s.projectKey, idx); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync tx: %w", err)
	}
	s.clearCache()
	return nil
}

// LoadIndex reloads a stored index from its blob. Returns (nil, nil) when
// the file is not in the store.
func (s *Store) LoadIndex(path string) (*semantic.SemanticIndex, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	var blob []byte
	err := s.db.QueryRow(`SELECT blob FROM index_blobs WHERE project_key = ? AND file_path = ?`, s.projectKey, path).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load index blob: %w", err)
	}
	var idx semantic.SemanticIndex
	if err := json.Unmarshal(blob, &idx); err != nil {
		return nil, fmt.Errorf("unmarshal index blob: %w", err)
	}
	return &idx, nil
}

// StoredPaths lists every file currently in the store, sorted.
func (s *Store) StoredPaths() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := s.db.Query(`SELECT file_path FROM index_blobs WHERE project_key = ? ORDER BY file_path`, s.projectKey)
	if err != nil {
		return nil, fmt.Errorf("list stored paths: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan stored path: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Lookup returns every stored definition named symbol, across all files.
func (s *Store) Lookup(symbol string) []SymbolRecord {
	if s == nil || s.db == nil || s.lookupStmt == nil {
		return nil
	}
	key := strings.TrimSpace(symbol)
	if key == "" {
		return nil
	}

	s.cacheMu.RLock()
	if res, ok := s.lookupCache[key]; ok {
		s.cacheMu.RUnlock()
		return res
	}
	s.cacheMu.RUnlock()

	res := s.lookupRows(key)

	s.cacheMu.Lock()
	s.lookupCache[key] = res
	s.cacheMu.Unlock()

	return res
}

func (s *Store) lookupRows(key string) []SymbolRecord {
	rows, err := s.lookupStmt.Query(s.projectKey, key)
	if err != nil {
		return nil
	}
	defer rows.Close()

	out := make([]SymbolRecord, 0)
	for rows.Next() {
		var (
			rec  SymbolRecord
			kind string
			av   string
		)
		if err := rows.Scan(
			&rec.Name,
			&kind,
			&rec.FilePath,
			&rec.Language,
			&rec.Owner,
			&av,
			&rec.ExportedAs,
			&rec.Line,
			&rec.TypeHint,
			&rec.Doc,
		); err != nil {
			continue
		}
		rec.Kind = semantic.SymbolKind(kind)
		rec.Availability = semantic.Availability(av)
		out = append(out, rec)
	}
	return out
}

func migrateSchema(db *sql.DB) error {
	var version int
	_ = db.QueryRow(`PRAGMA user_version`).Scan(&version)

	if version == 0 {
		_, err := db.Exec(`
CREATE TABLE symbols (
  project_key TEXT NOT NULL,
  symbol_id TEXT NOT NULL,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  file_path TEXT NOT NULL,
  language TEXT NOT NULL DEFAULT '',
  owner TEXT NOT NULL DEFAULT '',
  availability TEXT NOT NULL DEFAULT '',
  exported_as TEXT NOT NULL DEFAULT '',
  line INTEGER NOT NULL DEFAULT 0,
  type_hint TEXT NOT NULL DEFAULT '',
  doc TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (project_key, file_path, symbol_id)
);
CREATE INDEX idx_symbols_project_name ON symbols(project_key, name);
CREATE INDEX idx_symbols_project_file ON symbols(project_key, file_path);

CREATE TABLE index_blobs (
  project_key TEXT NOT NULL,
  file_path TEXT NOT NULL,
  blob BLOB NOT NULL,
  PRIMARY KEY (project_key, file_path)
);

PRAGMA user_version = 1;
`)
		if err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	return nil
}

func loadTempPaths(tx *sql.Tx, projectKey string, paths []string) error {
	if _, err := tx.Exec(`CREATE TEMP TABLE IF NOT EXISTS current_paths (
  project_key TEXT NOT NULL,
  file_path TEXT NOT NULL,
  PRIMARY KEY (project_key, file_path)
)`); err != nil {
		return fmt.Errorf("create temp paths table: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM current_paths WHERE project_key = ?`, projectKey); err != nil {
		return fmt.Errorf("clear temp paths table: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO current_paths (project_key, file_path) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare temp path insert: %w", err)
	}
	defer stmt.Close()
	for _, p := range paths {
		if _, err := stmt.Exec(projectKey, p); err != nil {
			return fmt.Errorf("insert temp path: %w", err)
		}
	}
	return nil
}

func deletePath(tx *sql.Tx, projectKey, path string) error {
	if _, err := tx.Exec(`DELETE FROM symbols WHERE project_key = ? AND file_path = ?`, projectKey, path); err != nil {
		return fmt.Errorf("delete symbol rows for path %q: %w", path, err)
	}
	return nil
}

func upsertIndexBlob(tx *sql.Tx, projectKey string, idx *semantic.SemanticIndex) error {
	blob, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index blob: %w", err)
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO index_blobs (project_key, file_path, blob) VALUES (?, ?, ?)`, projectKey, idx.FilePath, blob)
	if err != nil {
		return fmt.Errorf("upsert index blob: %w", err)
	}
	return nil
}

func upsertIndexRows(tx *sql.Tx, projectKey string, idx *semantic.SemanticIndex) error {
	if err := deletePath(tx, projectKey, idx.FilePath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT OR REPLACE INTO symbols (
  project_key, symbol_id, name, kind, file_path, language,
  owner, availability, exported_as, line, type_hint, doc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare symbol insert: %w", err)
	}
	defer stmt.Close()

	insert := func(def *semantic.Definition, owner string) error {
		exportedAs := ""
		if def.Export != nil {
			exportedAs = def.Export.EffectiveName()
		}
		typeHint := def.TypeAnnotation
		if typeHint == "" {
			typeHint = def.ReturnType
		}
		_, err := stmt.Exec(
			projectKey,
			string(def.SymbolID),
			def.Name,
			string(def.Kind),
			idx.FilePath,
			idx.Language,
			owner,
			string(def.Availability),
			exportedAs,
			def.Location.StartLine,
			typeHint,
			def.Docstring,
		)
		if err != nil {
			return fmt.Errorf("insert symbol row %q: %w", def.Name, err)
		}
		return nil
	}

	var walk func(def *semantic.Definition, owner string) error
	walk = func(def *semantic.Definition, owner string) error {
		if err := insert(def, owner); err != nil {
			return err
		}
		for _, children := range [][]semantic.Definition{def.Methods, def.Properties, def.Members, def.Nested} {
			for i := range children {
				if err := walk(&children[i], def.Name); err != nil {
					return err
				}
			}
		}
		if def.Constructor != nil {
			if err := walk(def.Constructor, def.Name); err != nil {
				return err
			}
		}
		return nil
	}

	defs := idx.AllDefinitions()
	for i := range defs {
		if err := walk(&defs[i], ""); err != nil {
			return err
		}
	}
	return nil
}
