// Package storage provides the file-backed persistence primitives: a JSON
// collection store and a blob store for uploaded images.
//
// Collections are whole-file JSON arrays. There is no transaction support in
// the backing store, so callers (the service layer) hold a per-collection
// lock across the full load-mutate-save cycle.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes JSON collections under a data directory.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Load decodes the named collection into out. A missing or unparseable file
// degrades to an empty collection: out is left untouched. Load never fails;
// callers pass a fresh zero-value slice.
func (s *Store) Load(name string, out any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

// Save overwrites the named collection with v. The write goes through a
// temporary file and a rename so a crash mid-write never leaves a truncated
// collection behind. A failed write is a dependency failure and must reach
// the caller.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
