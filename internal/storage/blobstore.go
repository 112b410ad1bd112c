package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore persists uploaded binary content under an uploads directory and
// hands back opaque URL-path references for later retrieval.
type BlobStore struct {
	dir string
}

// NewBlobStore creates the uploads directory, with subdirectories for each
// known upload kind, and returns a blob store over it.
func NewBlobStore(dir string) (*BlobStore, error) {
	for _, sub := range []string{"complaints", "municipality"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create uploads dir: %w", err)
		}
	}
	return &BlobStore{dir: dir}, nil
}

// Dir returns the uploads directory, for static file serving.
func (b *BlobStore) Dir() string {
	return b.dir
}

// Store writes content into the given subdirectory under a random filename
// with the supplied extension and returns the reference path, e.g.
// "/uploads/complaints/3f1c....jpg".
func (b *BlobStore) Store(subdir, ext string, content []byte) (string, error) {
	name := uuid.NewString() + ext
	full := filepath.Join(b.dir, subdir, name)
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return path.Join("/uploads", subdir, name), nil
}
