package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	var out []record
	s.Load("missing.json", &out)
	if len(out) != 0 {
		t.Errorf("Load() = %v, want empty collection", out)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.Dir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out []record
	s.Load("corrupt.json", &out)
	if len(out) != 0 {
		t.Errorf("Load() = %v, want empty collection", out)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []record{{ID: 1, Name: "first"}, {ID: 2, Name: "second"}}
	if err := s.Save("records.json", in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out []record
	s.Load("records.json", &out)
	if len(out) != len(in) {
		t.Fatalf("Load() returned %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("record %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveOverwritesWholeCollection(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("records.json", []record{{ID: 1}, {ID: 2}, {ID: 3}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("records.json", []record{{ID: 9}}); err != nil {
		t.Fatal(err)
	}

	var out []record
	s.Load("records.json", &out)
	if len(out) != 1 || out[0].ID != 9 {
		t.Errorf("Load() = %v, want only the last saved collection", out)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("records.json", []record{{ID: 1}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestBlobStore(t *testing.T) {
	b, err := NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore() error = %v", err)
	}

	ref, err := b.Store("complaints", ".jpg", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/complaints/") || !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("Store() ref = %q, want /uploads/complaints/<name>.jpg", ref)
	}

	// The reference maps back to a real file under the uploads dir.
	onDisk := filepath.Join(b.Dir(), strings.TrimPrefix(ref, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored blob unreadable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored blob = %q, want %q", data, "image-bytes")
	}

	// Two stores of the same content get distinct references.
	ref2, err := b.Store("complaints", ".jpg", []byte("image-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if ref2 == ref {
		t.Error("Store() produced duplicate references")
	}
}
