package localfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tahmid/snippet-explorer/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snippets.json")
	return New(path), path
}

func TestRead_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	snippets, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("Read() returned %d snippets, want 0", len(snippets))
	}
}

func TestWriteThenRead(t *testing.T) {
	store, _ := newTestStore(t)

	in := []model.Snippet{
		{ID: "1", Name: "A", Code: "x = 1"},
		{ID: "2", Name: "B", Code: ""},
	}
	if err := store.Write(in); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Read() returned %d snippets, want 2", len(out))
	}
	if out[0].ID != "1" || out[0].Name != "A" || out[0].Code != "x = 1" {
		t.Errorf("Read()[0] = %+v, want id=1 name=A code=%q", out[0], "x = 1")
	}
}

func TestWrite_ReplacesPreviousContents(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Write([]model.Snippet{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := store.Write([]model.Snippet{{ID: "2", Name: "B"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "2" {
		t.Errorf("Read() = %+v, want only snippet 2", out)
	}
}

func TestRead_GarbageIsEmptyList(t *testing.T) {
	// A blob that doesn't parse as a snippet array means "no local data",
	// not a hard error.
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte(`{"not":"an array"`), 0o644); err != nil {
		t.Fatalf("seeding garbage: %v", err)
	}

	snippets, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("Read() returned %d snippets, want 0", len(snippets))
	}
}

func TestWrite_NilListWritesEmptyArray(t *testing.T) {
	store, path := newTestStore(t)

	if err := store.Write(nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading blob: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("blob = %q, want %q", string(data), "[]")
	}
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "snippets.json")
	store := New(path)

	if err := store.Write([]model.Snippet{{ID: "1", Name: "A"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("blob not created: %v", err)
	}
}
