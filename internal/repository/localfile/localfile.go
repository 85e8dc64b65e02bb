// Package localfile implements the local persistence collaborator: a single
// JSON blob holding the snippets that are not yet account-backed.
//
// The blob is the moral equivalent of a browser localStorage key — one
// file, one JSON array of {id, name, code} objects, no versioning field.
// Anything that doesn't parse as that shape is treated as "no local data"
// rather than a hard error, so a corrupted file degrades to an empty list
// instead of wedging the app.
package localfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tahmid/snippet-explorer/internal/model"
	"github.com/tahmid/snippet-explorer/internal/repository"
)

// compile-time check that *Store implements repository.Local
var _ repository.Local = (*Store)(nil)

// Store reads and writes the snippet blob at a fixed path.
type Store struct {
	path string
}

// New creates a Store backed by the file at path. The file does not need
// to exist yet; parent directories are created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Read returns the stored snippet list.
//
// A missing file and an unparsable file both yield an empty list with a
// nil error — the store treats "never saved anything" and "blob is
// garbage" the same way. Only real I/O failures (permissions, disk) are
// returned, and even those are logged rather than surfaced by the caller.
func (s *Store) Read() ([]model.Snippet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Snippet{}, nil
		}
		return []model.Snippet{}, fmt.Errorf("localfile: reading %s: %w", s.path, err)
	}

	var snippets []model.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		// Shape mismatch is "no local data", not a failure.
		return []model.Snippet{}, nil
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// Write serializes the snippet list back to the blob, replacing whatever
// was there. The write goes through a temp file plus rename so a crash
// mid-write never leaves a half-written blob behind.
func (s *Store) Write(snippets []model.Snippet) error {
	if snippets == nil {
		snippets = []model.Snippet{}
	}

	data, err := json.Marshal(snippets)
	if err != nil {
		return fmt.Errorf("localfile: encoding snippets: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("localfile: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snippets-*.json")
	if err != nil {
		return fmt.Errorf("localfile: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localfile: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localfile: closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localfile: replacing %s: %w", s.path, err)
	}
	return nil
}
