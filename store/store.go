// Package store defines the durable persistence boundary shared by the
// memory, session and observability components. The contract is deliberately
// narrow: load a record by kind and id, or save one. Save failures are a
// logging concern for callers; in-memory state already mutated for the
// current call is never rolled back.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RecordStore persists opaque records namespaced by kind (e.g. "memory",
// "session"). Implementations must be safe for concurrent use.
type RecordStore interface {
	// Load returns the record bytes and true, or false when absent.
	Load(kind, id string) ([]byte, bool, error)
	// Save writes or replaces the record.
	Save(kind, id string, data []byte) error
	// Close releases any underlying resources.
	Close() error
}

// LoadJSON loads and unmarshals a record into v. Absent records return false
// with a nil error.
func LoadJSON(rs RecordStore, kind, id string, v any) (bool, error) {
	data, ok, err := rs.Load(kind, id)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", kind, id, err)
	}
	return true, nil
}

// SaveJSON marshals v and saves it as the record.
func SaveJSON(rs RecordStore, kind, id string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, id, err)
	}
	return rs.Save(kind, id, data)
}

// FileStore is a RecordStore writing one JSON file per record under
// dir/<kind>/<id>.json. Ids are sanitized to stay inside the directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load implements RecordStore.
func (s *FileStore) Load(kind, id string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(kind, id))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save implements RecordStore. The write goes through a temp file followed by
// a rename so readers never observe a partial record.
func (s *FileStore) Save(kind, id string, data []byte) error {
	path := s.path(kind, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Close implements RecordStore.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(kind, id string) string {
	return filepath.Join(s.dir, sanitize(kind), sanitize(id)+".json")
}

func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	cleaned := replacer.Replace(name)
	if cleaned == "" {
		cleaned = "_"
	}
	return cleaned
}
