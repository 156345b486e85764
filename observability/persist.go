package observability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TracePersister stores completed traces for later analysis.
type TracePersister interface {
	Save(t *Trace) error
}

// FileTracePersister writes one JSON file per trace under a directory.
type FileTracePersister struct {
	dir string
}

// NewFileTracePersister creates the trace directory if needed.
func NewFileTracePersister(dir string) (*FileTracePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	return &FileTracePersister{dir: dir}, nil
}

// Save implements TracePersister.
func (p *FileTracePersister) Save(t *Trace) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trace %s: %w", t.TraceID, err)
	}
	return os.WriteFile(filepath.Join(p.dir, t.TraceID+".json"), data, 0o644)
}
