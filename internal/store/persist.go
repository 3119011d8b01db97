package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FilePersister persists a store as one full-snapshot JSON document at a
// fixed path. The file is rewritten wholly on every save; writes are not
// atomic against crashes mid-write.
type FilePersister[T any] struct {
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister[T any](path string) *FilePersister[T] {
	return &FilePersister[T]{path: path}
}

// Load reads the persisted map. A missing file is an empty store.
func (p *FilePersister[T]) Load() (map[string]T, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]T), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	var items map[string]T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.path, err)
	}
	if items == nil {
		items = make(map[string]T)
	}
	return items, nil
}

// Save rewrites the whole map to disk.
func (p *FilePersister[T]) Save(items map[string]T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.path, err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	return nil
}
