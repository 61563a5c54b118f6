package vendors

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store loads and persists the registry as a human-readable YAML file of the
// form {vendors: [{name, aliases}]}. The file is rewritten in full on every
// change; records stay in insertion order.
type Store struct {
	Path string
}

// Load reads the registry from disk. An absent file is self-healing: an
// empty registry is written and returned. A structurally invalid file is
// left untouched on disk and an empty registry is substituted with a
// warning, so a later save re-derives from the in-memory state.
func (s *Store) Load() (*Registry, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Vendor registry not found. Creating a new one.", "path", s.Path)
		reg := &Registry{Vendors: []*Record{}}
		if err := s.Save(reg); err != nil {
			return nil, fmt.Errorf("initialize vendor registry: %w", err)
		}
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vendor registry %s: %w", s.Path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil || reg.Vendors == nil {
		slog.Warn("Vendor registry is empty or malformed. Using an empty registry.", "path", s.Path, "error", err)
		return &Registry{Vendors: []*Record{}}, nil
	}
	return &reg, nil
}

// Save serializes the full registry and replaces the file atomically via a
// temp file and rename, so a concurrent reader never observes a partial
// write.
func (s *Store) Save(reg *Registry) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal vendor registry: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create registry directory: %w", err)
		}
	}

	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp registry file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace registry file: %w", err)
	}
	return nil
}
