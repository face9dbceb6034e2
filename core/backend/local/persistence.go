package local

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dat-workbench/core/backend"

	"gopkg.in/yaml.v3"
)

// Store reads and writes persistence.yml.
type Store struct {
	path string
}

// NewStore returns a store for dir/persistence.yml. An empty dir resolves to
// <user config dir>/dat-workbench.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings dir: %w", err)
		}
		dir = filepath.Join(base, "dat-workbench")
	}
	return &Store{path: filepath.Join(dir, SettingsFile)}, nil
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings. A missing file yields empty settings.
func (s *Store) Load() (backend.Settings, error) {
	var settings backend.Settings

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return settings, nil
}

// Save writes settings, creating the directory if needed.
func (s *Store) Save(settings backend.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
