// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spooldev/spool/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	storeDir      string // Path to the .spool directory
	globalConfDir string // Path to the global config directory (e.g., ~/.config/spool)
}

// NewLoader creates a new Loader.
func NewLoader(storeDir string) *Loader {
	return &Loader{
		storeDir:      storeDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(storeDir, globalConfDir string) *Loader {
	return &Loader{
		storeDir:      storeDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "spool")
}

// Load returns the merged configuration (defaults <- global <- repo,
// later takes precedence). Missing files are not errors.
func (l *Loader) Load() (*domain.Config, error) {
	var global, repo *domain.Config
	var err error
	if l.globalConfDir != "" {
		global, err = l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if l.storeDir != "" {
		repo, err = l.loadFile(filepath.Join(l.storeDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		mergeConfig(base, global)
	}
	if repo != nil {
		mergeConfig(base, repo)
	}
	return base, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg domain.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig overlays the set fields of override onto base.
func mergeConfig(base, override *domain.Config) {
	if override.Author != "" {
		base.Author = override.Author
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.List.Status != "" {
		base.List.Status = override.List.Status
	}
	if override.Archive.Days != 0 {
		base.Archive.Days = override.Archive.Days
	}
}
