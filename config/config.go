// Package config loads stash's two TOML files: the system settings.toml that
// points at the data directory, and the user config.toml inside it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"stash/backend"
	"stash/errors"
	"stash/layout"
	"stash/storage"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
	// HostConfigRoot is the game's config directory; folder files live in
	// <host_config_root>/stash/worlds. Empty uses the data directory.
	HostConfigRoot string `toml:"host_config_root,omitempty"`
}

type BackendConfig struct {
	// Order is the registration order. It decides which backend owns a drag
	// or a screen when several could.
	Order     []string `toml:"order"`
	CacheSize int      `toml:"cache_size"`
}

type StorageConfig struct {
	Driver          string `toml:"driver"`
	WriteAttempts   int    `toml:"write_attempts"`
	Watch           bool   `toml:"watch"`
	WatchDebounceMS int    `toml:"watch_debounce_ms"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type UserConfig struct {
	Backends  BackendConfig    `toml:"backends"`
	Storage   StorageConfig    `toml:"storage"`
	Layout    layout.Metrics   `toml:"layout"`
	Placement layout.Placement `toml:"placement"`
	Logging   LoggingConfig    `toml:"logging"`

	customLayout bool
}

type Config struct {
	DataDirectory  string
	HostConfigRoot string
	Backends       []backend.ID
	CacheSize      int
	Storage        StorageConfig
	Metrics        layout.Metrics
	// CustomMetrics is set when config.toml has a [layout] section.
	CustomMetrics bool
	Placement     layout.Placement
	Logging       LoggingConfig
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ConfigRoot is the directory the per-world folder files are scoped under.
func (c *Config) ConfigRoot() string {
	if c.HostConfigRoot != "" {
		return ExpandPath(c.HostConfigRoot)
	}
	return c.DataDir()
}

// WatchDebounce is the storage watcher's debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Storage.WatchDebounceMS) * time.Millisecond
}

func (c *Config) applyUser(u *UserConfig) error {
	order, err := ParseBackendOrder(u.Backends.Order)
	if err != nil {
		return err
	}
	c.Backends = order
	c.CacheSize = u.Backends.CacheSize
	c.Storage = u.Storage
	c.Metrics = u.Layout.Sanitize()
	c.CustomMetrics = u.customLayout
	c.Placement = u.Placement
	c.Logging = u.Logging
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dataDir := os.Getenv("STASH_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if root := os.Getenv("STASH_HOST_CONFIG_ROOT"); root != "" {
		c.HostConfigRoot = root
	}
	if env := os.Getenv("STASH_BACKEND"); env != "" {
		order, err := ParseBackendOrder(strings.Split(env, ","))
		if err != nil {
			return err
		}
		c.Backends = order
	}
	if level := os.Getenv("STASH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// ParseBackendOrder validates backend ids. An empty list means the default
// order.
func ParseBackendOrder(names []string) ([]backend.ID, error) {
	var order []backend.ID
	seen := make(map[backend.ID]bool)
	for _, name := range names {
		id := backend.ID(strings.ToLower(strings.TrimSpace(name)))
		if id == "" {
			continue
		}
		if _, ok := backend.DescriptorFor(id); !ok {
			return nil, errors.UnknownBackend(string(id))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	if len(order) == 0 {
		for _, d := range backend.Descriptors() {
			order = append(order, d.ID)
		}
	}
	return order, nil
}

// Load reads settings.toml and the data directory's config.toml, creating
// both from templates when missing, then applies STASH_* overrides.
func Load() (*Config, error) {
	cfg := &Config{DataDirectory: GetDefaultDataDir()}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory
	cfg.HostConfigRoot = systemCfg.HostConfigRoot

	// The data directory may come from the environment, so resolve it
	// before reading the user config.
	if dataDir := os.Getenv("STASH_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := cfg.applyUser(userCfg); err != nil {
		return nil, fmt.Errorf("invalid user config: %w", err)
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = storage.DriverJSON
	}
	return cfg, nil
}
