package config

import "stash/storage"

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/stash",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backends: BackendConfig{
			Order:     []string{"jei", "emi", "rei"},
			CacheSize: 512,
		},
		Storage: StorageConfig{
			Driver:          storage.DriverJSON,
			WriteAttempts:   3,
			Watch:           true,
			WatchDebounceMS: 250,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Stash System Configuration
# Location: ~/.config/stash/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the user config, key bindings and logs are stored
data_directory = "~/.local/share/stash"

# Game config directory. Folder files are written to
# <host_config_root>/stash/worlds/<world>/folders.json.
# Leave empty to use the data directory.
host_config_root = ""
`
}

func GenerateUserConfigTemplate() string {
	return `# Stash User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backends]
# Registration order. When two viewers could own a drag or a screen,
# the first one listed wins.
order = ["jei", "emi", "rei"]

# Resolved ingredients kept per backend for the session
cache_size = 512

[storage]
# "json" (one folders.json per world) or "sqlite" (folders.db)
driver = "json"

# Save retries before a change is kept in memory only
write_attempts = 3

# Reload folders when the file is edited outside the game
watch = true
watch_debounce_ms = 250

[logging]
# debug, info, warn or error (STASH_LOG_LEVEL overrides)
level = "info"
json = false

# Panel geometry. Leave commented out to use the host's defaults.
# [layout]
# margin = 5
# folder_button_width = 20
# folder_button_height = 20
# folder_spacing = 2
# add_reserve = 23
# slot_size = 18
# slot_spacing = 2
# top_padding = 5
# header_row_height = 22
# add_input_height = 20
# content_header_height = 14
# pagination_height = 16
# bottom_padding = 4
# max_grid_rows = 0

# [placement]
# left = 0
# top = 0
# bottom = 0
# width = 0   # 0 = a third of the screen
`
}
