package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/errors"
	"stash/layout"
	"stash/panel"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
	for _, key := range []string{"STASH_DATA_DIR", "STASH_HOST_CONFIG_ROOT", "STASH_BACKEND", "STASH_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadCreatesTemplates(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(home, ".config", "stash", "settings.toml"))
	dataDir := filepath.Join(home, ".local", "share", "stash")
	assert.Equal(t, dataDir, cfg.DataDir())
	assert.FileExists(t, filepath.Join(dataDir, "config.toml"))
	assert.Equal(t, dataDir, cfg.ConfigRoot(), "host config root defaults to the data dir")

	assert.Equal(t, []backend.ID{backend.JEI, backend.EMI, backend.REI}, cfg.Backends)
	assert.Equal(t, "json", cfg.Storage.Driver)
	assert.False(t, cfg.CustomMetrics)

	// Second load parses the templates it just wrote.
	again, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Backends, again.Backends)
	assert.Equal(t, 3, again.Storage.WriteAttempts)
	assert.True(t, again.Storage.Watch)
	assert.Equal(t, int64(250), again.WatchDebounce().Milliseconds())
	assert.Equal(t, "info", again.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	data := t.TempDir()
	root := t.TempDir()
	t.Setenv("STASH_DATA_DIR", data)
	t.Setenv("STASH_HOST_CONFIG_ROOT", root)
	t.Setenv("STASH_BACKEND", "rei, emi")
	t.Setenv("STASH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, data, cfg.DataDir())
	assert.Equal(t, root, cfg.ConfigRoot())
	assert.Equal(t, []backend.ID{backend.REI, backend.EMI}, cfg.Backends)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.FileExists(t, filepath.Join(data, "config.toml"))
}

func TestEnvRejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("STASH_DATA_DIR", t.TempDir())
	t.Setenv("STASH_BACKEND", "nei")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnknownBackend))
}

func TestUserConfigLayoutSection(t *testing.T) {
	isolate(t)
	data := t.TempDir()
	t.Setenv("STASH_DATA_DIR", data)
	content := `
[backends]
order = ["emi"]

[storage]
driver = "sqlite"

[layout]
margin = 1
slot_size = 2
folder_button_width = -3

[placement]
width = 40
`
	require.NoError(t, os.WriteFile(filepath.Join(data, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.CustomMetrics)
	assert.Equal(t, 1, cfg.Metrics.Margin)
	assert.Equal(t, 2, cfg.Metrics.SlotSize)
	assert.Equal(t, layout.DefaultMetrics().FolderButtonWidth, cfg.Metrics.FolderButtonWidth, "invalid sizes fall back")
	assert.Equal(t, 40, cfg.Placement.Width)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, []backend.ID{backend.EMI}, cfg.Backends)
}

func TestParseBackendOrder(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []backend.ID
	}{
		{"empty uses default", nil, []backend.ID{backend.JEI, backend.EMI, backend.REI}},
		{"blank entries skipped", []string{" ", ""}, []backend.ID{backend.JEI, backend.EMI, backend.REI}},
		{"case and spaces", []string{" REI ", "Jei"}, []backend.ID{backend.REI, backend.JEI}},
		{"duplicates collapse", []string{"emi", "emi", "jei"}, []backend.ID{backend.EMI, backend.JEI}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackendOrder(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandPath("~/x/y"))
	assert.Equal(t, "", ExpandPath(""))
	t.Setenv("STASH_TEST_DIR", "/opt/stash")
	assert.Equal(t, "/opt/stash/data", ExpandPath("$STASH_TEST_DIR/data"))
}

func TestKeybindings(t *testing.T) {
	isolate(t)
	data := t.TempDir()

	kb, err := LoadKeybindings(data)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(data, "keybindings.toml"))
	assert.Equal(t, "alt+q", kb.GetActionKey("quit"))
	assert.Equal(t, "alt+R", kb.GetActionKey("reload_viewers"))
	assert.Equal(t, "Alt+Shift+R", kb.DisplayActionKey("reload_viewers"))
	assert.Equal(t, "", kb.GetActionKey("no_such_action"))

	content := `
[modifiers]
primary = "ctrl"

[actions]
quit = "ctrl+shift+q"
next_page = "ctrl+j"
`
	require.NoError(t, os.WriteFile(filepath.Join(data, "keybindings.toml"), []byte(content), 0600))
	kb, err = LoadKeybindings(data)
	require.NoError(t, err)
	assert.Equal(t, "alt+shift", kb.Secondary(), "missing secondary keeps the default")
	assert.Equal(t, "ctrl+shift+q", kb.GetActionKey("quit"))
	assert.Equal(t, "ctrl+o", kb.GetActionKey("toggle_overlay"))

	hostKeys := kb.HostActions()
	assert.Equal(t, "quit", hostKeys["ctrl+shift+q"])

	km := kb.PanelKeymap()
	a, ok := km.Lookup("ctrl+j")
	require.True(t, ok)
	assert.Equal(t, panel.ActionNextPage, a)
	_, ok = km.Lookup("pgdown")
	assert.False(t, ok, "overridden default is unbound")

	valid, warning := kb.Validate()
	assert.True(t, valid)
	assert.NotEmpty(t, warning)
}
