package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/ingredient"
	"stash/logging"
	"stash/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STASH_DATA_DIR", "")
	t.Setenv("STASH_HOST_CONFIG_ROOT", filepath.Join(home, "minecraft", "config"))
	t.Setenv("STASH_BACKEND", "")
	t.Setenv("STASH_LOG_LEVEL", "")
	t.Cleanup(func() { _ = logging.Close() })
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const sampleYAML = `- id: 6f1b8f0e-6c8e-4d9a-9b6f-2a7c1d4e5f60
  name: Ores
  active: true
  ingredients:
    - kind: item
      key: minecraft:iron_ore
    - kind: item
      key: minecraft:gold_ore
- name: Fluids
  ingredients:
    - kind: fluid
      key: minecraft:lava
`

func TestImportThenExport(t *testing.T) {
	home := isolate(t)
	src := filepath.Join(home, "folders.yaml")
	require.NoError(t, os.WriteFile(src, []byte(sampleYAML), 0600))

	out, err := execute(t, "folders", "import", src, "--world", "Test World")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 folders")

	out, err = execute(t, "folders", "export", "--world", "Test World", "--format", "json")
	require.NoError(t, err)

	var folders []model.Folder
	require.NoError(t, json.Unmarshal([]byte(out), &folders))
	require.Len(t, folders, 2)
	assert.Equal(t, uuid.MustParse("6f1b8f0e-6c8e-4d9a-9b6f-2a7c1d4e5f60"), folders[0].ID)
	assert.True(t, folders[0].Active)
	assert.Equal(t, []ingredient.Ref{
		ingredient.New("item", "minecraft:iron_ore"),
		ingredient.New("item", "minecraft:gold_ore"),
	}, folders[0].Ingredients)
	assert.Equal(t, "Fluids", folders[1].Name)
	assert.NotEqual(t, uuid.Nil, folders[1].ID)

	out, err = execute(t, "folders", "list", "--world", "Test World")
	require.NoError(t, err)
	assert.Contains(t, out, "* Ores (2)")
	assert.Contains(t, out, "fluid|minecraft:lava")
}

func TestImportMergeKeepsExisting(t *testing.T) {
	home := isolate(t)
	first := filepath.Join(home, "first.yaml")
	require.NoError(t, os.WriteFile(first, []byte(sampleYAML), 0600))
	_, err := execute(t, "folders", "import", first)
	require.NoError(t, err)

	second := filepath.Join(home, "second.json")
	require.NoError(t, os.WriteFile(second, []byte(`[
  {"id": "6f1b8f0e-6c8e-4d9a-9b6f-2a7c1d4e5f60", "name": "Metals", "ingredients": []},
  {"name": "Food", "ingredients": [{"kind": "item", "key": "minecraft:bread"}]}
]`), 0600))
	_, err = execute(t, "folders", "import", second, "--merge")
	require.NoError(t, err)

	out, err := execute(t, "folders", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var names []string
	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "    ") {
			continue
		}
		names = append(names, strings.TrimSpace(line))
	}
	assert.Equal(t, []string{"Metals (0)", "Fluids (1)", "Food (1)"}, names)
}

func TestExportToFileUsesExtension(t *testing.T) {
	home := isolate(t)
	src := filepath.Join(home, "in.yaml")
	require.NoError(t, os.WriteFile(src, []byte(sampleYAML), 0600))
	_, err := execute(t, "folders", "import", src)
	require.NoError(t, err)

	dst := filepath.Join(home, "out.yml")
	out, err := execute(t, "folders", "export", "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 folders")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Ores")
}

func TestImportRejectsBadFormat(t *testing.T) {
	home := isolate(t)
	src := filepath.Join(home, "in.json")
	require.NoError(t, os.WriteFile(src, []byte("{not json"), 0600))

	_, err := execute(t, "folders", "import", src)
	assert.ErrorContains(t, err, "failed to parse folders")

	_, err = execute(t, "folders", "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestWorldIDCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "worldid", "--mp", "Play.Example.NET")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], filepath.Join(lines[0], "folders.json")), lines[1])
}

func TestSchemaDescribesFolders(t *testing.T) {
	data, err := GenerateFolderSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "array", schema["type"])
	assert.Contains(t, string(data), `"format": "uuid"`)
	assert.Contains(t, string(data), `"ingredients"`)
}
