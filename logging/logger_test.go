package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	a := NewLogger("layout")
	b := NewLogger("layout")
	c := NewLogger("storage")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "layout", a.Data["component"])
}

func TestLoggerWritesComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	NewLogger("drag").Warn("stuck drag reset")

	assert.Contains(t, buf.String(), "component=drag")
	assert.Contains(t, buf.String(), "stuck drag reset")
}

func TestConfigureFileSink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Configure(Options{Level: "debug", Dir: dir, Stderr: "never"}))
	t.Cleanup(func() { _ = Close() })

	NewLogger("registry").Debug("probing backends")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "stash.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "probing backends")
}
