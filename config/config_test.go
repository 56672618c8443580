package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var c Config
	configDefault(&c)

	require.Equal(t, ":8080", c.App.WebListen)
	require.Equal(t, ".finder/cache", c.Cache.Path)
	require.Equal(t, 10, c.Remote.TimeoutSeconds)
	require.Equal(t, 10*time.Second, c.Remote.Timeout())
	require.False(t, c.App.Dev)
	require.Empty(t, c.DB.DSN)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	data := []byte(`
app:
  dev: true
  weblisten: ":9090"
remote:
  baseurl: "http://localhost:3000"
cache:
  path: "/tmp/finder-cache"
`)
	require.NoError(t, os.WriteFile(configPath, data, 0o644))

	c := Load(configPath)

	require.True(t, c.App.Dev)
	require.Equal(t, ":9090", c.App.WebListen)
	require.Equal(t, "http://localhost:3000", c.Remote.BaseURL)
	require.Equal(t, "/tmp/finder-cache", c.Cache.Path)

	// Defaults survive for fields the file does not mention.
	require.Equal(t, 10, c.Remote.TimeoutSeconds)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.yml"))

	require.Equal(t, ":8080", c.App.WebListen)
}
