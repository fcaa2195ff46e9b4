package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvSecondaryBackendURL, "")
	t.Setenv(EnvWebAddr, "")
	t.Setenv(EnvLogLevel, "")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, c.Backend.URL)
	assert.Equal(t, DefaultSecondaryBackendURL, c.Backend.SecondaryURL)
	assert.Equal(t, DefaultWebAddr, c.Web.Addr)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, c.Search.Debounce())
	assert.Equal(t, DefaultItemsPerPage, c.Pagination.ItemsPerPage)
	assert.Equal(t, 10*time.Second, c.Backend.Timeout())
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yml := `
logging:
  level: debug
backend:
  url: http://backend:8080
  timeout_seconds: 3
search:
  debounce_millis: 250
pagination:
  items_per_page: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte(yml), 0o644))

	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSecondaryBackendURL, "http://python:8000")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8080", c.Backend.URL)
	assert.Equal(t, "http://python:8000", c.Backend.SecondaryURL)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, 3*time.Second, c.Backend.Timeout())
	assert.Equal(t, 250*time.Millisecond, c.Search.Debounce())
	assert.Equal(t, 20, c.Pagination.ItemsPerPage)

	t.Setenv(EnvBackendURL, "http://override:9090")
	c, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9090", c.Backend.URL)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte("backend: [oops"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
