package driver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typereflect/schema"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("patterns: [./...]\noutput: out/schema.yaml\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, FrontendGo, cfg.Frontend)
	assert.Equal(t, ".", cfg.Dir)
	assert.Empty(t, cfg.RelativeTo, "unit paths are already relative to dir")
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, schema.FormatYAML, cfg.OutputFormat())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, Duration(DefaultDebounce), cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig_Values(t *testing.T) {
	data := `
version: "1"
name: game
frontend: decl
dir: models
patterns: ["*.yaml"]
relativeTo: models
format: msgpack
exportsOnly: true
workers: 4
watch:
  debounce: 250ms
`
	cfg, err := ParseConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "game", cfg.Name)
	assert.Equal(t, FrontendDecl, cfg.Frontend)
	assert.Equal(t, []string{"*.yaml"}, cfg.Patterns)
	assert.Equal(t, schema.FormatMsgpack, cfg.OutputFormat())
	assert.True(t, cfg.ExportsOnly)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := ParseConfig([]byte("watch:\n  debounce: soon\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("watch:\n  debounce: [1s]\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("patterns: {"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Frontend: "ts", Format: "xml", Workers: -1, Watch: WatchConfig{Debounce: -1}}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"unknown frontend", "no patterns", "unknown schema format", "workers", "negative watch debounce"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadConfig_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typereflect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: src\npatterns: [./...]\noutput: schema.json\nstore: /var/lib/schemas.db\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "src"), cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "schema.json"), cfg.Output)
	assert.Equal(t, "/var/lib/schemas.db", cfg.Store)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typereflect.yaml")

	cfg, err := ParseConfig([]byte("frontend: decl\npatterns: ['*.yaml']\nwatch:\n  debounce: 2s\n"))
	require.NoError(t, err)
	require.NoError(t, WriteConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 2s")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Patterns, again.Patterns)
	assert.Equal(t, cfg.Watch, again.Watch)
	assert.Equal(t, FrontendDecl, again.Frontend)
}
