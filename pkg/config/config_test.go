package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/minifier"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
compress:
  target: es5
  drop_console: true
  booleans: false
output:
  dir: dist
jobs: 4
`))
	require.NoError(t, err)

	assert.Equal(t, minifier.ES5, cfg.Compress.Target)
	assert.True(t, cfg.Compress.DropConsole)
	assert.False(t, cfg.Compress.Booleans)
	assert.True(t, cfg.Compress.Typeofs, "unset fields keep their defaults")
	assert.True(t, cfg.Compress.DropDebugger)
	assert.Equal(t, "dist", cfg.Output.Dir)
	assert.Equal(t, ".min", cfg.Output.Suffix)
	assert.Equal(t, 4, cfg.Jobs)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "compress:\n  drop_consol: true\n", "field drop_consol not found"},
		{"unknown target", "compress:\n  target: es3\n", `unknown target "es3"`},
		{"negative jobs", "jobs: -1\n", "jobs must not be negative"},
		{"wrong type", "jobs: many\n", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "squash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compress:\n  dead_code_only: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Compress.DeadCodeOnly)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
