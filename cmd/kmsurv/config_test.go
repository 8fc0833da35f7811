package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Time", cfg.TimeVar)
	assert.Equal(t, "Status", cfg.StatusVar)
	assert.Nil(t, cfg.TimeMin)
	assert.Equal(t, []string{"Time", "Status"}, cfg.floatVars())
}

func TestLoadConfigFile(t *testing.T) {

	path := writeFile(t, "cfg.yaml", `time: exit
status: dead
entry: enter
time_min: 2.5
query: [1, 2, 3]
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "exit", cfg.TimeVar)
	assert.Equal(t, "dead", cfg.StatusVar)
	assert.Equal(t, "enter", cfg.EntryVar)
	require.NotNil(t, cfg.TimeMin)
	assert.Equal(t, 2.5, *cfg.TimeMin)
	assert.Equal(t, []float64{1, 2, 3}, cfg.Query)
	assert.Equal(t, []string{"exit", "dead", "enter"}, cfg.floatVars())
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "tme: exit\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmpty(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Time", cfg.TimeVar)
}
