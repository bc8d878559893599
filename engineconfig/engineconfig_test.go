package engineconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.Equal(t, 10000, cfg.Engine.DefaultTrials)
	assert.Equal(t, 4, cfg.Engine.DefaultWorkers)
	assert.Equal(t, 100, cfg.Engine.MaxTrialRetries)
}

func TestLoadEngineConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadEngineConfig("/nonexistent/engine.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), cfg)
}

func TestLoadEngineConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/engine.hcl"
	contents := `
engine {
  default_trials = 50000
  default_workers = 8
  log_level = "debug"
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50000, cfg.Engine.DefaultTrials)
	assert.Equal(t, 8, cfg.Engine.DefaultWorkers)
	assert.Equal(t, "debug", cfg.Engine.LogLevel)
	assert.Equal(t, 100, cfg.Engine.MaxTrialRetries) // falls back to default
}
