package config_test

import (
	"testing"

	"storectl/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 100, cfg.Retry.InitialBackoffMs)
	assert.Equal(t, 10000, cfg.Retry.MaxBackoffMs)
	assert.Equal(t, 4, cfg.Transfer.Parallel)
	assert.Equal(t, 1000, cfg.Transfer.ListPageSize)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("TRANSFER_PARALLEL", "16")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
	assert.Equal(t, 16, cfg.Transfer.Parallel)
	assert.Equal(t, "debug", cfg.Log.Level)
}
