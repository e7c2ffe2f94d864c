package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFiles(t *testing.T, common, worker string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.toml"), []byte(common), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "worker.toml"), []byte(worker), 0o644))

	t.Chdir(dir)
}

const validCommon = `
[common]
version = 1

[common.debug]
log_level = "debug"
max_logs_to_keep = 5

[common.postgresql]
host = "localhost"
port = 5432
user = "test"
password = "test"
db_name = "test"

[common.redis]
host = "localhost"
port = 6379

[common.api.server]
host = "127.0.0.1"
port = 8080

[common.api.auth]
session_secret = "secret"
issuer = "ifyoumind"

[common.api.rate_limit]
requests_per_second = 5.0
burst_size = 10
strike_limit = 3
block_duration = 300
`

const validWorker = `
[worker]
version = 1

[worker.trending]
interval_minutes = 60
lookback_hours = 72
batch_size = 500
`

func TestLoadConfig(t *testing.T) {
	writeConfigFiles(t, validCommon, validWorker)

	cfg, path, err := config.LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
	assert.Equal(t, 8080, cfg.Common.API.Server.Port)
	assert.InDelta(t, 5.0, cfg.Common.API.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 60, cfg.Worker.Trending.IntervalMinutes)
	assert.Equal(t, 72, cfg.Worker.Trending.LookbackHours)
	assert.Equal(t, 500, cfg.Worker.Trending.BatchSize)
}

func TestLoadConfigMissingFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestLoadConfigMissingVersion(t *testing.T) {
	writeConfigFiles(t, "[common]\n", validWorker)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMissing)
}

func TestLoadConfigVersionMismatch(t *testing.T) {
	writeConfigFiles(t, "[common]\nversion = 99\n", validWorker)

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
}
