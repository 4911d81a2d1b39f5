package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(42), cfg.Training.RandomSeed())
	assert.Equal(t, 0.2, cfg.Training.TestFraction)
	assert.Equal(t, 10*time.Second, cfg.Extraction.Timeout.Std())
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval.Std())
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.NotEmpty(t, cfg.Feeds)
}

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: info
training:
  lowCredibilityPath: /data/fake.csv
  seed: 7
artifacts:
  modelPath: /models/model.json
extraction:
  timeout: 3s
redis:
  addr: localhost:6379
  ttl: 1h
scheduler:
  interval: 30m
  timezone: Europe/Berlin
feeds:
  - name: wire
    url: https://wire.example/rss
`), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(logLevelEnv, "warn")
	t.Setenv(databaseDSNEnv, "file:history.db")

	cfg := Load()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/data/fake.csv", cfg.Training.LowCredibilityPath)
	assert.Equal(t, "data/True.csv", cfg.Training.HighCredibilityPath)
	assert.Equal(t, uint64(7), cfg.Training.RandomSeed())
	assert.Equal(t, "/models/model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "models/metrics.json", cfg.Artifacts.MetricsPath)
	assert.Equal(t, 3*time.Second, cfg.Extraction.Timeout.Std())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL.Std())
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval.Std())
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.Equal(t, "file:history.db", cfg.Database.DSN)
	assert.Equal(t, []FeedConfig{{Name: "wire", URL: "https://wire.example/rss"}}, cfg.Feeds)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"

[database]
driver = "postgres"
dsn = "postgres://localhost/credscan"

[scheduler]
interval = "15m"

[[feeds]]
name = "a"
url = "https://a.example/rss"
`), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(serverAddrEnv, "")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/credscan", cfg.Database.DSN)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval.Std())
	assert.Len(t, cfg.Feeds, 1)
}

func TestLoadFallsBackOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(logLevelEnv, "")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, defaultConfig().Artifacts, Load().Artifacts)
}

func TestUnknownTimezoneFallsBack(t *testing.T) {
	cfg := defaultConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus"
	cfg.bindTimezone()
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadKeepsZeroSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training:\n  seed: 0\n"), 0o644))

	t.Setenv(configPathEnv, path)

	cfg := Load()
	require.NotNil(t, cfg.Training.Seed)
	assert.Equal(t, uint64(0), cfg.Training.RandomSeed())

	tomlPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[training]\nseed = 0\n"), 0o644))
	t.Setenv(configPathEnv, tomlPath)
	assert.Equal(t, uint64(0), Load().Training.RandomSeed())
}
