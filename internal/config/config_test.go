package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Scheduling.DefaultGranularityMinutes)
	assert.Equal(t, "America/Fortaleza", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, 720, cfg.Scheduling.MaxDurationMinutes)
	assert.Empty(t, cfg.RateLimit.TrustedProxies)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
port = 6432
user = "salon"
password = "secret"
dbname = "salon"
sslmode = "require"

[redis]
enabled = true
addr = "cache:6379"
ttl_seconds = 60

[scheduling]
default_granularity_minutes = 30
default_timezone = "Europe/Moscow"

[rate_limit]
enabled = true
requests_per_second = 5
burst = 10
trusted_proxies = ["10.0.0.0/8", "172.16.0.1"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "host=db port=6432 user=salon password=secret dbname=salon sslmode=require", cfg.Database.DSN())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, float64(60), cfg.Redis.TTL().Seconds())
	assert.Equal(t, 30, cfg.Scheduling.DefaultGranularityMinutes)
	assert.Equal(t, "Europe/Moscow", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.RateLimit.TrustedProxies)
	// Незаданные секции сохраняют значения по умолчанию
	assert.Equal(t, 720, cfg.Scheduling.MaxDurationMinutes)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
password = "from-file"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load("ignored.toml")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoad_InvalidToml(t *testing.T) {
	path := writeConfig(t, `[server`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"no granularity", func(c *Config) { c.Scheduling.DefaultGranularityMinutes = 0 }},
		{"unknown timezone", func(c *Config) { c.Scheduling.DefaultTimezone = "Mars/Olympus" }},
		{"redis ttl", func(c *Config) { c.Redis.Enabled = true; c.Redis.TTLSeconds = 0 }},
		{"rate limit", func(c *Config) { c.RateLimit.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}
