package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "shelterscanner.db", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.Equal(t, []string{"all"}, cfg.Ingestion.Species)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, "shelterpage", cfg.Sites[0].Scanner)
}

func TestLoadFileMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /var/lib/shelter.db
scheduler:
  interval: 30m
  timezone: America/New_York
ingestion:
  locations: ["Austin, TX", "Dallas, TX"]
  species: ["dog", "cat"]
sites:
  - name: metro-api
    scanner: petapi
    url: https://api.example.org/v2
    options:
      api_key: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/shelter.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, "America/New_York", cfg.Scheduler.Location().String())
	assert.Equal(t, []string{"Austin, TX", "Dallas, TX"}, cfg.Ingestion.Locations)
	assert.Equal(t, 2, cfg.Ingestion.Concurrency, "missing values come from defaults")
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, "secret", cfg.Sites[0].Options["api_key"])
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":9000\"\n")
	t.Setenv(httpAddrEnv, ":7000")
	t.Setenv(databasePathEnv, "/tmp/override.db")
	t.Setenv(smtpPortEnv, "2525")
	t.Setenv(schedulerIntervalEn, "15m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, 2525, cfg.Notifications.SMTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  timezone: Mars/Olympus\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "sites: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	require.Len(t, cfg.Sites, 3)
	assert.Equal(t, []string{"shelterpage", "petapi", "rssfeed"}, []string{cfg.Sites[0].Scanner, cfg.Sites[1].Scanner, cfg.Sites[2].Scanner})
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "24", cfg.Sites[0].Options["page_size"])
}
