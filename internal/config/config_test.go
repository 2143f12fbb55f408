package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, stateFileEnv, credentialsFileEnv, archivePathEnv, logLevelEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Feeds["finance"])
	assert.Equal(t, 24*time.Hour, cfg.Fetch.MaxArticleAge())
	assert.Equal(t, 10, cfg.Fetch.Workers)
	assert.Equal(t, "data/processed_articles.json", cfg.Dedup.StateFile)
	assert.Equal(t, 7, cfg.Dedup.MaxHistoryDays)
	assert.Equal(t, 280, cfg.Summary.MaxLength)
	assert.Equal(t, 100, cfg.Summary.MinInformative)
	assert.True(t, cfg.Summary.IncludeSource)
	assert.Equal(t, 3, cfg.Publisher.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Publisher.RetryDelay())
	assert.Equal(t, time.Minute, cfg.Publisher.PostDelay())
	assert.Equal(t, 5, cfg.Publisher.MaxPosts)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}

func TestLoadMergesYAMLFile(t *testing.T) {
	clearConfigEnv(t)

	raw := `
logging:
  level: debug
feeds:
  tech:
    - https://example.com/tech.rss
summary:
  maxLength: 200
publisher:
  maxPosts: 2
scheduler:
  cronExpression: "*/30 * * * *"
  timezone: Europe/Berlin
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://example.com/tech.rss"}, cfg.Feeds["tech"])
	assert.NotContains(t, cfg.Feeds, "finance", "file feeds replace the defaults")
	assert.Equal(t, 200, cfg.Summary.MaxLength)
	assert.Equal(t, 100, cfg.Summary.MinInformative, "unset file fields keep defaults")
	assert.Equal(t, 2, cfg.Publisher.MaxPosts)
	assert.Equal(t, "*/30 * * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(stateFileEnv, "/tmp/state.json")
	t.Setenv(credentialsFileEnv, "/tmp/creds.json")
	t.Setenv(archivePathEnv, "/tmp/posts.db")
	t.Setenv(logLevelEnv, "warn")

	cfg := Load()

	assert.Equal(t, "/tmp/state.json", cfg.Dedup.StateFile)
	assert.Equal(t, "/tmp/creds.json", cfg.Publisher.CredentialsFile)
	assert.Equal(t, "/tmp/posts.db", cfg.Archive.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, 280, cfg.Summary.MaxLength)
}

func TestLoadCorruptFileFallsBack(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n broken: ["), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, 280, cfg.Summary.MaxLength)
}

func TestBindTimezoneUnknownRevertsToUTC(t *testing.T) {
	clearConfigEnv(t)

	raw := "scheduler:\n  timezone: Not/AZone\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}
