package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"self"}, cfg.AWS.OwnerIDs)
	assert.Equal(t, "0 3 * * *", cfg.Schedule.Cron)
	assert.False(t, cfg.Policy.RequireRunningAttachment)
	assert.False(t, cfg.Reclaim.DryRun)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("RECLAIMER_TEST_REGION", "eu-west-1")

	path := writeFile(t, "config.yaml", `
aws:
  region: $(RECLAIMER_TEST_REGION)
  ownerIds: ["123456789012"]
policy:
  protectTags:
    keep: ""
  minAge: 72h
reclaim:
  dryRun: true
  maxDeletes: 25
logging:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, []string{"123456789012"}, cfg.AWS.OwnerIDs)
	assert.Equal(t, map[string]string{"keep": ""}, cfg.Policy.ProtectTags)
	assert.Equal(t, 72*time.Hour, cfg.Policy.MinAge)
	assert.True(t, cfg.Reclaim.DryRun)
	assert.Equal(t, 25, cfg.Reclaim.MaxDeletes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched sections keep their defaults
	assert.Equal(t, "snapshot-reclaimer", cfg.Metrics.Job)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad cron", "schedule:\n  cron: \"every day\"\n"},
		{"negative max deletes", "reclaim:\n  maxDeletes: -1\n"},
		{"unknown log format", "logging:\n  format: xml\n"},
		{"empty owner list", "aws:\n  ownerIds: []\n"},
		{"bad reload method", "configReload:\n  method: inotify\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(""))

	path := writeFile(t, ".env", "RECLAIMER_TEST_FROM_ENV_FILE=from-file\n")
	t.Setenv("RECLAIMER_TEST_FROM_ENV_FILE", "")
	os.Unsetenv("RECLAIMER_TEST_FROM_ENV_FILE")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("RECLAIMER_TEST_FROM_ENV_FILE"))
}
