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
	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Streak.RequiredStreak)
	assert.Equal(t, 3, cfg.Streak.RestoreLimit)
	assert.Equal(t, 60, cfg.Training.MilestoneInterval)
	assert.Equal(t, 60, cfg.Training.GlobalIntervalDays)
	assert.Equal(t, 60*time.Second, cfg.Forecast.ArtifactTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.1, cfg.Tracing.SampleRatio)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("streak:\n  required_streak: 10\ndatabase:\n  driver: sqlite\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("STREAK_RESTORE_LIMIT", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Streak.RequiredStreak)
	assert.Equal(t, 5, cfg.Streak.RestoreLimit)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)

	bad := *cfg
	bad.Database.Driver = "mysql"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Training.MilestoneInterval = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Streak.RequiredStreak = -1
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Tracing.SampleRatio = 1.5
	assert.Error(t, bad.Validate())
}

func TestAllowedOriginsSkipsBlanks(t *testing.T) {
	s := ServerConfig{CORSOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.AllowedOrigins())
	assert.Empty(t, ServerConfig{}.AllowedOrigins())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	assert.Contains(t, d.DSN(), "host=db")
	assert.Contains(t, d.DSN(), "dbname=n")
	assert.Contains(t, d.DSN(), "TimeZone=UTC")
}

// loadFromDir runs Load with the working directory switched to an empty dir so
// no config file is found.
func loadFromDir(t *testing.T, configPath string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return Load(configPath)
}
