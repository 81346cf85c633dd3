package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "skill-gap")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Admin.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Analysis.TTL)
	assert.Equal(t, 10<<20, cfg.Analysis.MaxUploadBytes)
	assert.Equal(t, `^Unnamed`, cfg.Analysis.UnnamedPattern)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, 4, cfg.Scraper.Workers)
	assert.Equal(t, "skill-gap:", cfg.Redis.KeyPrefix)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoad_Invalid(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ANALYSIS_TTL", "soon")
	t.Setenv("REDIS_DB", "zero")
	t.Setenv("UNNAMED_COLUMN_PATTERN", "([")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_TTL")
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Contains(t, err.Error(), "UNNAMED_COLUMN_PATTERN")
}

func TestLoad_RejectsZeroAnalysisTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ANALYSIS_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_TTL")
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "skills")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("ADMIN_USERNAME", "hr")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("ANALYSIS_TTL", "5m")
	t.Setenv("SCRAPER_HEADLESS", "true")
	t.Setenv("COURSE_MATCH_EXACT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.True(t, cfg.Admin.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Analysis.TTL)
	assert.True(t, cfg.Scraper.Headless)
	assert.True(t, cfg.Catalog.ExactMatch)
}
