package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("process environment", func(t *testing.T) {
		withArgs(t)
		t.Setenv(envStorageBackend, "redis")
		t.Setenv(envRedisURL, "redis://cache:6379/2")
		t.Setenv(envRedisTTL, "24h")
		t.Setenv(envSignInDelay, "250ms")
		t.Setenv(envMaxPhotoBytes, "1024")
		t.Setenv(envSignInAttempts, "0")
		t.Setenv(envLogFormat, "json")

		var cfg Config
		cfg.LoadDefaults()
		parseEnv(&cfg)

		assert.Equal(t, BackendRedis, cfg.StorageBackend)
		assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
		assert.Equal(t, 24*time.Hour, cfg.RedisTTL)
		assert.Equal(t, 250*time.Millisecond, cfg.SignInDelay)
		assert.Equal(t, 1024, cfg.MaxPhotoBytes)
		assert.Equal(t, 0, cfg.SignInAttempts)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("dotenv file, environment wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte(
			"# comment\nLEARNKEEPER_DATA_DIR=/from/file\nLEARNKEEPER_LOG_LEVEL=debug\nUNRELATED=1\n"), 0o600))

		withArgs(t, "-env", path)
		t.Setenv(envLogLevel, "error")

		var cfg Config
		cfg.LoadDefaults()
		parseEnv(&cfg)

		assert.Equal(t, "/from/file", cfg.DataDir)
		assert.Equal(t, "error", cfg.LogLevel)
		_, set := os.LookupEnv("UNRELATED")
		assert.False(t, set, "the process environment is left alone")
	})

	t.Run("malformed duration panics", func(t *testing.T) {
		withArgs(t)
		t.Setenv(envSignInDelay, "soon")

		var cfg Config
		require.Panics(t, func() { parseEnv(&cfg) })
	})

	t.Run("missing env file panics", func(t *testing.T) {
		withArgs(t, "-env", filepath.Join(t.TempDir(), "nope.env"))

		var cfg Config
		require.Panics(t, func() { parseEnv(&cfg) })
	})
}
