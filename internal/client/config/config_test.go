package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"testbin"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.NotEmpty(t, c.DataDir)
	assert.Equal(t, "learnkeeper.db", c.DatabaseFile)
	assert.Equal(t, BackendSQLite, c.StorageBackend)
	assert.Equal(t, "learnkeeper:", c.KeyPrefix)
	assert.Equal(t, 5, c.ModuleCount)
	assert.Equal(t, time.Second, c.SignInDelay)
	assert.Equal(t, 5, c.SignInAttempts)
	assert.Equal(t, 5<<20, c.MaxPhotoBytes)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, time.Second, cfg.SignInDelay)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()

	envFile := filepath.Join(dir, "app.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"LEARNKEEPER_STORAGE_BACKEND=memory\nLEARNKEEPER_KEY_PREFIX=env:\nLEARNKEEPER_MODULE_COUNT=7\n"), 0o600))
	jsonFile := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"key_prefix":   "json:",
		"module_count": 8,
	})

	t.Setenv(envModuleCount, "6")
	withArgs(t, "-env", envFile, "-c", jsonFile, "-m", "9")

	cfg := LoadConfig()

	assert.Equal(t, BackendMemory, cfg.StorageBackend, "from the env file")
	assert.Equal(t, "json:", cfg.KeyPrefix, "JSON beats env")
	assert.Equal(t, 9, cfg.ModuleCount, "flags beat everything")
}

func TestDatabasePath(t *testing.T) {
	c := Config{DataDir: "/data", DatabaseFile: "lk.db"}
	assert.Equal(t, filepath.Join("/data", "lk.db"), c.DatabasePath())

	c.DatabaseFile = "/elsewhere/lk.db"
	assert.Equal(t, "/elsewhere/lk.db", c.DatabasePath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.StorageBackend = "etcd" }, true},
		{"redis without url", func(c *Config) { c.StorageBackend = BackendRedis; c.RedisURL = "" }, true},
		{"memory without database file", func(c *Config) { c.StorageBackend = BackendMemory; c.DatabaseFile = "" }, false},
		{"sqlite without database file", func(c *Config) { c.DatabaseFile = "" }, true},
		{"no modules", func(c *Config) { c.ModuleCount = 0 }, true},
		{"negative attempts", func(c *Config) { c.SignInAttempts = -1 }, true},
		{"negative delay", func(c *Config) { c.SignInDelay = -time.Second }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
