package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the LearnKeeper CLI.
type Config struct {
	DataDir        string        `validate:"required"`
	DatabaseFile   string        `validate:"required_if=StorageBackend sqlite"`
	StorageBackend string        `validate:"oneof=sqlite redis memory"`
	RedisURL       string        `validate:"required_if=StorageBackend redis"`
	RedisTTL       time.Duration `validate:"min=0"`
	KeyPrefix      string
	ModuleCount    int           `validate:"min=1,max=100"`
	SignInDelay    time.Duration `validate:"min=0"`
	SignInAttempts int           `validate:"min=0"`
	MaxPhotoBytes  int           `validate:"min=0"`
	LogLevel       string        `validate:"oneof=debug info warn warning error"`
	LogFormat      string        `validate:"oneof=text json"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.DatabaseFile = "learnkeeper.db"
	c.StorageBackend = BackendSQLite
	c.RedisURL = "redis://localhost:6379/0"
	c.RedisTTL = 0
	c.KeyPrefix = "learnkeeper:"
	c.ModuleCount = 5
	c.SignInDelay = time.Second
	c.SignInAttempts = 5
	c.MaxPhotoBytes = 5 << 20
	c.LogLevel = "info"
	c.LogFormat = "text"
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "learnkeeper")
	}
	return ".learnkeeper"
}

// DatabasePath is where the SQLite file lives.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
