package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/learnkeeper/internal/flagx"
)

const defaultEnvFile = ".env"

const (
	envDataDir        = "LEARNKEEPER_DATA_DIR"
	envDatabaseFile   = "LEARNKEEPER_DATABASE_FILE"
	envStorageBackend = "LEARNKEEPER_STORAGE_BACKEND"
	envRedisURL       = "LEARNKEEPER_REDIS_URL"
	envRedisTTL       = "LEARNKEEPER_REDIS_TTL"
	envKeyPrefix      = "LEARNKEEPER_KEY_PREFIX"
	envModuleCount    = "LEARNKEEPER_MODULE_COUNT"
	envSignInDelay    = "LEARNKEEPER_SIGN_IN_DELAY"
	envSignInAttempts = "LEARNKEEPER_SIGN_IN_ATTEMPTS"
	envMaxPhotoBytes  = "LEARNKEEPER_MAX_PHOTO_BYTES"
	envLogLevel       = "LEARNKEEPER_LOG_LEVEL"
	envLogFormat      = "LEARNKEEPER_LOG_FORMAT"
)

var envKeys = []string{
	envDataDir, envDatabaseFile, envStorageBackend, envRedisURL, envRedisTTL,
	envKeyPrefix, envModuleCount, envSignInDelay, envSignInAttempts, envMaxPhotoBytes, envLogLevel, envLogFormat,
}

// parseEnv overlays Config with LEARNKEEPER_* variables.
//
// Variables come from a dotenv file first (the -env flag, or ./.env when it
// exists) and then from the process environment, which wins. The process
// environment itself is never modified. Panics on unreadable files or
// malformed numbers and durations.
func parseEnv(cfg *Config) {
	vars := make(map[string]string)

	path := flagx.EnvFilePath(os.Args[1:])
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			path = defaultEnvFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			panic(err)
		}
		for _, key := range envKeys {
			if v, ok := fileVars[key]; ok {
				vars[key] = v
			}
		}
	}

	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}

	applyEnv(cfg, vars)
}

func applyEnv(cfg *Config, vars map[string]string) {
	for key, v := range vars {
		switch key {
		case envDataDir:
			cfg.DataDir = v
		case envDatabaseFile:
			cfg.DatabaseFile = v
		case envStorageBackend:
			cfg.StorageBackend = v
		case envRedisURL:
			cfg.RedisURL = v
		case envRedisTTL:
			cfg.RedisTTL = mustDuration(key, v)
		case envKeyPrefix:
			cfg.KeyPrefix = v
		case envModuleCount:
			cfg.ModuleCount = mustInt(key, v)
		case envSignInDelay:
			cfg.SignInDelay = mustDuration(key, v)
		case envSignInAttempts:
			cfg.SignInAttempts = mustInt(key, v)
		case envMaxPhotoBytes:
			cfg.MaxPhotoBytes = mustInt(key, v)
		case envLogLevel:
			cfg.LogLevel = v
		case envLogFormat:
			cfg.LogFormat = v
		}
	}
}

func mustDuration(key, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return d
}

func mustInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return n
}
