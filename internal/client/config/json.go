package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/learnkeeper/internal/flagx"
	"github.com/dmitrijs2005/learnkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration; fields left out of the file keep their current
// value.
type JsonConfig struct {
	DataDir        string          `json:"data_dir"`
	DatabaseFile   string          `json:"database_file"`
	StorageBackend string          `json:"storage_backend"`
	RedisURL       string          `json:"redis_url"`
	RedisTTL       timex.Duration  `json:"redis_ttl"`
	KeyPrefix      *string         `json:"key_prefix"`
	ModuleCount    int             `json:"module_count"`
	SignInDelay    *timex.Duration `json:"sign_in_delay"`
	SignInAttempts *int            `json:"sign_in_attempts"`
	MaxPhotoBytes  int             `json:"max_photo_bytes"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseFile, jc.DatabaseFile)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RedisTTL.Duration != 0 {
		cfg.RedisTTL = jc.RedisTTL.Duration
	}
	if jc.KeyPrefix != nil {
		cfg.KeyPrefix = *jc.KeyPrefix
	}
	if jc.ModuleCount != 0 {
		cfg.ModuleCount = jc.ModuleCount
	}
	if jc.SignInDelay != nil {
		cfg.SignInDelay = jc.SignInDelay.Duration
	}
	if jc.SignInAttempts != nil {
		cfg.SignInAttempts = *jc.SignInAttempts
	}
	if jc.MaxPhotoBytes != 0 {
		cfg.MaxPhotoBytes = jc.MaxPhotoBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
