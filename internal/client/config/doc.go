// Package config loads runtime configuration for the LearnKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-env, or ./.env when present) overlaid by LEARNKEEPER_*
//     process environment variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string      data directory
//	-db string     SQLite database file, relative to the data directory
//	-s string      storage backend: sqlite, redis or memory
//	-r string      Redis URL
//	-ttl duration  Redis key TTL (0 keeps keys forever)
//	-p string      storage key prefix
//	-m int         number of modules in the catalog
//	-delay duration simulated network delay on sign-in/sign-up
//	-attempts int  sign-in attempts per email per minute (0 = unlimited)
//	-photo-max int largest accepted profile photo in bytes
//	-l string      log level
//	-f string      log format: text or json
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "1s" or integer
// nanoseconds:
//
//	{
//	  "data_dir": "/var/lib/learnkeeper",
//	  "storage_backend": "redis",
//	  "redis_url": "redis://localhost:6379/0",
//	  "redis_ttl": "720h",
//	  "sign_in_delay": "1s"
//	}
package config
