package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/learnkeeper/internal/flagx"
)

var knownFlags = []string{"-d", "-db", "-s", "-r", "-ttl", "-p", "-m", "-delay", "-attempts", "-photo-max", "-l", "-f"}

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs first so flags owned by other loaders
// (-c, -env) do not trip the parser. Panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend: sqlite, redis or memory")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "Redis URL")
	fs.DurationVar(&cfg.RedisTTL, "ttl", cfg.RedisTTL, "Redis key TTL")
	fs.StringVar(&cfg.KeyPrefix, "p", cfg.KeyPrefix, "storage key prefix")
	fs.IntVar(&cfg.ModuleCount, "m", cfg.ModuleCount, "number of modules")
	fs.DurationVar(&cfg.SignInDelay, "delay", cfg.SignInDelay, "simulated network delay")
	fs.IntVar(&cfg.SignInAttempts, "attempts", cfg.SignInAttempts, "sign-in attempts per email per minute, 0 for unlimited")
	fs.IntVar(&cfg.MaxPhotoBytes, "photo-max", cfg.MaxPhotoBytes, "largest profile photo in bytes")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text or json")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
