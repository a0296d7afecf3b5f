package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/learnkeeper/internal/client/config"
	"github.com/dmitrijs2005/learnkeeper/internal/storage"
)

// openBackend builds the durable backend named by the config.
func openBackend(ctx context.Context, c *config.Config) (storage.Backend, error) {
	switch c.StorageBackend {
	case config.BackendSQLite:
		if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return storage.OpenSQLite(ctx, c.DatabasePath())
	case config.BackendRedis:
		return storage.NewRedisBackend(ctx, c.RedisURL, c.RedisTTL)
	case config.BackendMemory:
		return storage.NewMemoryBackend(0), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}
