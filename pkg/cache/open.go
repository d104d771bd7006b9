package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string // none, file, redis or mongo; empty means file
	Dir     string // FileCache directory
	URL     string // Redis or MongoDB connection string
}

// Open constructs the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis cache: no url configured")
		}
		c, err := NewRedisCache(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo cache: no url configured")
		}
		c, err := NewMongoCache(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
