package cache

import (
	"fmt"
	"io"

	"github.com/panellens/backend/internal/domain"
)

// Cache is a CacheRepository that owns resources to release on shutdown
type Cache interface {
	domain.CacheRepository
	io.Closer
}

// New builds the cache selected by cacheType ("memory" or "redis")
func New(cacheType, redisURL string) (Cache, error) {
	switch cacheType {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(redisURL)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cacheType)
	}
}
