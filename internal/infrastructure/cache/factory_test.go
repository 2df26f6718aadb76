package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("memory cache by default", func(t *testing.T) {
		c, err := New("", "")
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &MemoryCache{}, c)
	})

	t.Run("explicit memory cache", func(t *testing.T) {
		c, err := New("memory", "")
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &MemoryCache{}, c)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New("memcached", "")
		assert.Error(t, err)
	})

	t.Run("redis with malformed url", func(t *testing.T) {
		_, err := New("redis", "not a url")
		assert.Error(t, err)
	})
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewRedisCacheWithClient(client, "")
	assert.Equal(t, "panellens:session:abc", c.key("session:abc"))

	custom := NewRedisCacheWithClient(client, "test:")
	assert.Equal(t, "test:shipments:y=2024", custom.key("shipments:y=2024"))
}
