package widget

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCache(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	caches := map[string]LinkCache{
		"memory": NewLinkCache(nil, time.Minute),
		"redis":  NewLinkCache(client, time.Minute),
	}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			key := linkCacheKey("session-1", " Ada@Example.com ")
			assert.Equal(t, "kyc_link:session-1:ada@example.com", key)

			_, ok, err := cache.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, cache.Set(ctx, key, "https://inquiry.withpersona.com/abc"))

			link, ok, err := cache.Get(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "https://inquiry.withpersona.com/abc", link)

			require.NoError(t, cache.Delete(ctx, key))
			_, ok, _ = cache.Get(ctx, key)
			assert.False(t, ok)
		})
	}

	t.Run("entries expire", func(t *testing.T) {
		now := time.Now()
		mem := newMemoryLinkCache(time.Minute)
		mem.now = func() time.Time { return now }
		require.NoError(t, mem.Set(ctx, "k", "link"))

		now = now.Add(2 * time.Minute)
		_, ok, _ := mem.Get(ctx, "k")
		assert.False(t, ok)

		rc := NewLinkCache(client, time.Minute)
		require.NoError(t, rc.Set(ctx, "k", "link"))
		mr.FastForward(2 * time.Minute)
		_, ok, _ = rc.Get(ctx, "k")
		assert.False(t, ok)
	})
}
