package storage

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeRedis(t *testing.T) {
	t.Cleanup(func() {
		_ = CloseRedis()
		RedisClient = nil
		for _, key := range []string{"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT"} {
			viper.Set(key, nil)
		}
	})

	t.Run("disabled leaves the client nil", func(t *testing.T) {
		viper.Set("REDIS_ENABLED", false)

		require.NoError(t, InitializeRedis())
		assert.Nil(t, RedisClient)
	})

	t.Run("enabled connects", func(t *testing.T) {
		mr := miniredis.RunT(t)
		viper.Set("REDIS_ENABLED", true)
		viper.Set("REDIS_HOST", mr.Host())
		viper.Set("REDIS_PORT", mr.Port())

		require.NoError(t, InitializeRedis())
		assert.NotNil(t, RedisClient)
	})

	t.Run("unreachable server fails", func(t *testing.T) {
		RedisClient = nil
		viper.Set("REDIS_ENABLED", true)
		viper.Set("REDIS_HOST", "127.0.0.1")
		viper.Set("REDIS_PORT", "1")

		assert.Error(t, InitializeRedis())
		assert.Nil(t, RedisClient)
	})
}
