package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestWalletConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf := WalletConfig()

		assert.Equal(t, 300*time.Millisecond, conf.SearchDebounce)
		assert.Equal(t, "solana", conf.DefaultChain)
		assert.Equal(t, 20, conf.ActivityPageSize)
		assert.Contains(t, conf.AllowedOrigins, "bridge.xyz")
	})

	t.Run("overrides", func(t *testing.T) {
		viper.Set("WALLET_BACKEND_URL", "https://app.example.com/")
		viper.Set("WALLET_ALLOWED_ORIGINS", " bridge.xyz , ,withpersona.com")
		viper.Set("WALLET_POLL_INTERVAL", 5)
		t.Cleanup(func() {
			viper.Set("WALLET_BACKEND_URL", nil)
			viper.Set("WALLET_ALLOWED_ORIGINS", nil)
			viper.Set("WALLET_POLL_INTERVAL", nil)
		})

		conf := WalletConfig()

		assert.Equal(t, "https://app.example.com", conf.BackendURL)
		assert.Equal(t, []string{"bridge.xyz", "withpersona.com"}, conf.AllowedOrigins)
		assert.Equal(t, 5*time.Second, conf.PollInterval)
	})
}
