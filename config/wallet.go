package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WalletConfiguration defines how the widget session talks to the wallet backend
type WalletConfiguration struct {
	// Backend
	BackendURL          string
	CSRFToken           string
	SessionCookie       string
	RequestTimeout      time.Duration
	BalanceFallbackPath string

	// Cross-origin messages
	AppOrigin      string
	AllowedOrigins []string

	// Session behaviour
	PollInterval     time.Duration
	SearchDebounce   time.Duration
	SearchLimit      int
	ReloadDelay      time.Duration
	ActivityPageSize int
	DefaultChain     string
	KycLinkTTL       time.Duration
}

// WalletConfig returns the wallet backend and widget session configuration
func WalletConfig() *WalletConfiguration {
	viper.SetDefault("WALLET_BACKEND_URL", "http://localhost:8000")
	viper.SetDefault("WALLET_CSRF_TOKEN", "")
	viper.SetDefault("WALLET_SESSION_COOKIE", "")
	viper.SetDefault("WALLET_REQUEST_TIMEOUT", 30)
	viper.SetDefault("WALLET_BALANCE_FALLBACK_PATH", "/wallet/bridge/balance")
	viper.SetDefault("WALLET_APP_ORIGIN", "http://localhost:8000")
	viper.SetDefault("WALLET_ALLOWED_ORIGINS", "bridge.xyz,withpersona.com")
	viper.SetDefault("WALLET_POLL_INTERVAL", 15)
	viper.SetDefault("WALLET_SEARCH_DEBOUNCE_MS", 300)
	viper.SetDefault("WALLET_SEARCH_LIMIT", 10)
	viper.SetDefault("WALLET_RELOAD_DELAY_MS", 2000)
	viper.SetDefault("WALLET_ACTIVITY_PAGE_SIZE", 20)
	viper.SetDefault("WALLET_DEFAULT_CHAIN", "solana")
	viper.SetDefault("WALLET_KYC_LINK_TTL", 3600)

	return &WalletConfiguration{
		BackendURL:          strings.TrimRight(viper.GetString("WALLET_BACKEND_URL"), "/"),
		CSRFToken:           viper.GetString("WALLET_CSRF_TOKEN"),
		SessionCookie:       viper.GetString("WALLET_SESSION_COOKIE"),
		RequestTimeout:      time.Duration(viper.GetInt("WALLET_REQUEST_TIMEOUT")) * time.Second,
		BalanceFallbackPath: viper.GetString("WALLET_BALANCE_FALLBACK_PATH"),
		AppOrigin:           viper.GetString("WALLET_APP_ORIGIN"),
		AllowedOrigins:      splitList(viper.GetString("WALLET_ALLOWED_ORIGINS")),
		PollInterval:        time.Duration(viper.GetInt("WALLET_POLL_INTERVAL")) * time.Second,
		SearchDebounce:      time.Duration(viper.GetInt("WALLET_SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		SearchLimit:         viper.GetInt("WALLET_SEARCH_LIMIT"),
		ReloadDelay:         time.Duration(viper.GetInt("WALLET_RELOAD_DELAY_MS")) * time.Millisecond,
		ActivityPageSize:    viper.GetInt("WALLET_ACTIVITY_PAGE_SIZE"),
		DefaultChain:        viper.GetString("WALLET_DEFAULT_CHAIN"),
		KycLinkTTL:          time.Duration(viper.GetInt("WALLET_KYC_LINK_TTL")) * time.Second,
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
