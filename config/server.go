package config

import (
	"github.com/spf13/viper"
)

// ServerConfiguration type defines the server configurations
type ServerConfiguration struct {
	Debug                    bool
	Host                     string
	Port                     string
	Timezone                 string
	Environment              string
	SentryDSN                string
	TrustedProxies           []string
	RateLimitUnauthenticated int
}

// ServerConfig sets the server configuration
func ServerConfig() *ServerConfiguration {
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8010")
	viper.SetDefault("SERVER_TIMEZONE", "UTC")
	viper.SetDefault("ENVIRONMENT", "local")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("RATE_LIMIT_UNAUTHENTICATED", 20)

	return &ServerConfiguration{
		Debug:                    viper.GetBool("DEBUG"),
		Host:                     viper.GetString("SERVER_HOST"),
		Port:                     viper.GetString("SERVER_PORT"),
		Timezone:                 viper.GetString("SERVER_TIMEZONE"),
		Environment:              viper.GetString("ENVIRONMENT"),
		SentryDSN:                viper.GetString("SENTRY_DSN"),
		TrustedProxies:           splitList(viper.GetString("TRUSTED_PROXIES")),
		RateLimitUnauthenticated: viper.GetInt("RATE_LIMIT_UNAUTHENTICATED"),
	}
}
