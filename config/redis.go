package config

import (
	"github.com/spf13/viper"
)

// RedisConfiguration type defines the redis configurations
type RedisConfiguration struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisConfig sets the redis configuration
func RedisConfig() *RedisConfiguration {
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	return &RedisConfiguration{
		Enabled:  viper.GetBool("REDIS_ENABLED"),
		Host:     viper.GetString("REDIS_HOST"),
		Port:     viper.GetString("REDIS_PORT"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
	}
}
