package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// SetupConfig loads the .env file (if any) and binds the environment.
func SetupConfig() error {
	viper.AddConfigPath("../../..")
	viper.AddConfigPath("../..")
	viper.AddConfigPath("..")
	viper.AddConfigPath(".")

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	viper.SetConfigName(envFilePath)
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running from the environment alone is fine (containers, tests)
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		fmt.Printf("Error to reading config file, %s", err)
		return err
	}

	return nil
}

func init() {
	if err := SetupConfig(); err != nil {
		panic(fmt.Sprintf("config SetupConfig() error: %s", err))
	}
}
