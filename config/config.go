package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Port        int
	PublicURL   string

	UpstreamURL     string
	UpstreamTimeout time.Duration

	SessionCookieName string

	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int
}

func InitConfig() (Config, error) {
	viper.SetEnvPrefix("PF")
	viper.AutomaticEnv()

	viper.SetDefault("ENV", "development")
	viper.SetDefault("PORT", 4321)
	viper.SetDefault("PUBLIC_URL", "http://localhost:4321")
	viper.SetDefault("UPSTREAM_TIMEOUT", "30s")
	viper.SetDefault("SESSION_COOKIE", "pf_session")
	viper.SetDefault("DB_PATH", "data/peoplefinder.db")
	viper.SetDefault("CACHE_ADDRESS", "localhost")
	viper.SetDefault("CACHE_PORT", 6379)

	config := Config{
		Environment:          viper.GetString("ENV"),
		Port:                 viper.GetInt("PORT"),
		PublicURL:            viper.GetString("PUBLIC_URL"),
		UpstreamURL:          viper.GetString("UPSTREAM_URL"),
		UpstreamTimeout:      viper.GetDuration("UPSTREAM_TIMEOUT"),
		SessionCookieName:    viper.GetString("SESSION_COOKIE"),
		DatabaseDbPath:       viper.GetString("DB_PATH"),
		DatabaseCacheAddress: viper.GetString("CACHE_ADDRESS"),
		DatabaseCachePort:    viper.GetInt("CACHE_PORT"),
	}

	if config.UpstreamURL == "" {
		return Config{}, fmt.Errorf("PF_UPSTREAM_URL is required")
	}

	return config, nil
}
