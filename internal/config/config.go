package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	minSessionSecretLen = 32
	minAdminPasswordLen = 8
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	SecureCookies bool

	LogLevel  string
	LogFormat string

	AdminUsername string
	AdminPassword string

	OverdueCheckInterval  time.Duration
	LowStockCheckInterval time.Duration

	LoginRatePerMinute int
	LoginRateBurst     int
}

// Load reads .env (if present) and the environment. Missing required settings are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := parse(newViper())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("ADMIN_USERNAME", "admin@stock.local")
	v.SetDefault("OVERDUE_CHECK_INTERVAL", 15*time.Minute)
	v.SetDefault("LOW_STOCK_CHECK_INTERVAL", 24*time.Hour)
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	return v
}

func parse(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDSN:                 v.GetString("DB_DSN"),
		ServerPort:            v.GetString("SERVER_PORT"),
		SessionSecret:         v.GetString("SESSION_SECRET"),
		SecureCookies:         v.GetBool("SECURE_COOKIES"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		AdminUsername:         v.GetString("ADMIN_USERNAME"),
		AdminPassword:         v.GetString("ADMIN_PASSWORD"),
		OverdueCheckInterval:  v.GetDuration("OVERDUE_CHECK_INTERVAL"),
		LowStockCheckInterval: v.GetDuration("LOW_STOCK_CHECK_INTERVAL"),
		LoginRatePerMinute:    v.GetInt("LOGIN_RATE_PER_MINUTE"),
		LoginRateBurst:        v.GetInt("LOGIN_RATE_BURST"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if len(cfg.SessionSecret) < minSessionSecretLen {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD is not set")
	}
	if len(cfg.AdminPassword) < minAdminPasswordLen {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minAdminPasswordLen)
	}
	if cfg.LoginRatePerMinute <= 0 {
		return nil, errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	if cfg.LoginRateBurst <= 0 {
		cfg.LoginRateBurst = 1
	}

	return cfg, nil
}
