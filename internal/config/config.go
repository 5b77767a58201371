package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	DBDriver       string
	DBDsn          string
	RateLimitRPS   int
	RateLimitBurst int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getinti(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:           getinti("PORT", 8000),
		DBDriver:       getenv("DB_DRIVER", "sqlite"),
		DBDsn:          getenv("DB_DSN", "./data/vouchers.db"),
		RateLimitRPS:   getinti("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getinti("RATE_LIMIT_BURST", 40),
	}
}
