package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string
	RedisAddr   string

	GoogleWebClientID string

	DefaultLocale string
	LogLevel      string

	AuthRateLimitPerMin int
	APIRateLimitPerMin  int
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		GoogleWebClientID:   os.Getenv("GOOGLE_WEB_CLIENT_ID"),
		DefaultLocale:       getEnv("DEFAULT_LOCALE", "ko"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AuthRateLimitPerMin: getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitPerMin:  getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Production() && c.GoogleWebClientID == "" {
		errs = append(errs, "GOOGLE_WEB_CLIENT_ID is required in production")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	switch c.DefaultLocale {
	case "ko", "en":
	default:
		errs = append(errs, "DEFAULT_LOCALE must be ko or en")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Production gates the verification-code response: in production the code is
// dispatched through the notifier and withheld from the caller.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
