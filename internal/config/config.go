package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const devCSRFSecret = "dev-csrf-secret-change-in-production"

var (
	ErrAPIBaseURLRequired = errors.New("API_BASE_URL is required")
	ErrInsecureCSRFSecret = errors.New("CSRF_SECRET must be set in production environment")
)

// Config holds the application settings, read once at startup.
type Config struct {
	Host           string
	Port           string
	Env            string
	APIBaseURL     string
	StorePath      string
	SessionKey     string
	CSRFSecret     string
	RequestTimeout time.Duration
	PageSize       int
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
	LogFormat      string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Host:           getEnv("HOST", "127.0.0.1"),
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		APIBaseURL:     strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		StorePath:      getEnv("STORE_PATH", "blogdesk.db"),
		SessionKey:     os.Getenv("SESSION_KEY"),
		CSRFSecret:     getEnv("CSRF_SECRET", devCSRFSecret),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		PageSize:       getEnvInt("PAGE_SIZE", 6),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, ErrAPIBaseURLRequired
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("API_BASE_URL must be an absolute http(s) URL: %q", cfg.APIBaseURL)
	}

	if cfg.Env == "production" && cfg.CSRFSecret == devCSRFSecret {
		return Config{}, ErrInsecureCSRFSecret
	}

	if cfg.PageSize < 1 {
		cfg.PageSize = 6
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
