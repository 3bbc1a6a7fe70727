package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	PrivateKey    string
	DomainName    string
	DomainVersion string
	ChainID       uint64

	QuoteDeadlineHours int

	PricingMode string
	OpenAIKey   string
	OpenAIModel string

	AviationAPIKey  string
	AviationBaseURL string

	StatusCacheTTLSeconds int

	PostgresDSN string

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitMaxKeys       int
	RateLimitFailClosed    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:               addr,
		LogLevel:               envDefault("LOG_LEVEL", "info"),
		PrivateKey:             os.Getenv("PRIVATE_KEY"),
		DomainName:             envDefault("DOMAIN_NAME", "Flare Insurance dApp"),
		DomainVersion:          envDefault("DOMAIN_VERSION", "1"),
		ChainID:                uint64(envIntDefault("CHAIN_ID", 114)),
		QuoteDeadlineHours:     envIntDefault("QUOTE_DEADLINE_HOURS", 24),
		PricingMode:            envDefault("PRICING_MODE", "mock"),
		OpenAIKey:              os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:            os.Getenv("OPENAI_MODEL"),
		AviationAPIKey:         os.Getenv("AVIATIONSTACK_API_KEY"),
		AviationBaseURL:        os.Getenv("AVIATION_BASE_URL"),
		StatusCacheTTLSeconds:  envIntDefault("STATUS_CACHE_TTL_SECONDS", 300),
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds: envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:       envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RateLimitFailClosed:    envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) StatusCacheTTL() time.Duration {
	if c.StatusCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.StatusCacheTTLSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
