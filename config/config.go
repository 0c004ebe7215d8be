package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogDevelopment bool

	USDAAPIKey           string
	USDABaseURL          string
	OpenFoodFactsBaseURL string

	ProviderTimeout     time.Duration
	ProviderRatePerSec  float64
	ProviderBurst       int
	BreakerFailureRatio float64

	CacheTTL  time.Duration
	CacheSize int

	AWSRegion          string
	RecognitionEnabled bool
}

// Load reads .env when present and then the environment. Malformed values
// are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}
	cfg := &Config{
		Port:           p.str("PORT", "8080"),
		GinMode:        p.str("GIN_MODE", "release"),
		LogLevel:       p.str("LOG_LEVEL", "info"),
		LogDevelopment: p.boolean("LOG_DEVELOPMENT", false),

		USDAAPIKey:           p.str("USDA_API_KEY", "DEMO_KEY"),
		USDABaseURL:          p.str("USDA_BASE_URL", ""),
		OpenFoodFactsBaseURL: p.str("OFF_BASE_URL", ""),

		ProviderTimeout:     p.duration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderRatePerSec:  p.float("PROVIDER_RATE_PER_SEC", 5),
		ProviderBurst:       p.integer("PROVIDER_BURST", 10),
		BreakerFailureRatio: p.float("BREAKER_FAILURE_RATIO", 0.6),

		CacheTTL:  p.duration("CACHE_TTL", 5*time.Minute),
		CacheSize: p.integer("CACHE_SIZE", 512),

		AWSRegion:          p.str("AWS_REGION", ""),
		RecognitionEnabled: p.boolean("RECOGNITION_ENABLED", false),
	}

	if cfg.ProviderTimeout <= 0 {
		p.fail("PROVIDER_TIMEOUT", "must be positive")
	}
	if cfg.CacheTTL <= 0 {
		p.fail("CACHE_TTL", "must be positive")
	}
	if cfg.BreakerFailureRatio <= 0 || cfg.BreakerFailureRatio > 1 {
		p.fail("BREAKER_FAILURE_RATIO", "must be in (0, 1]")
	}
	if cfg.RecognitionEnabled && cfg.AWSRegion == "" {
		p.fail("AWS_REGION", "is required when RECOGNITION_ENABLED is set")
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) fail(key, msg string) {
	p.errs = append(p.errs, fmt.Errorf("%s %s", key, msg))
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, fmt.Sprintf("is not an integer: %q", v))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a number: %q", v))
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a duration: %q", v))
		return def
	}
	return d
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, fmt.Sprintf("is not a boolean: %q", v))
		return def
	}
	return b
}
