package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/hoverlate/internal/cache/redis"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
	"github.com/davidbz/hoverlate/internal/provider/echo"
	"github.com/davidbz/hoverlate/internal/provider/openai"
	"github.com/davidbz/hoverlate/internal/settings"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the hover translation service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Log        observability.Config
	Translator TranslatorConfig
	Settings   settings.Config
	Redis      redis.Config
	OpenAI     openai.Config
	Echo       echo.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// TranslatorConfig contains translation and cache settings.
type TranslatorConfig struct {
	From          string `env:"TRANSLATOR_FROM"  envDefault:"AUTO"`
	To            string `env:"TRANSLATOR_TO"    envDefault:"AUTO"`
	CacheBackend  string `env:"CACHE_BACKEND"    envDefault:"memory"`
	CacheCapacity int    `env:"CACHE_CAPACITY"   envDefault:"100"`
	PluginsDir    string `env:"PLUGINS_DIR"      envDefault:"plugins"`
}

// Options returns the validated language pair.
func (c *TranslatorConfig) Options() (domain.TranslateOptions, error) {
	from, err := domain.ParseLanguageTag(c.From)
	if err != nil {
		return domain.TranslateOptions{}, fmt.Errorf("TRANSLATOR_FROM: %w", err)
	}

	to, err := domain.ParseLanguageTag(c.To)
	if err != nil {
		return domain.TranslateOptions{}, fmt.Errorf("TRANSLATOR_TO: %w", err)
	}

	return domain.TranslateOptions{From: from, To: to}, nil
}

// Validate reports configuration values env cannot check by itself.
func (c *Config) Validate() error {
	switch c.Translator.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Translator.CacheBackend)
	}

	if c.Translator.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_CAPACITY must be positive, got %d", c.Translator.CacheCapacity)
	}

	if _, err := c.Translator.Options(); err != nil {
		return err
	}

	return nil
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Log        *observability.Config
	Translator *TranslatorConfig
	Settings   *settings.Config
	Redis      *redis.Config
	OpenAI     *openai.Config
	Echo       *echo.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Log:        &cfg.Log,
		Translator: &cfg.Translator,
		Settings:   &cfg.Settings,
		Redis:      &cfg.Redis,
		OpenAI:     &cfg.OpenAI,
		Echo:       &cfg.Echo,
	}
}
