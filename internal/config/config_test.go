package config_test

import (
	"os"
	"testing"

	"github.com/davidbz/hoverlate/internal/config"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 30, cfg.Server.WriteTimeout)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, "AUTO", cfg.Translator.From)
		require.Equal(t, "AUTO", cfg.Translator.To)
		require.Equal(t, config.CacheBackendMemory, cfg.Translator.CacheBackend)
		require.Equal(t, 100, cfg.Translator.CacheCapacity)
		require.Equal(t, "plugins", cfg.Translator.PluginsDir)
		require.Equal(t, "hoverlate.yaml", cfg.Settings.Path)
		require.Empty(t, cfg.Settings.TranslatorID)
		require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		require.Equal(t, 30, cfg.OpenAI.Timeout)
		require.Equal(t, 2, cfg.OpenAI.MaxRetries)
		require.Empty(t, cfg.OpenAI.APIKey)
		require.Empty(t, cfg.Echo.Glossary)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SERVER_READ_TIMEOUT", "60")
		t.Setenv("TRANSLATOR_FROM", "en")
		t.Setenv("TRANSLATOR_TO", "zh-hans")
		t.Setenv("TRANSLATOR_ID", "hoverlate.echo")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("CACHE_CAPACITY", "50")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_MAX_RETRIES", "5")
		t.Setenv("ECHO_GLOSSARY", "hello:你好,world:世界")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 60, cfg.Server.ReadTimeout)
		require.Equal(t, "hoverlate.echo", cfg.Settings.TranslatorID)
		require.Equal(t, config.CacheBackendRedis, cfg.Translator.CacheBackend)
		require.Equal(t, 50, cfg.Translator.CacheCapacity)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, 5, cfg.OpenAI.MaxRetries)
		require.Equal(t, map[string]string{"hello": "你好", "world": "世界"}, cfg.Echo.Glossary)

		opts, err := cfg.Translator.Options()
		require.NoError(t, err)
		require.Equal(t, domain.TranslateOptions{From: "en", To: "zh-Hans"}, opts)
	})

	t.Run("should panic on an unknown cache backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")

		require.Panics(t, func() { config.Load() })
	})

	t.Run("should panic on an invalid language tag", func(t *testing.T) {
		t.Setenv("TRANSLATOR_TO", "not a tag!")

		require.Panics(t, func() { config.Load() })
	})
}

func TestParseDependenciesConfig(t *testing.T) {
	t.Run("should expose every sub config", func(t *testing.T) {
		cfg := &config.Config{}
		deps := config.ParseDependenciesConfig(cfg)

		require.Same(t, &cfg.Server, deps.Server)
		require.Same(t, &cfg.Translator, deps.Translator)
		require.Same(t, &cfg.Settings, deps.Settings)
		require.Same(t, &cfg.OpenAI, deps.OpenAI)
	})
}
