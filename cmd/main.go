package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/hoverlate/internal/cache/fifo"
	"github.com/davidbz/hoverlate/internal/cache/redis"
	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/config"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/http"
	"github.com/davidbz/hoverlate/internal/http/middleware"
	"github.com/davidbz/hoverlate/internal/observability"
	"github.com/davidbz/hoverlate/internal/plugin/lua"
	"github.com/davidbz/hoverlate/internal/provider/echo"
	"github.com/davidbz/hoverlate/internal/provider/openai"
	"github.com/davidbz/hoverlate/internal/provider/registry"
	"github.com/davidbz/hoverlate/internal/selection"
	"github.com/davidbz/hoverlate/internal/settings"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(run)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads the configured provider, serves until a signal arrives, then releases everything.
func run(server *http.Server, manager *domain.LifecycleManager) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager.Watch()
	if err := manager.Reload(ctx); err != nil {
		// The host is prompted; hovers stay off until a provider is selected.
		observability.FromContext(ctx).Warn("no translation provider loaded", observability.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	manager.Dispose(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return serveErr
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(observability.NewEventBus); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}
	if err := container.Provide(func(bus *observability.EventBus) domain.Prompter {
		return domain.NewEventPrompter(bus)
	}); err != nil {
		log.Fatalf("Failed to provide prompter: %v", err)
	}

	// Plugin catalog
	if err := container.Provide(buildCatalog); err != nil {
		log.Fatalf("Failed to provide plugin catalog: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func(c *catalog.Catalog) domain.ProviderRegistry {
		return registry.NewRegistry(c)
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Settings
	if err := container.Provide(func(cfg *settings.Config) (domain.SettingsStore, error) {
		return settings.NewStore(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide settings store: %v", err)
	}

	// Translation cache
	if err := container.Provide(buildCache); err != nil {
		log.Fatalf("Failed to provide translation cache: %v", err)
	}

	// Hover registration
	if err := container.Provide(http.NewHoverGate); err != nil {
		log.Fatalf("Failed to provide hover gate: %v", err)
	}
	if err := container.Provide(func(gate *http.HoverGate) domain.HoverRegistrar {
		return gate
	}); err != nil {
		log.Fatalf("Failed to provide hover registrar: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewLifecycleManager); err != nil {
		log.Fatalf("Failed to provide lifecycle manager: %v", err)
	}
	if err := container.Provide(func(
		manager *domain.LifecycleManager,
		cfg *config.TranslatorConfig,
	) (*domain.HoverService, error) {
		options, err := cfg.Options()
		if err != nil {
			return nil, err
		}
		return domain.NewHoverService(manager, options), nil
	}); err != nil {
		log.Fatalf("Failed to provide hover service: %v", err)
	}
	if err := container.Provide(selection.NewSelector); err != nil {
		log.Fatalf("Failed to provide selector: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// buildCatalog installs the built-in providers and every Lua plugin found on disk.
// OpenAI is only installed when an API key is configured.
func buildCatalog(
	logger *zap.Logger,
	translator *config.TranslatorConfig,
	echoCfg *echo.Config,
	openaiCfg *openai.Config,
) (*catalog.Catalog, error) {
	c := catalog.New()

	if err := c.Install(echo.Plugin(*echoCfg)); err != nil {
		return nil, fmt.Errorf("failed to install echo plugin: %w", err)
	}

	if openaiCfg.APIKey != "" {
		if err := c.Install(openai.Plugin(*openaiCfg)); err != nil {
			return nil, fmt.Errorf("failed to install OpenAI plugin: %w", err)
		}
	} else {
		logger.Info("OPENAI_API_KEY not set, skipping OpenAI plugin")
	}

	plugins, err := lua.Discover(translator.PluginsDir)
	if err != nil {
		return nil, err
	}
	for _, plugin := range plugins {
		if installErr := c.Install(plugin); installErr != nil {
			return nil, fmt.Errorf("failed to install plugin %s: %w", plugin.ID, installErr)
		}
	}

	logger.Info("plugin catalog ready",
		observability.Int("plugins", len(c.All())),
		observability.String("plugins_dir", translator.PluginsDir))

	return c, nil
}

// buildCache selects the translation cache backend.
func buildCache(translator *config.TranslatorConfig, redisCfg *redis.Config) (domain.TranslationCache, error) {
	switch translator.CacheBackend {
	case config.CacheBackendRedis:
		cache, err := redis.NewCache(*redisCfg, translator.CacheCapacity)
		if err != nil {
			return nil, err
		}
		return cache, nil
	default:
		return fifo.New(translator.CacheCapacity), nil
	}
}
