package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/davidbz/hoverlate/internal/observability"
)

// LifecycleManager owns the active translation provider, its generation and the translation cache.
type LifecycleManager struct {
	registry  ProviderRegistry
	settings  SettingsStore
	cache     TranslationCache
	prompter  Prompter
	registrar HoverRegistrar

	// reloadMu serialises Reload and Dispose.
	reloadMu sync.Mutex

	mu            sync.RWMutex
	state         ProviderState
	generation    uint64
	current       *Generation
	registrations []Registration
	lastPrompt    *Prompt
	subscription  Subscription
}

// NewLifecycleManager creates a new lifecycle manager (DI constructor).
func NewLifecycleManager(
	registry ProviderRegistry,
	settings SettingsStore,
	cache TranslationCache,
	prompter Prompter,
	registrar HoverRegistrar,
) *LifecycleManager {
	return &LifecycleManager{
		registry:  registry,
		settings:  settings,
		cache:     cache,
		prompter:  prompter,
		registrar: registrar,
		state:     StateUnloaded,
	}
}

// Watch reloads the provider after every settings change until Dispose.
func (m *LifecycleManager) Watch() {
	sub := m.settings.Subscribe(func(ctx context.Context) {
		// Failures are reported through the prompter.
		_ = m.Reload(ctx)
	})

	m.mu.Lock()
	previous := m.subscription
	m.subscription = sub
	m.mu.Unlock()

	if previous != nil {
		previous.Unsubscribe()
	}
}

// Reload supersedes the current generation and activates the configured provider.
// It always leaves the manager in StateReady or StateError.
// The returned error wraps ErrNotConfigured or ErrActivationFailed.
func (m *LifecycleManager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	m.mu.Lock()
	m.generation++
	id := m.generation
	m.state = StateLoading
	m.current = nil
	m.lastPrompt = nil
	registrations := m.registrations
	m.registrations = nil
	m.mu.Unlock()

	ctx = observability.WithGeneration(ctx, id)
	logger := observability.FromContext(ctx)
	logger.Info("reloading translation provider")

	for _, reg := range registrations {
		reg.Dispose()
	}
	m.cache.Reset(ctx)

	providerID, err := m.settings.TranslatorID(ctx)
	if err != nil {
		logger.Warn("failed to read translator setting", observability.Error(err))
		providerID = ""
	}

	if providerID == "" {
		m.fail(ctx, id, Prompt{
			Kind:    PromptNotConfigured,
			Message: "No translation provider is configured!",
		})
		return ErrNotConfigured
	}

	ctx = observability.WithProviderID(ctx, providerID)
	logger = observability.FromContext(ctx)

	provider, err := m.registry.Activate(ctx, providerID)
	if err == nil && provider == nil {
		err = ErrActivationFailed
	}
	if err != nil {
		logger.Warn("failed to activate translation provider", observability.Error(err))
		m.fail(ctx, id, Prompt{
			Kind:       PromptActivationFailed,
			Message:    fmt.Sprintf("Unable to load translation provider: %s!", providerID),
			ProviderID: providerID,
		})
		if errors.Is(err, ErrActivationFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrActivationFailed, err)
	}

	attribution, err := provider.AttributionMarkup(ctx)
	if err != nil {
		logger.Warn("failed to fetch attribution markup, continuing without it", observability.Error(err))
		attribution = ""
	}

	generation := &Generation{
		ID:          id,
		ProviderID:  providerID,
		Provider:    provider,
		Attribution: attribution,
	}

	m.mu.Lock()
	m.state = StateReady
	m.current = generation
	m.mu.Unlock()

	if m.registrar == nil {
		logger.Info("translation provider ready")
		return nil
	}

	reg, err := m.registrar.RegisterHover(ctx, generation)
	if err != nil {
		logger.Error("failed to register hover handler", observability.Error(err))
		m.mu.Lock()
		if m.generation == id {
			m.current = nil
		}
		m.mu.Unlock()
		m.fail(ctx, id, Prompt{
			Kind:       PromptActivationFailed,
			Message:    fmt.Sprintf("Unable to load translation provider: %s!", providerID),
			ProviderID: providerID,
		})
		return fmt.Errorf("%w: %s: hover registration: %w", ErrActivationFailed, providerID, err)
	}

	m.mu.Lock()
	m.registrations = append(m.registrations, reg)
	m.mu.Unlock()

	logger.Info("translation provider ready")
	return nil
}

// fail moves generation id to StateError and shows prompt.
func (m *LifecycleManager) fail(ctx context.Context, id uint64, prompt Prompt) {
	prompt.Action = ActionSelectProvider
	prompt.ActionText = "Select translation provider"

	m.mu.Lock()
	if m.generation == id {
		m.state = StateError
		m.lastPrompt = &prompt
	}
	m.mu.Unlock()

	if m.prompter != nil {
		m.prompter.Prompt(ctx, prompt)
	}
}

// Current returns the ready generation, or nil when no provider is available.
func (m *LifecycleManager) Current() *Generation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current
}

// CurrentProvider returns the ready provider.
// When it returns false hovers are unavailable for this generation.
func (m *LifecycleManager) CurrentProvider() (Provider, bool) {
	generation := m.Current()
	if generation == nil {
		return nil, false
	}
	return generation.Provider, true
}

// State returns the lifecycle state.
func (m *LifecycleManager) State() ProviderState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Status returns a snapshot of the lifecycle for the host.
func (m *LifecycleManager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		State:      m.state,
		Generation: m.generation,
	}
	if m.current != nil {
		status.ProviderID = m.current.ProviderID
	}
	if m.lastPrompt != nil {
		prompt := *m.lastPrompt
		status.Prompt = &prompt
	}

	return status
}

// Lookup reads the cache on behalf of generation.
// Stale generations always miss.
func (m *LifecycleManager) Lookup(ctx context.Context, generation *Generation, text string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if generation == nil || generation.ID != m.generation {
		return "", false
	}

	return m.cache.Lookup(ctx, text)
}

// Insert caches a translation produced by generation.
// Results from a superseded generation are dropped and false is returned.
func (m *LifecycleManager) Insert(ctx context.Context, generation *Generation, text, result string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if generation == nil || generation.ID != m.generation {
		return false
	}

	m.cache.Insert(ctx, text, result)
	return true
}

// Dispose releases the settings subscription and every registration of the current generation.
func (m *LifecycleManager) Dispose(ctx context.Context) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	m.mu.Lock()
	m.generation++
	m.state = StateUnloaded
	m.current = nil
	m.lastPrompt = nil
	registrations := m.registrations
	m.registrations = nil
	sub := m.subscription
	m.subscription = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	for _, reg := range registrations {
		reg.Dispose()
	}

	observability.FromContext(ctx).Info("translation provider disposed")
}
