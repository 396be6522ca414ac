package domain

import (
	"context"
	"errors"
	"time"

	"github.com/davidbz/hoverlate/internal/observability"
)

// HoverRequest asks for a translation hover at a cursor position.
type HoverRequest struct {
	Document   Document
	Position   Position
	Selections []Selection
}

// HoverService orchestrates hover requests against the active provider generation.
type HoverService struct {
	manager *LifecycleManager
	options TranslateOptions
}

// NewHoverService creates a new hover service (DI constructor).
func NewHoverService(manager *LifecycleManager, options TranslateOptions) *HoverService {
	if options.From == "" {
		options.From = AutoLanguage
	}
	if options.To == "" {
		options.To = AutoLanguage
	}

	return &HoverService{
		manager: manager,
		options: options,
	}
}

// Hover returns the hover for req, or nil when there is nothing to show.
// Provider failures never surface as errors; they produce the failure block instead.
func (h *HoverService) Hover(ctx context.Context, req *HoverRequest) (*HoverResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.Document == nil {
		return nil, errors.New("document cannot be nil")
	}

	// The generation captured here serves the whole request, even across a reload.
	generation := h.manager.Current()
	if generation == nil {
		return nil, nil
	}

	ctx = observability.WithProviderID(ctx, generation.ProviderID)
	ctx = observability.WithGeneration(ctx, generation.ID)
	logger := observability.FromContext(ctx)

	text, ok := ExtractQuery(req.Document, req.Position, req.Selections)
	if !ok {
		return nil, nil
	}

	if cached, hit := h.manager.Lookup(ctx, generation, text); hit {
		logger.Debug("cache HIT", observability.Int("text_length", len(text)))
		return Compose(generation.Attribution, cached, true), nil
	}

	logger.Debug("cache MISS - calling provider", observability.Int("text_length", len(text)))

	start := time.Now()
	result, err := generation.Provider.Translate(ctx, text, h.options)
	if err == nil && result == "" {
		err = ErrNoTranslation
	}
	if err != nil {
		logger.Warn("provider returned no translation",
			observability.Error(err),
			observability.Duration("elapsed", time.Since(start)))
		return Compose(generation.Attribution, "", false), nil
	}

	if !h.manager.Insert(ctx, generation, text, result) {
		logger.Info("dropped translation from superseded generation")
	}

	return Compose(generation.Attribution, result, true), nil
}
