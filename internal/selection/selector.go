// Package selection implements the provider selection flow: list the candidates,
// pick one, and write its id back to the settings so the provider reloads.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

var (
	// ErrEmptyChoice indicates the selection was dismissed without a choice.
	ErrEmptyChoice = errors.New("choice cannot be empty")

	// ErrUnknownCandidate indicates the choice matches no translation provider.
	ErrUnknownCandidate = errors.New("unknown translation provider")
)

// Selector drives the provider quick pick.
type Selector struct {
	registry domain.ProviderRegistry
	settings domain.SettingsStore
}

// NewSelector creates a new selector.
func NewSelector(registry domain.ProviderRegistry, settings domain.SettingsStore) *Selector {
	return &Selector{
		registry: registry,
		settings: settings,
	}
}

// Candidates returns the selectable providers in host order.
func (s *Selector) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	candidates, err := s.registry.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return candidates, nil
}

// Select resolves choice by exact id, then by case-insensitive label, and persists it.
func (s *Selector) Select(ctx context.Context, choice string) (domain.Candidate, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return domain.Candidate{}, ErrEmptyChoice
	}

	candidates, err := s.Candidates(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}

	selected, ok := match(candidates, choice)
	if !ok {
		return domain.Candidate{}, fmt.Errorf("%w: %s", ErrUnknownCandidate, choice)
	}

	observability.FromContext(ctx).Info("translation provider selected",
		observability.String("plugin_id", selected.ID),
		observability.String("label", selected.Label))

	if setErr := s.settings.SetTranslatorID(ctx, selected.ID); setErr != nil {
		return domain.Candidate{}, fmt.Errorf("failed to save translator setting: %w", setErr)
	}

	return selected, nil
}

func match(candidates []domain.Candidate, choice string) (domain.Candidate, bool) {
	for _, c := range candidates {
		if c.ID == choice {
			return c, true
		}
	}

	for _, c := range candidates {
		if strings.EqualFold(c.Label, choice) {
			return c, true
		}
	}

	return domain.Candidate{}, false
}
