package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

// Catalog is the host's installed-plugin catalog.
type Catalog interface {
	All() []catalog.Plugin
	Activate(ctx context.Context, id string) (domain.Provider, bool, error)
}

// Registry implements the ProviderRegistry interface on top of the plugin catalog.
type Registry struct {
	catalog       Catalog
	capabilityKey string
}

// NewRegistry creates a new provider registry.
func NewRegistry(c Catalog) *Registry {
	return &Registry{
		catalog:       c,
		capabilityKey: catalog.CapabilityKey,
	}
}

// ListCandidates returns plugins contributing a translation provider, in catalog order.
func (r *Registry) ListCandidates(_ context.Context) ([]domain.Candidate, error) {
	plugins := r.catalog.All()

	candidates := make([]domain.Candidate, 0, len(plugins))
	for _, plugin := range plugins {
		label, ok := plugin.Contribution(r.capabilityKey)
		if !ok || label == "" {
			continue
		}

		candidates = append(candidates, domain.Candidate{
			ID:          plugin.ID,
			Label:       label,
			Description: plugin.DisplayName(),
		})
	}

	return candidates, nil
}

// Activate resolves a plugin by id and activates it.
func (r *Registry) Activate(ctx context.Context, id string) (domain.Provider, error) {
	if id == "" {
		return nil, errors.New("provider id cannot be empty")
	}

	provider, found, err := r.catalog.Activate(ctx, id)
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrActivationFailed, id, err)
	}

	if provider == nil {
		return nil, fmt.Errorf("%w: %s exported no provider", domain.ErrActivationFailed, id)
	}

	observability.FromContext(ctx).Info("translation provider activated",
		observability.String("plugin_id", id))

	return provider, nil
}

var _ domain.ProviderRegistry = (*Registry)(nil)
