package http

import (
	"context"
	"sync"

	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

// HoverGate is the host-side hover registration.
// The hover route answers only while a generation holds a live registration.
type HoverGate struct {
	mu     sync.RWMutex
	active *domain.Generation
}

// NewHoverGate creates a closed gate (DI constructor).
func NewHoverGate() *HoverGate {
	return &HoverGate{}
}

// RegisterHover opens the gate for generation until the registration is disposed.
func (g *HoverGate) RegisterHover(ctx context.Context, generation *domain.Generation) (domain.Registration, error) {
	g.mu.Lock()
	g.active = generation
	g.mu.Unlock()

	observability.FromContext(ctx).Debug("hover handler registered")

	return &gateRegistration{gate: g, generation: generation}, nil
}

// Active returns the registered generation.
func (g *HoverGate) Active() (*domain.Generation, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.active, g.active != nil
}

type gateRegistration struct {
	gate       *HoverGate
	generation *domain.Generation
	once       sync.Once
}

// Dispose closes the gate unless a newer generation has registered since.
func (r *gateRegistration) Dispose() {
	r.once.Do(func() {
		r.gate.mu.Lock()
		defer r.gate.mu.Unlock()

		if r.gate.active == r.generation {
			r.gate.active = nil
		}
	})
}

var _ domain.HoverRegistrar = (*HoverGate)(nil)
