package domain_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/davidbz/hoverlate/internal/domain"
)

// fakeProvider translates from a fixed dictionary and counts calls.
type fakeProvider struct {
	mu           sync.Mutex
	attribution  string
	attrErr      error
	translations map[string]string
	calls        int
	attrCalls    int
	onTranslate  func(ctx context.Context)
}

func (p *fakeProvider) AttributionMarkup(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attrCalls++
	return p.attribution, p.attrErr
}

func (p *fakeProvider) Translate(ctx context.Context, text string, _ domain.TranslateOptions) (string, error) {
	p.mu.Lock()
	p.calls++
	hook := p.onTranslate
	p.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	result, ok := p.translations[text]
	if !ok {
		return "", domain.ErrNoTranslation
	}
	return result, nil
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProvider) AttributionCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attrCalls
}

// fakeRegistry activates providers from a map.
type fakeRegistry struct {
	mu          sync.Mutex
	providers   map[string]domain.Provider
	errs        map[string]error
	activations []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		providers: make(map[string]domain.Provider),
		errs:      make(map[string]error),
	}
}

func (r *fakeRegistry) ListCandidates(_ context.Context) ([]domain.Candidate, error) {
	candidates := make([]domain.Candidate, 0, len(r.providers))
	for id := range r.providers {
		candidates = append(candidates, domain.Candidate{ID: id, Label: id})
	}
	return candidates, nil
}

func (r *fakeRegistry) Activate(_ context.Context, id string) (domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activations = append(r.activations, id)
	if err, ok := r.errs[id]; ok {
		return nil, err
	}
	provider, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, id)
	}
	return provider, nil
}

// fakeSettings keeps the translator id in memory and notifies synchronously.
type fakeSettings struct {
	mu     sync.Mutex
	id     string
	err    error
	nextID int
	subs   map[int]func(ctx context.Context)
}

func newFakeSettings(id string) *fakeSettings {
	return &fakeSettings{id: id, subs: make(map[int]func(ctx context.Context))}
}

func (s *fakeSettings) TranslatorID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.err
}

func (s *fakeSettings) SetTranslatorID(ctx context.Context, id string) error {
	s.mu.Lock()
	s.id = id
	subs := make([]func(ctx context.Context), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ctx)
	}
	return nil
}

func (s *fakeSettings) Subscribe(fn func(ctx context.Context)) domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return subscriptionFunc(func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	})
}

func (s *fakeSettings) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type subscriptionFunc func()

func (f subscriptionFunc) Unsubscribe() { f() }

// recordingPrompter keeps every prompt it is shown.
type recordingPrompter struct {
	mu      sync.Mutex
	prompts []domain.Prompt
}

func (p *recordingPrompter) Prompt(_ context.Context, prompt domain.Prompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
}

func (p *recordingPrompter) Prompts() []domain.Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Prompt(nil), p.prompts...)
}

// fakeRegistrar records hover registrations and their disposal.
type fakeRegistrar struct {
	mu         sync.Mutex
	registered []*domain.Generation
	live       map[uint64]bool
	err        error
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{live: make(map[uint64]bool)}
}

func (r *fakeRegistrar) RegisterHover(_ context.Context, generation *domain.Generation) (domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	r.registered = append(r.registered, generation)
	r.live[generation.ID] = true

	return registrationFunc(func() {
		r.mu.Lock()
		delete(r.live, generation.ID)
		r.mu.Unlock()
	}), nil
}

func (r *fakeRegistrar) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

type registrationFunc func()

func (f registrationFunc) Dispose() { f() }

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	eventType string
	data      map[string]interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data map[string]interface{}) {
	p.events = append(p.events, publishedEvent{eventType: eventType, data: data})
}
