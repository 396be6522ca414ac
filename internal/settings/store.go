// Package settings persists the translator configuration and notifies subscribers on change.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

// Config contains settings store configuration.
type Config struct {
	// Path is the YAML settings file. Empty keeps settings in memory only.
	Path string `env:"TRANSLATOR_SETTINGS_PATH" envDefault:"hoverlate.yaml"`

	// TranslatorID seeds the setting when the file does not exist yet.
	TranslatorID string `env:"TRANSLATOR_ID"`
}

// document is the on-disk layout.
type document struct {
	Translator string `yaml:"translator"`
}

// Store implements domain.SettingsStore backed by a YAML file.
type Store struct {
	path string

	mu          sync.RWMutex
	translator  string
	observers   map[uint64]func(ctx context.Context)
	nextID      uint64
	writeLocker sync.Mutex
}

// NewStore loads the settings file, seeding it from cfg when absent.
func NewStore(cfg *Config) (*Store, error) {
	s := &Store{
		path:      cfg.Path,
		observers: make(map[uint64]func(ctx context.Context)),
	}

	s.translator = cfg.TranslatorID

	if s.path == "" {
		return s, nil
	}

	data, err := os.ReadFile(s.path) // #nosec G304 - settings path is operator controlled
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var doc document
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", unmarshalErr)
	}
	s.translator = doc.Translator

	return s, nil
}

// TranslatorID returns the configured provider identifier.
func (s *Store) TranslatorID(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.translator, nil
}

// SetTranslatorID persists id and then notifies every subscriber synchronously.
func (s *Store) SetTranslatorID(ctx context.Context, id string) error {
	s.writeLocker.Lock()
	defer s.writeLocker.Unlock()

	if err := s.write(document{Translator: id}); err != nil {
		return err
	}

	s.mu.Lock()
	s.translator = id
	observers := make([]func(context.Context), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	observability.FromContext(ctx).Info("translator setting changed",
		observability.String("translator", id))

	for _, fn := range observers {
		fn(ctx)
	}

	return nil
}

// write atomically replaces the settings file.
func (s *Store) write(doc document) error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("failed to create settings directory: %w", mkErr)
		}
	}

	tmp := s.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write settings: %w", writeErr)
	}

	if renameErr := os.Rename(tmp, s.path); renameErr != nil {
		return fmt.Errorf("failed to replace settings: %w", renameErr)
	}

	return nil
}

// Subscribe registers fn to run after every change.
func (s *Store) Subscribe(fn func(ctx context.Context)) domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return &subscription{id: id, store: s}
}

// unsubscribe removes an observer by ID.
func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.observers, id)
}

type subscription struct {
	id    uint64
	store *Store
	once  sync.Once
}

// Unsubscribe removes this subscription.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.unsubscribe(s.id)
	})
}

var _ domain.SettingsStore = (*Store)(nil)
