// Package catalog models the host's set of installed plugins.
// Plugins are described by a raw JSON manifest and activated on demand;
// a successful activation is remembered, so the plugin starts at most once.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/davidbz/hoverlate/internal/domain"
)

// CapabilityKey is the manifest contribution key declaring a translation provider.
// Its value is the label shown when picking a provider.
const CapabilityKey = "hover-translate"

// ActivateFunc starts a plugin and returns the provider it exports.
type ActivateFunc func(ctx context.Context) (domain.Provider, error)

// Plugin is an installed plugin.
type Plugin struct {
	ID       string
	Manifest []byte
	Activate ActivateFunc
}

// DisplayName returns the manifest display name, falling back to the id.
func (p Plugin) DisplayName() string {
	if name := gjson.GetBytes(p.Manifest, "displayName"); name.Exists() && name.String() != "" {
		return name.String()
	}
	return p.ID
}

// Contribution returns the value the manifest declares under contributes.<key>.
func (p Plugin) Contribution(key string) (string, bool) {
	value := gjson.GetBytes(p.Manifest, "contributes."+gjsonEscape(key))
	if !value.Exists() {
		return "", false
	}
	return value.String(), true
}

// Catalog holds installed plugins in installation order.
type Catalog struct {
	mu        sync.RWMutex
	plugins   []Plugin
	index     map[string]int
	activated map[string]domain.Provider
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		mu:        sync.RWMutex{},
		index:     make(map[string]int),
		activated: make(map[string]domain.Provider),
	}
}

// Install adds a plugin to the catalog.
func (c *Catalog) Install(plugin Plugin) error {
	if plugin.ID == "" {
		return errors.New("plugin id cannot be empty")
	}

	if plugin.Activate == nil {
		return fmt.Errorf("plugin %s has no activate function", plugin.ID)
	}

	if !gjson.ValidBytes(plugin.Manifest) {
		return fmt.Errorf("plugin %s has an invalid manifest", plugin.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[plugin.ID]; exists {
		return fmt.Errorf("plugin %s already installed", plugin.ID)
	}

	c.index[plugin.ID] = len(c.plugins)
	c.plugins = append(c.plugins, plugin)

	return nil
}

// All returns the installed plugins in installation order.
func (c *Catalog) All() []Plugin {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Plugin, len(c.plugins))
	copy(out, c.plugins)
	return out
}

// Get returns the plugin with the given id.
func (c *Catalog) Get(id string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return Plugin{}, false
	}
	return c.plugins[i], true
}

// Activate starts the plugin once and returns its provider.
// A failed activation is retried on the next call.
func (c *Catalog) Activate(ctx context.Context, id string) (domain.Provider, bool, error) {
	plugin, ok := c.Get(id)
	if !ok {
		return nil, false, nil
	}

	c.mu.RLock()
	provider, done := c.activated[id]
	c.mu.RUnlock()
	if done {
		return provider, true, nil
	}

	provider, err := plugin.Activate(ctx)
	if err != nil || provider == nil {
		return nil, true, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A concurrent activation may have won; keep the first provider.
	if existing, raced := c.activated[id]; raced {
		return existing, true, nil
	}
	c.activated[id] = provider

	return provider, true, nil
}

// NewManifest builds a manifest contributing a translation provider labelled label.
func NewManifest(name, displayName, label string) []byte {
	manifest := struct {
		Name        string            `json:"name"`
		DisplayName string            `json:"displayName"`
		Contributes map[string]string `json:"contributes"`
	}{
		Name:        name,
		DisplayName: displayName,
		Contributes: map[string]string{CapabilityKey: label},
	}

	data, _ := json.Marshal(manifest)
	return data
}

// gjsonEscape escapes path metacharacters in a single gjson path component.
func gjsonEscape(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
