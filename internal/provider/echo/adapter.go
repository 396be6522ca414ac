// Package echo provides a deterministic glossary translator for development and testing.
// It implements the domain.Provider interface without making external API calls.
package echo

import (
	"context"
	"strings"

	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

const (
	// PluginID identifies the echo plugin in the catalog.
	PluginID = "hoverlate.echo"

	attribution = "[Echo Glossary](https://github.com/davidbz/hoverlate)"
)

// Config contains echo provider configuration.
type Config struct {
	// Glossary maps source text to its translation, e.g. "hello:你好,world:世界".
	Glossary map[string]string `env:"ECHO_GLOSSARY" envKeyValSeparator:":" envSeparator:","`
}

// Provider implements the domain.Provider interface with a fixed glossary.
type Provider struct {
	glossary map[string]string
}

// NewProvider creates a new echo provider.
// No network access is required as this provider operates entirely in-memory.
func NewProvider(config Config) *Provider {
	glossary := make(map[string]string, len(config.Glossary))
	for source, translated := range config.Glossary {
		glossary[strings.TrimSpace(source)] = strings.TrimSpace(translated)
	}

	return &Provider{
		glossary: glossary,
	}
}

// Plugin returns the catalog entry for the echo provider.
func Plugin(config Config) catalog.Plugin {
	return catalog.Plugin{
		ID:       PluginID,
		Manifest: catalog.NewManifest("echo", "Echo Glossary Translator", "Echo"),
		Activate: func(_ context.Context) (domain.Provider, error) {
			return NewProvider(config), nil
		},
	}
}

// AttributionMarkup returns the markdown link shown in every hover.
func (p *Provider) AttributionMarkup(_ context.Context) (string, error) {
	return attribution, nil
}

// Translate looks text up in the glossary, ignoring surrounding whitespace.
func (p *Provider) Translate(ctx context.Context, text string, opts domain.TranslateOptions) (string, error) {
	logger := observability.FromContext(ctx)

	translated, ok := p.glossary[strings.TrimSpace(text)]
	if !ok {
		logger.Debug("glossary miss",
			observability.String("from", string(opts.From)),
			observability.String("to", string(opts.To)))
		return "", domain.ErrNoTranslation
	}

	return translated, nil
}
