package domain

import "context"

// Provider represents an activated translation provider.
// Any plugin that exposes these two operations can serve hovers.
type Provider interface {
	// AttributionMarkup returns short markdown crediting the translation source.
	AttributionMarkup(ctx context.Context) (string, error)

	// Translate translates text. An error or an empty result means no translation is available.
	Translate(ctx context.Context, text string, opts TranslateOptions) (string, error)
}

// ProviderRegistry discovers and activates translation providers.
type ProviderRegistry interface {
	// ListCandidates returns the installed plugins that contribute a translation provider.
	ListCandidates(ctx context.Context) ([]Candidate, error)

	// Activate resolves a plugin by identifier and activates it.
	Activate(ctx context.Context, id string) (Provider, error)
}

// TranslationCache is a bounded, insertion-ordered cache of translations.
type TranslationCache interface {
	// Lookup returns the most recently inserted translation for text.
	Lookup(ctx context.Context, text string) (string, bool)

	// Insert appends an entry, evicting the oldest one when capacity is exceeded.
	// Existing entries for the same text are neither replaced nor removed.
	Insert(ctx context.Context, text, result string)

	// Reset removes every entry.
	Reset(ctx context.Context)

	// Len returns the number of stored entries, duplicates included.
	Len(ctx context.Context) int
}

// SettingsStore holds the persisted translator configuration.
type SettingsStore interface {
	// TranslatorID returns the configured provider identifier, empty when unset.
	TranslatorID(ctx context.Context) (string, error)

	// SetTranslatorID persists a provider identifier and notifies subscribers.
	SetTranslatorID(ctx context.Context, id string) error

	// Subscribe registers fn to run after every configuration change.
	Subscribe(fn func(ctx context.Context)) Subscription
}

// Subscription is an active settings subscription.
type Subscription interface {
	Unsubscribe()
}

// Prompter shows user-facing notifications.
type Prompter interface {
	Prompt(ctx context.Context, prompt Prompt)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// Registration is a downstream effect owned by a single provider generation.
type Registration interface {
	Dispose()
}

// HoverRegistrar registers the hover handler for a ready generation.
type HoverRegistrar interface {
	RegisterHover(ctx context.Context, generation *Generation) (Registration, error)
}

// Document is a text document open in the host editor.
type Document interface {
	// URI identifies the document.
	URI() string

	// TextInRange returns the document text covered by r.
	TextInRange(r Range) string

	// WordRangeAt returns the range of the word at pos, if any.
	WordRangeAt(pos Position) (Range, bool)
}
