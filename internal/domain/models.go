package domain

// LanguageTag is a BCP 47 language tag or AutoLanguage.
type LanguageTag string

// AutoLanguage lets the provider detect the source or pick the target language.
const AutoLanguage LanguageTag = "AUTO"

// TranslateOptions carries the language pair for a translate call.
type TranslateOptions struct {
	From LanguageTag `json:"from"`
	To   LanguageTag `json:"to"`
}

// Candidate is a selectable translation provider.
type Candidate struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// CacheEntry is a cached translation.
type CacheEntry struct {
	Source     string `json:"source"     msgpack:"s"`
	Translated string `json:"translated" msgpack:"t"`
}

// BlockKind tells the host how to render a hover block.
type BlockKind string

const (
	// BlockMarkdown is rendered as markdown with theme icons enabled.
	BlockMarkdown BlockKind = "markdown"

	// BlockPlainText is rendered verbatim.
	BlockPlainText BlockKind = "plaintext"
)

// HoverBlock is a single block of hover content.
type HoverBlock struct {
	Kind  BlockKind `json:"kind"`
	Value string    `json:"value"`
}

// HoverResult is the content of one hover popup.
type HoverResult struct {
	Blocks []HoverBlock `json:"blocks"`
}

// PromptKind classifies user-facing notifications.
type PromptKind string

const (
	// PromptNotConfigured is shown when no provider identifier is set.
	PromptNotConfigured PromptKind = "not-configured"

	// PromptActivationFailed is shown when the configured provider cannot be loaded.
	PromptActivationFailed PromptKind = "activation-failed"
)

// ActionSelectProvider re-opens the provider selection flow.
const ActionSelectProvider = "select-provider"

// Prompt is a user-facing error notification with a single affordance.
type Prompt struct {
	Kind       PromptKind `json:"kind"`
	Message    string     `json:"message"`
	ProviderID string     `json:"provider_id,omitempty"`
	Action     string     `json:"action"`
	ActionText string     `json:"action_text"`
}

// Position is a zero-based line and character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Range spans two positions, start inclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Ordered returns the range with Start at or before End.
// Hosts report right-to-left selections with the anchor after the cursor.
func (r Range) Ordered() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Contains reports whether pos lies within the range, both ends inclusive,
// regardless of the direction the range was made in.
func (r Range) Contains(pos Position) bool {
	o := r.Ordered()
	return !pos.Before(o.Start) && !o.End.Before(pos)
}

// Selection is a host editor selection.
type Selection = Range

// Status describes the lifecycle manager for the host.
type Status struct {
	State      ProviderState `json:"state"`
	Generation uint64        `json:"generation"`
	ProviderID string        `json:"provider_id,omitempty"`
	Prompt     *Prompt       `json:"prompt,omitempty"`
}
