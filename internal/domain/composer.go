package domain

const (
	// AttributionPrefix starts the first block of every hover.
	AttributionPrefix = "[Hover Translate] $(sync) "

	// FailureMessage replaces the translation when the provider returns none.
	FailureMessage = "Failed to get a translation! Check the translation provider's output."
)

// Compose builds the hover content for a translation outcome.
// ok is false when the provider produced no translation.
func Compose(attribution, outcome string, ok bool) *HoverResult {
	second := HoverBlock{Kind: BlockPlainText, Value: FailureMessage}
	if ok {
		second.Value = outcome
	}

	return &HoverResult{
		Blocks: []HoverBlock{
			{Kind: BlockMarkdown, Value: AttributionPrefix + attribution},
			second,
		},
	}
}
