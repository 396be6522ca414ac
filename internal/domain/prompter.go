package domain

import "context"

// EventPrompter forwards prompts to an EventPublisher, where the host picks them up.
type EventPrompter struct {
	publisher EventPublisher
}

// NewEventPrompter creates a prompter that publishes "prompt.<kind>" events.
func NewEventPrompter(publisher EventPublisher) *EventPrompter {
	return &EventPrompter{publisher: publisher}
}

// Prompt publishes the prompt.
func (p *EventPrompter) Prompt(ctx context.Context, prompt Prompt) {
	if p.publisher == nil {
		return
	}

	p.publisher.Publish(ctx, "prompt."+string(prompt.Kind), map[string]interface{}{
		"message":     prompt.Message,
		"provider_id": prompt.ProviderID,
		"action":      prompt.Action,
		"action_text": prompt.ActionText,
	})
}
