// Package openai provides a translation provider backed by the OpenAI API using the official SDK.
// It implements the domain.Provider interface and is installed into the plugin catalog
// so it can be picked like any other translation provider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/domain"
	"github.com/davidbz/hoverlate/internal/observability"
)

const (
	// PluginID identifies the OpenAI plugin in the catalog.
	PluginID = "hoverlate.openai"

	defaultModel = "gpt-4o-mini"
	temperature  = 0.2
)

// Provider implements the domain.Provider interface for OpenAI
type Provider struct {
	client openai.Client
	model  string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Plugin returns the catalog entry for the OpenAI provider.
// Activation fails when no API key is configured.
func Plugin(config Config) catalog.Plugin {
	return catalog.Plugin{
		ID:       PluginID,
		Manifest: catalog.NewManifest("openai", "OpenAI Translator", "OpenAI"),
		Activate: func(_ context.Context) (domain.Provider, error) {
			provider, err := NewProvider(config)
			if err != nil {
				return nil, err
			}
			return provider, nil
		},
	}
}

// AttributionMarkup credits OpenAI and names the model in use.
func (p *Provider) AttributionMarkup(_ context.Context) (string, error) {
	return fmt.Sprintf("[OpenAI](https://platform.openai.com) `%s`", p.model), nil
}

// Translate sends text to the chat completions API and returns the translation.
func (p *Provider) Translate(ctx context.Context, text string, opts domain.TranslateOptions) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrNoTranslation
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API", observability.String("model", p.model))

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(opts)),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(temperature),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.ErrNoTranslation
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", domain.ErrNoTranslation
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return translated, nil
}

// buildSystemPrompt describes the language pair to the model.
func buildSystemPrompt(opts domain.TranslateOptions) string {
	var b strings.Builder

	b.WriteString("You are a translation engine embedded in a code editor. ")

	switch {
	case opts.From.IsAuto() && opts.To.IsAuto():
		b.WriteString("Detect the language of the user's text. ")
		b.WriteString("If it is Chinese, translate it to English; otherwise translate it to Simplified Chinese. ")
	case opts.From.IsAuto():
		fmt.Fprintf(&b, "Detect the language of the user's text and translate it to %s. ", opts.To)
	case opts.To.IsAuto():
		fmt.Fprintf(&b, "The user's text is in %s. ", opts.From)
		b.WriteString("Translate it to English, or to Simplified Chinese if it is already English. ")
	default:
		fmt.Fprintf(&b, "Translate the user's text from %s to %s. ", opts.From, opts.To)
	}

	b.WriteString("Identifiers written in camelCase or snake_case should be read as separate words. ")
	b.WriteString("Reply with the translation only, without quotes or explanations.")

	return b.String()
}
