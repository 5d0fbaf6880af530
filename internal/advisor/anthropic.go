package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicWriter is the Writer backed by the Anthropic Messages API.
// anthropic.Client is a value type; NewClient returns it by value.
type AnthropicWriter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicWriter returns a Writer that calls the Anthropic API. Extra
// request options (base URL, retries) are passed straight to the SDK.
func NewAnthropicWriter(apiKey, model string, opts ...option.RequestOption) *AnthropicWriter {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicWriter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// CoverNote asks the model for a cover note.
func (w *AnthropicWriter) CoverNote(ctx context.Context, b Brief) (string, error) {
	msg, err := w.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(w.model),
		MaxTokens:   400,
		Temperature: anthropic.Float(0.4),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(b))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: anthropic messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("advisor: anthropic response contained no text")
	}
	return cleanNote(strings.Join(parts, ""))
}
