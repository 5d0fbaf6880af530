package advisor

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DeepSeekBaseURL is DeepSeek's OpenAI-compatible endpoint.
const DeepSeekBaseURL = "https://api.deepseek.com/v1/"

// DeepSeekWriter is the Writer backed by DeepSeek through the OpenAI SDK.
type DeepSeekWriter struct {
	client openai.Client
	model  string
}

// NewDeepSeekWriter returns a Writer that calls DeepSeek. Options after the
// defaults win, so tests can override the base URL.
func NewDeepSeekWriter(apiKey, model string, opts ...option.RequestOption) *DeepSeekWriter {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(DeepSeekBaseURL),
	}, opts...)
	return &DeepSeekWriter{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// CoverNote asks the model for a cover note.
func (w *DeepSeekWriter) CoverNote(ctx context.Context, b Brief) (string, error) {
	resp, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(w.model),
		MaxTokens:   openai.Int(400),
		Temperature: openai.Float(0.4),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(b)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: deepseek chat.completions.new: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("advisor: deepseek response contained no choices")
	}
	return cleanNote(resp.Choices[0].Message.Content)
}
