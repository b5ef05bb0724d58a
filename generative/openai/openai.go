// Package openai provides a generative.Backend implementation using the
// OpenAI Chat Completions API. It adapts the prompt-in/text-out contract of
// the invoker into the SDK's message format and maps SDK failures to typed
// error categories so retry decisions do not depend on message sniffing.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/celtia/supportbot/generative"
)

// Options configure the OpenAI backend. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without
// breaking callers.
type Options struct {
	Temperature         float64
	MaxCompletionTokens int64
}

// Backend wraps the OpenAI Chat Completions API behind the
// generative.Backend interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

// NewBackend creates a backend using the official client configured from
// the environment (OPENAI_API_KEY).
func NewBackend(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewBackendFromClient(&client, optFns...)
}

// NewBackendFromClient creates a backend from an existing client.
func NewBackendFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Generate implements generative.Backend.
func (b *Backend) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               modelID,
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature:         openai.Float(b.opts.Temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", classify(err, modelID)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify wraps SDK failures with a typed category derived from the HTTP
// status when available.
func classify(err error, modelID string) error {
	cat := generative.CategoryNetwork
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		cat = generative.CategorizeStatus(apierr.StatusCode)
	}
	return &generative.Error{
		Category: cat,
		ModelID:  modelID,
		Err:      fmt.Errorf("openai api error: %w", err),
	}
}

var _ generative.Backend = (*Backend)(nil)
