// Package anthropic provides a generative.Backend implementation over the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/celtia/supportbot/generative"
)

// Options configures the Anthropic backend (temperature, max tokens, API
// key). Extend via functional options to preserve stability.
type Options struct {
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Backend wraps the Anthropic Messages API behind the generative.Backend
// interface.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

// NewBackend creates a backend using the official client.
func NewBackend(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Backend{client: &client, opts: opts}
}

// NewBackendFromClient creates a backend from an existing client.
func NewBackendFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Generate implements generative.Backend.
func (b *Backend) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelID),
		MaxTokens:   b.opts.MaxTokens,
		Temperature: anthropic.Float(b.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err, modelID)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

func classify(err error, modelID string) error {
	cat := generative.CategoryNetwork
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		cat = generative.CategorizeStatus(apierr.StatusCode)
	}
	return &generative.Error{
		Category: cat,
		ModelID:  modelID,
		Err:      fmt.Errorf("anthropic api error: %w", err),
	}
}

var _ generative.Backend = (*Backend)(nil)
