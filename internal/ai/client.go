package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/finance-assistant/internal/config"
)

// Completer is the narrow completion capability the engine depends on:
// one prompt in, raw text out. No retries, no caching.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string, temperature float64, maxTokens int) (string, error)
}

// Client is the Gemini-backed Completer. Credentials are resolved from the
// environment once at construction (GEMINI_API_KEY / GOOGLE_API_KEY, handled
// by the genai SDK); the client is read-only afterwards and safe to share.
type Client struct {
	genai *genai.Client
	model string
	log   zerolog.Logger
}

// NewClient creates the completion client.
func NewClient(ctx context.Context, cfg config.ModelConfig, log zerolog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ai.NewClient: create genai client: %w", err)
	}

	return &Client{
		genai: client,
		model: cfg.Name,
		log:   log,
	}, nil
}

// Complete sends one completion request and returns the raw response text.
// Single attempt, fail fast: transport failures come back as *UpstreamError
// and it is the caller's job to decide whether to degrade or propagate.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string, temperature float64, maxTokens int) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: userText},
			},
		},
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", &UpstreamError{Op: "Complete", Err: err}
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", &UpstreamError{Op: "Complete", Err: fmt.Errorf("empty response from model %s", c.model)}
	}

	c.log.Debug().Str("model", c.model).Int("response_len", len(rawText)).Msg("completion received")
	return rawText, nil
}
