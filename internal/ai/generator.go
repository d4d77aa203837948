package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

//go:generate mockgen -source=generator.go -destination=generator_mock.go -package=ai

// TextGenerator sends a prompt to a language model and returns its raw text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiGenerator generates text with the Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a Gemini-backed generator. An empty apiKey leaves
// credential lookup to the genai environment variables.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey}
	if apiKey != "" {
		cfg.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &Error{Code: ErrNotConfigured, Message: "create genai client", Cause: err}
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model, temperature: 0.2}, nil
}

// Generate asks the model for a JSON response to prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", &Error{Code: ErrNotConfigured, Message: "gemini client not configured"}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", classify(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &Error{Code: ErrEmptyResponse, Message: "empty response from model", Retryable: true}
	}
	return text, nil
}
