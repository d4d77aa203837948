// Package ai talks to the external language model that drafts budget
// suggestions and narrative insights. Everything it returns is untrusted and
// must be checked by the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/castlemilk/pfinance/automation/internal/logging"
)

// Client wraps a TextGenerator with prompting, retries and response cleanup.
type Client struct {
	gen   TextGenerator
	retry RetryConfig
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig overrides DefaultRetryConfig.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a Client around gen.
func NewClient(gen TextGenerator, opts ...ClientOption) *Client {
	c := &Client{gen: gen, retry: DefaultRetryConfig}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.gen == nil {
		return "", &Error{Code: ErrNotConfigured, Message: "no text generator configured"}
	}
	return WithRetry(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.gen.Generate(ctx, prompt)
	})
}

// SuggestBudgets asks the model for per-category budgets. The returned map is
// the raw "categoryBudgets" object with numbers kept as json.Number.
func (c *Client) SuggestBudgets(ctx context.Context, p BudgetPrompt) (map[string]any, error) {
	log := logging.FromContext(ctx).With().Str("component", "ai").Logger()

	text, err := c.generate(ctx, p.render())
	if err != nil {
		log.Warn().Err(err).Msg("budget suggestion failed")
		return nil, err
	}

	var payload struct {
		CategoryBudgets map[string]any `json:"categoryBudgets"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(CleanJSON(text))))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, &Error{Code: ErrMalformedResponse, Message: "decode budget suggestion", Cause: err}
	}
	if payload.CategoryBudgets == nil {
		return nil, &Error{Code: ErrMalformedResponse, Message: "response has no categoryBudgets"}
	}

	log.Debug().Int("categories", len(payload.CategoryBudgets)).Msg("budget suggestion received")
	return payload.CategoryBudgets, nil
}

// GenerateInsights asks the model for insights and returns the cleaned JSON
// payload for the caller to parse.
func (c *Client) GenerateInsights(ctx context.Context, p InsightPrompt) ([]byte, error) {
	text, err := c.generate(ctx, p.render())
	if err != nil {
		log := logging.FromContext(ctx)
		log.Warn().Str("component", "ai").Err(err).Msg("insight generation failed")
		return nil, err
	}
	return []byte(CleanJSON(text)), nil
}
