package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/genai"
)

var noDelay = RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

func budgetPrompt() BudgetPrompt {
	return BudgetPrompt{
		Income: 3000,
		Categories: []model.Category{
			{ID: "food", Name: "Food"},
			{ID: "savings", Name: "Savings"},
		},
		Spend: map[string]float64{"food": 420.5},
	}
}

func TestSuggestBudgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)

	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Monthly income: 3000.00")
			assert.Contains(t, prompt, "- food, Food, 420.50")
			return "```json\n{\"categoryBudgets\": {\"food\": 2400, \"savings\": \"600\"}}\n```", nil
		})

	raw, err := NewClient(gen, WithRetryConfig(noDelay)).SuggestBudgets(context.Background(), budgetPrompt())
	require.NoError(t, err)
	assert.Equal(t, json.Number("2400"), raw["food"])
	assert.Equal(t, "600", raw["savings"])
}

func TestSuggestBudgets_RetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)

	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return("", &Error{Code: ErrRateLimited, Retryable: true}),
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(`{"categoryBudgets": {"food": 3000}}`, nil),
	)

	raw, err := NewClient(gen, WithRetryConfig(noDelay)).SuggestBudgets(context.Background(), budgetPrompt())
	require.NoError(t, err)
	assert.Len(t, raw, 1)
}

func TestSuggestBudgets_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"prose", "I think you should spend less."},
		{"missing key", `{"budgets": {"food": 3000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := NewMockTextGenerator(ctrl)
			gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(tt.reply, nil).Times(1)

			_, err := NewClient(gen, WithRetryConfig(noDelay)).SuggestBudgets(context.Background(), budgetPrompt())
			var aiErr *Error
			require.ErrorAs(t, err, &aiErr)
			assert.Equal(t, ErrMalformedResponse, aiErr.Code)
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	var c *Client
	_, err := c.GenerateInsights(context.Background(), InsightPrompt{})
	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrNotConfigured, aiErr.Code)

	_, err = NewClient(nil).SuggestBudgets(context.Background(), budgetPrompt())
	require.ErrorAs(t, err, &aiErr)
}

func TestGenerateInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)

	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Month: 2025-03")
			// Highest spend is listed first.
			assert.Less(t, strings.Index(prompt, "- Rent"), strings.Index(prompt, "- Food"))
			return "Here you go: {\"insights\": []} Enjoy!", nil
		})

	out, err := NewClient(gen, WithRetryConfig(noDelay)).GenerateInsights(context.Background(), InsightPrompt{
		Month: "2025-03",
		Categories: []CategorySummary{
			{Name: "Food", Budget: 500, Spent: 320},
			{Name: "Rent", Budget: 1500, Spent: 1500},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"insights": []}`, string(out))
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{`Sure! [{"a":1}] hope that helps`, `[{"a":1}]`},
		{`no json here`, `no json here`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanJSON(tt.in), tt.in)
	}
}

func TestClassify(t *testing.T) {
	var aiErr *Error

	require.ErrorAs(t, classify(genai.APIError{Code: http.StatusTooManyRequests}), &aiErr)
	assert.Equal(t, ErrRateLimited, aiErr.Code)
	assert.True(t, aiErr.Retryable)

	require.ErrorAs(t, classify(genai.APIError{Code: http.StatusServiceUnavailable}), &aiErr)
	assert.Equal(t, ErrUnavailable, aiErr.Code)
	assert.True(t, aiErr.Retryable)

	require.ErrorAs(t, classify(genai.APIError{Code: http.StatusBadRequest}), &aiErr)
	assert.Equal(t, ErrRejected, aiErr.Code)
	assert.False(t, aiErr.Retryable)

	require.ErrorAs(t, classify(errors.New("connection reset")), &aiErr)
	assert.True(t, aiErr.Retryable)

	assert.NoError(t, classify(nil))
}
