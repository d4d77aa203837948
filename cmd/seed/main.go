// Command seed loads demo categories, transactions and recurrence rules into a
// running server through its RPC API, then exercises the automation RPCs.
//
// Without AUTH_TOKEN the server must run with ENV=local or SKIP_AUTH=true.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/logging"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/rs/zerolog"
)

func main() {
	logger := logging.New(logging.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true})

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	var opts []connect.ClientOption
	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		logger.Info().Msg("using provided auth token")
		opts = append(opts, connect.WithInterceptors(authInterceptor(token)))
	} else {
		logger.Info().Msg("no auth token provided; server must skip auth")
		opts = append(opts, connect.WithInterceptors(impersonateInterceptor(userID)))
	}

	client := rpc.NewAutomationServiceClient(&http.Client{Timeout: 30 * time.Second}, apiURL, opts...)
	ctx := context.Background()
	log := logger.With().Str("user_id", userID).Str("api_url", apiURL).Logger()

	steps := []struct {
		name string
		fn   func(context.Context, *rpc.Client, zerolog.Logger) error
	}{
		{"categories", seedCategories},
		{"transactions", seedTransactions},
		{"recurrence rules", seedRecurrenceRules},
		{"automation", runAutomation},
	}
	for _, step := range steps {
		if err := step.fn(ctx, client, log.With().Str("step", step.name).Logger()); err != nil {
			log.Fatal().Err(err).Str("step", step.name).Msg("seeding failed")
		}
	}
	log.Info().Msg("seeded all demo data")
}

// authInterceptor adds the Authorization header to requests
func authInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

// impersonateInterceptor selects the seeded user on a server running without auth.
func impersonateInterceptor(userID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("X-Debug-Impersonate-User", userID)
			return next(ctx, req)
		}
	}
}

func seedCategories(ctx context.Context, client *rpc.Client, log zerolog.Logger) error {
	for _, name := range []string{"Food", "Transport", "Utilities", "Healthcare", "Entertainment", "Shopping", "Housing", "Savings"} {
		if _, err := client.UpsertCategory(ctx, connect.NewRequest(&rpc.UpsertCategoryRequest{Name: name})); err != nil {
			return fmt.Errorf("failed to create category '%s': %w", name, err)
		}
		log.Debug().Str("category", name).Msg("created category")
	}
	return nil
}

func seedTransactions(ctx context.Context, client *rpc.Client, log zerolog.Logger) error {
	entries := []struct {
		description string
		amount      float64
		category    string
		typ         model.TransactionType
		daysAgo     int
	}{
		{"Grocery shopping at Woolworths", 156.80, "food", model.TransactionTypeExpense, 0},
		{"Uber ride to work", 18.50, "transport", model.TransactionTypeExpense, 1},
		{"Coffee at local cafe", 6.50, "food", model.TransactionTypeExpense, 2},
		{"Electricity bill", 185.00, "utilities", model.TransactionTypeExpense, 3},
		{"Dinner at restaurant", 78.50, "food", model.TransactionTypeExpense, 4},
		{"Gym membership", 65.00, "healthcare", model.TransactionTypeExpense, 5},
		{"Amazon purchase - headphones", 149.00, "shopping", model.TransactionTypeExpense, 5},
		{"Petrol", 95.00, "transport", model.TransactionTypeExpense, 8},
		{"Phone bill", 79.00, "utilities", model.TransactionTypeExpense, 9},
		{"Movie tickets", 36.00, "entertainment", model.TransactionTypeExpense, 11},
		{"Weekly groceries", 142.30, "food", model.TransactionTypeExpense, 14},
		{"Car service", 350.00, "transport", model.TransactionTypeExpense, 18},
		{"New shoes", 189.00, "shopping", model.TransactionTypeExpense, 22},
		{"Concert tickets", 120.00, "entertainment", model.TransactionTypeExpense, 38},
		{"Software Engineer Salary", 8500.00, "salary", model.TransactionTypeRevenue, 0},
		{"Freelance project", 1500.00, "freelance", model.TransactionTypeRevenue, 15},
		// Entered twice to show the duplicate warning.
		{"Weekly groceries", 142.30, "food", model.TransactionTypeExpense, 13},
	}

	var flagged int
	for _, e := range entries {
		resp, err := client.CreateTransaction(ctx, connect.NewRequest(&rpc.CreateTransactionRequest{
			Type:        e.typ,
			Amount:      e.amount,
			Category:    e.category,
			Date:        time.Now().AddDate(0, 0, -e.daysAgo),
			Description: e.description,
		}))
		if err != nil {
			return fmt.Errorf("failed to create transaction '%s': %w", e.description, err)
		}
		if d := resp.Msg.Duplicate; d != nil {
			flagged++
			log.Warn().Str("description", e.description).Str("confidence", d.Confidence).Msg("duplicate warning")
		}
	}
	log.Info().Int("count", len(entries)).Int("flagged", flagged).Msg("created transactions")
	return nil
}

func seedRecurrenceRules(ctx context.Context, client *rpc.Client, log zerolog.Logger) error {
	today := time.Now().UTC()
	day := today.Day()
	weekday := int(today.Weekday())

	rules := []*rpc.CreateRecurrenceRuleRequest{
		{Type: model.TransactionTypeExpense, Amount: 22.99, Category: "entertainment", Description: "Netflix subscription",
			Frequency: model.FrequencyMonthly, StartDate: today.AddDate(0, -6, 0), DayOfMonth: &day},
		{Type: model.TransactionTypeExpense, Amount: 2200.00, Category: "housing", Description: "Rent payment",
			Frequency: model.FrequencyMonthly, StartDate: today.AddDate(-1, 0, 0), DayOfMonth: intPtr(1)},
		{Type: model.TransactionTypeExpense, Amount: 12.00, Category: "food", Description: "Office lunch",
			Frequency: model.FrequencyWeekly, StartDate: today.AddDate(0, -1, 0), DayOfWeek: &weekday},
		{Type: model.TransactionTypeRevenue, Amount: 250.00, Category: "dividends", Description: "Dividend payment",
			Frequency: model.FrequencyYearly, StartDate: today.AddDate(-2, 0, 0), DayOfMonth: &day},
	}
	for _, r := range rules {
		resp, err := client.CreateRecurrenceRule(ctx, connect.NewRequest(r))
		if err != nil {
			return fmt.Errorf("failed to create recurrence rule '%s': %w", r.Description, err)
		}
		ev := log.Info().Str("description", r.Description).Str("frequency", string(r.Frequency))
		if next := resp.Msg.Rule.NextOccurrence; next != nil {
			ev = ev.Time("next_occurrence", *next)
		}
		ev.Msg("created recurrence rule")
	}
	return nil
}

func runAutomation(ctx context.Context, client *rpc.Client, log zerolog.Logger) error {
	processed, err := client.ProcessRecurringTransactions(ctx, connect.NewRequest(&rpc.ProcessRecurringTransactionsRequest{}))
	if err != nil {
		return fmt.Errorf("failed to process recurring transactions: %w", err)
	}
	log.Info().Int32("processed", processed.Msg.ProcessedCount).Int32("skipped", processed.Msg.SkippedCount).
		Msg("processed recurring transactions")

	budget, err := client.AutoBudget(ctx, connect.NewRequest(&rpc.AutoBudgetRequest{Income: 10000, Apply: true}))
	if err != nil {
		return fmt.Errorf("failed to allocate budget: %w", err)
	}
	log.Info().Int64("total", budget.Msg.Allocation.Total()).Msg("applied automatic budget")

	insights, err := client.GenerateInsights(ctx, connect.NewRequest(&rpc.GenerateInsightsRequest{}))
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}
	for _, ins := range insights.Msg.Insights {
		log.Info().Str("type", string(ins.Type)).Str("title", ins.Title).Bool("fallback", insights.Msg.Fallback).Msg("insight")
	}
	return nil
}

func intPtr(v int) *int { return &v }
