package service

import (
	"context"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/ai"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/store"
)

// testNow is the fixed clock used by service tests.
var testNow = time.Date(2025, time.March, 15, 9, 30, 0, 0, time.UTC)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

// testSchedulerContext creates a context for the batch scheduler identity.
func testSchedulerContext() context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:       "scheduler",
		Scheduler: true,
	})
}

// newTestService builds a service on st with a fixed clock. gen may be nil.
func newTestService(st store.Store, gen ai.TextGenerator) *FinanceService {
	var client *ai.Client
	if gen != nil {
		client = ai.NewClient(gen, ai.WithRetryConfig(ai.RetryConfig{}))
	}
	return NewFinanceService(st, client, WithClock(func() time.Time { return testNow }))
}

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
