package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/ai"
	"github.com/castlemilk/pfinance/automation/internal/allocator"
	"github.com/castlemilk/pfinance/automation/internal/duplicates"
	"github.com/castlemilk/pfinance/automation/internal/insights"
	"github.com/castlemilk/pfinance/automation/internal/logging"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/recurrence"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/castlemilk/pfinance/automation/internal/store"
	"github.com/rs/zerolog"
)

// FinanceService implements the AutomationService RPCs on top of a Store.
type FinanceService struct {
	store      store.Store
	ai         *ai.Client
	allocator  *allocator.Allocator
	validator  *insights.Validator
	locks      *recurrence.KeyedMutex
	windowDays int
	now        func() time.Time
	logger     zerolog.Logger
}

var _ rpc.AutomationServiceHandler = (*FinanceService)(nil)

// Option configures a FinanceService.
type Option func(*FinanceService)

// WithAllocator replaces the default bucket allocator.
func WithAllocator(a *allocator.Allocator) Option {
	return func(s *FinanceService) { s.allocator = a }
}

// WithValidator replaces the default insight validator.
func WithValidator(v *insights.Validator) Option {
	return func(s *FinanceService) { s.validator = v }
}

// WithDuplicateWindow sets the default duplicate search window in days.
func WithDuplicateWindow(days int) Option {
	return func(s *FinanceService) { s.windowDays = days }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *FinanceService) { s.logger = logger }
}

// NewFinanceService creates the service. aiClient may be nil, in which case
// AI-backed RPCs use their fallbacks.
func NewFinanceService(st store.Store, aiClient *ai.Client, opts ...Option) *FinanceService {
	s := &FinanceService{
		store:      st,
		ai:         aiClient,
		allocator:  allocator.Default(),
		validator:  insights.NewValidator(),
		locks:      recurrence.NewKeyedMutex(),
		windowDays: duplicates.DefaultWindowDays,
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the request logger when one is attached, else the service
// logger, tagged with component.
func (s *FinanceService) log(ctx context.Context, component string) zerolog.Logger {
	logger := s.logger
	if l, ok := ctx.Value(logging.LoggerKey).(zerolog.Logger); ok {
		logger = l
	}
	return logging.Component(logger, component)
}

// today is the current calendar day in UTC.
func (s *FinanceService) today() time.Time {
	return dayOf(s.now())
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// invalidArgument maps validation failures onto CodeInvalidArgument and
// leaves other errors untouched.
func invalidArgument(err error) error {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return err
}

// collectTransactions pages through a user's transactions in [start, end].
func (s *FinanceService) collectTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	pageToken := ""
	for {
		page, next, err := s.store.ListTransactions(ctx, userID, &start, &end, 1000, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		for _, t := range page {
			out = append(out, *t)
		}
		if next == "" {
			return out, nil
		}
		pageToken = next
	}
}

func (s *FinanceService) listCategories(ctx context.Context, userID string) ([]model.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, *c)
	}
	return out, nil
}
