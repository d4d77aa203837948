package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/ai"
	"github.com/castlemilk/pfinance/automation/internal/allocator"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/shopspring/decimal"
)

// budgetHistoryMonths is how far back spending history is read for allocation.
const budgetHistoryMonths = 3

// AutoBudget allocates income over the user's categories with a template.
func (s *FinanceService) AutoBudget(
	ctx context.Context,
	req *connect.Request[rpc.AutoBudgetRequest],
) (*connect.Response[rpc.AutoBudgetResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	categories, history, err := s.budgetInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	income := decimal.NewFromFloat(req.Msg.Income)
	template := allocator.Template(req.Msg.Template)
	if template == "" {
		template = allocator.TemplateAuto
	}
	alloc, err := s.allocator.AllocateWith(template, income, categories, history)
	if err != nil {
		return nil, invalidArgument(err)
	}
	s.checkConservation(ctx, alloc, income, categories)

	resp := &rpc.AutoBudgetResponse{Template: string(template), Allocation: alloc}
	if req.Msg.Apply {
		if err := s.applyAllocation(ctx, categories, alloc); err != nil {
			return nil, err
		}
		resp.Applied = true
	}
	return connect.NewResponse(resp), nil
}

// SuggestBudget asks the AI service for an allocation and repairs it so that it
// conserves income. When the service is unavailable the auto template is used.
func (s *FinanceService) SuggestBudget(
	ctx context.Context,
	req *connect.Request[rpc.SuggestBudgetRequest],
) (*connect.Response[rpc.SuggestBudgetResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if req.Msg.Income < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			model.NewValidationError("income", "must not be negative", req.Msg.Income))
	}

	categories, history, err := s.budgetInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	income := decimal.NewFromFloat(req.Msg.Income)
	log := s.log(ctx, "allocator")

	resp := &rpc.SuggestBudgetResponse{}
	raw, err := s.ai.SuggestBudgets(ctx, ai.BudgetPrompt{
		Income:     req.Msg.Income,
		Categories: categories,
		Spend:      spendFloats(history),
	})
	if err != nil {
		log.Warn().Err(err).Msg("budget suggestion unavailable, using automatic allocation")
		alloc, allocErr := s.allocator.Allocate(income, categories, history)
		if allocErr != nil {
			return nil, invalidArgument(allocErr)
		}
		resp.Allocation = alloc
		resp.Issues = []string{fmt.Sprintf("suggestion unavailable (%s), used automatic allocation", aiErrorCode(err))}
	} else {
		alloc, issues := allocator.ValidateExternal(income, categories, raw)
		resp.Allocation = alloc
		for _, issue := range issues {
			resp.Issues = append(resp.Issues, issue.Error())
		}
		if len(issues) > 0 {
			log.Info().Int("issues", len(issues)).Msg("repaired suggested budget")
		}
	}
	s.checkConservation(ctx, resp.Allocation, income, categories)

	if req.Msg.Apply {
		if err := s.applyAllocation(ctx, categories, resp.Allocation); err != nil {
			return nil, err
		}
		resp.Applied = true
	}
	return connect.NewResponse(resp), nil
}

func (s *FinanceService) budgetInputs(ctx context.Context, userID string) ([]model.Category, []model.Transaction, error) {
	categories, err := s.listCategories(ctx, userID)
	if err != nil {
		return nil, nil, auth.WrapStoreError("list categories", err)
	}
	end := s.now().UTC()
	start := end.AddDate(0, -budgetHistoryMonths, 0)
	history, err := s.collectTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, nil, auth.WrapStoreError("load spending history", err)
	}
	return categories, history, nil
}

func (s *FinanceService) applyAllocation(ctx context.Context, categories []model.Category, alloc model.BudgetAllocation) error {
	for _, cat := range allocator.Apply(categories, alloc) {
		cat := cat
		if err := s.store.UpsertCategory(ctx, &cat); err != nil {
			return auth.WrapStoreError("update category budget", err)
		}
	}
	return nil
}

// checkConservation logs allocations that lose or invent money.
func (s *FinanceService) checkConservation(ctx context.Context, alloc model.BudgetAllocation, income decimal.Decimal, categories []model.Category) {
	if len(categories) == 0 {
		return
	}
	if err := allocator.CheckConservation(alloc, income); err != nil {
		log := s.log(ctx, "allocator")
		log.Error().Err(err).Msg("allocation does not conserve income")
	}
}

func spendFloats(history []model.Transaction) map[string]float64 {
	spend := allocator.SpendByCategory(history)
	out := make(map[string]float64, len(spend))
	for id, v := range spend {
		out[id] = v.InexactFloat64()
	}
	return out
}

func aiErrorCode(err error) string {
	var aiErr *ai.Error
	if errors.As(err, &aiErr) {
		return string(aiErr.Code)
	}
	return "error"
}

// monthRange returns the first instant of month and the last instant before
// the next one.
func monthRange(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
