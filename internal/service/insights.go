package service

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/ai"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/insights"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
)

const monthLayout = "2006-01"

// GenerateInsights produces three insights for a month and corrects any
// figure in them that contradicts the user's own data. Generation failures
// return the static fallback set rather than an error.
func (s *FinanceService) GenerateInsights(
	ctx context.Context,
	req *connect.Request[rpc.GenerateInsightsRequest],
) (*connect.Response[rpc.GenerateInsightsResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	month := s.now().UTC()
	if m := strings.TrimSpace(req.Msg.Month); m != "" {
		month, err = time.Parse(monthLayout, m)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				model.NewValidationError("month", "expected YYYY-MM", m))
		}
	}
	start, end := monthRange(month)

	categories, err := s.listCategories(ctx, userID)
	if err != nil {
		return nil, auth.WrapStoreError("list categories", err)
	}
	history, err := s.collectTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, auth.WrapStoreError("load transactions", err)
	}

	in := insights.Inputs{
		Budgets:       categories,
		History:       history,
		MonthlyIncome: req.Msg.MonthlyIncome,
	}
	if in.MonthlyIncome <= 0 {
		for _, t := range history {
			if t.Type == model.TransactionTypeRevenue {
				in.MonthlyIncome += t.Amount
			}
		}
	}
	for _, c := range categories {
		in.MonthlyBudget += c.Budget
	}
	facts := insights.ComputeFacts(in)
	in.TotalSpending = facts.TotalSpending

	log := s.log(ctx, "insights")
	payload, err := s.ai.GenerateInsights(ctx, insightPrompt(start, facts))
	if err != nil {
		log.Warn().Err(err).Msg("insight generation failed, returning fallback")
		return connect.NewResponse(&rpc.GenerateInsightsResponse{Insights: insights.Fallback(), Fallback: true}), nil
	}
	parsed, err := insights.Parse(payload)
	if err != nil {
		log.Warn().Err(err).Msg("unusable insight payload, returning fallback")
		return connect.NewResponse(&rpc.GenerateInsightsResponse{Insights: insights.Fallback(), Fallback: true}), nil
	}

	out, corrections := s.validator.Check(parsed, in)
	for _, c := range corrections {
		log.Info().Int("index", c.Index).Str("checker", c.Checker).Str("original_title", c.Original.Title).
			Msg("corrected insight")
	}
	return connect.NewResponse(&rpc.GenerateInsightsResponse{
		Insights:        out,
		CorrectionCount: int32(len(corrections)),
	}), nil
}

func insightPrompt(month time.Time, facts insights.Facts) ai.InsightPrompt {
	p := ai.InsightPrompt{
		Month:         month.Format("January 2006"),
		MonthlyIncome: facts.MonthlyIncome,
		MonthlyBudget: facts.MonthlyBudget,
		TotalSpending: facts.TotalSpending,
	}
	for _, c := range facts.Categories {
		p.Categories = append(p.Categories, ai.CategorySummary{Name: c.Name, Budget: c.Budget, Spent: c.Spent})
	}
	return p
}
