package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/recurrence"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/google/uuid"
)

func (s *FinanceService) CreateRecurrenceRule(
	ctx context.Context,
	req *connect.Request[rpc.CreateRecurrenceRuleRequest],
) (*connect.Response[rpc.CreateRecurrenceRuleResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	if err := validateEntry(msg.Type, msg.Amount, msg.Category); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rule := &model.RecurrenceRule{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         msg.Type,
		Amount:       msg.Amount,
		Category:     msg.Category,
		CategoryName: msg.CategoryName,
		Description:  strings.TrimSpace(msg.Description),
		Frequency:    msg.Frequency,
		StartDate:    dayOf(msg.StartDate),
		DayOfMonth:   msg.DayOfMonth,
		DayOfWeek:    msg.DayOfWeek,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if msg.EndDate != nil {
		end := dayOf(*msg.EndDate)
		rule.EndDate = &end
	}
	if err := recurrence.Validate(rule); err != nil {
		return nil, invalidArgument(err)
	}

	if err := s.store.CreateRecurrenceRule(ctx, rule); err != nil {
		return nil, auth.WrapStoreError("create recurrence rule", err)
	}

	log := s.log(ctx, "recurrence")
	log.Info().Str("rule_id", rule.ID).Str("frequency", string(rule.Frequency)).
		Msg("created recurrence rule")

	return connect.NewResponse(&rpc.CreateRecurrenceRuleResponse{
		Rule: s.schedule(rule, s.today()),
	}), nil
}

func (s *FinanceService) ListRecurrenceRules(
	ctx context.Context,
	req *connect.Request[rpc.ListRecurrenceRulesRequest],
) (*connect.Response[rpc.ListRecurrenceRulesResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	rules, nextToken, err := s.store.ListRecurrenceRules(ctx, userID, req.Msg.ActiveOnly,
		auth.NormalizePageSize(req.Msg.PageSize), req.Msg.PageToken)
	if err != nil {
		return nil, auth.WrapStoreError("list recurrence rules", err)
	}

	today := s.today()
	out := make([]rpc.ScheduledRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, s.schedule(rule, today))
	}
	return connect.NewResponse(&rpc.ListRecurrenceRulesResponse{
		Rules:         out,
		NextPageToken: nextToken,
	}), nil
}

// schedule projects the next occurrence of an active rule. Malformed and
// inactive rules carry no projection.
func (s *FinanceService) schedule(rule *model.RecurrenceRule, today time.Time) rpc.ScheduledRule {
	sr := rpc.ScheduledRule{Rule: rule}
	if !rule.Active {
		return sr
	}
	next, completed, err := recurrence.NextOccurrence(rule, today)
	if err != nil {
		return sr
	}
	sr.Completed = completed
	if !completed {
		sr.NextOccurrence = &next
	}
	return sr
}

// validateEntry checks the fields shared by transactions and recurrence rules.
func validateEntry(typ model.TransactionType, amount float64, category string) error {
	if !typ.Valid() {
		return connect.NewError(connect.CodeInvalidArgument,
			model.NewValidationError("type", "must be expense or revenue", string(typ)))
	}
	if amount < 0 {
		return connect.NewError(connect.CodeInvalidArgument,
			model.NewValidationError("amount", "must not be negative", amount))
	}
	if strings.TrimSpace(category) == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("category is required"))
	}
	return nil
}
