package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/recurrence"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/castlemilk/pfinance/automation/internal/store"
	"github.com/google/uuid"
)

type ruleOutcome int

const (
	outcomeSkipped ruleOutcome = iota
	outcomeProcessed
	outcomeEnded
	outcomeInvalid
	outcomeConflict
)

// ProcessRecurringTransactions materializes every active recurrence rule that is
// due today. A scheduler identity processes all users; anyone else processes
// only their own rules.
func (s *FinanceService) ProcessRecurringTransactions(
	ctx context.Context,
	req *connect.Request[rpc.ProcessRecurringTransactionsRequest],
) (*connect.Response[rpc.ProcessRecurringTransactionsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	userID := claims.UID
	if claims.Scheduler {
		userID = ""
	}

	today := s.today()
	if req.Msg.Today != nil {
		today = dayOf(*req.Msg.Today)
	}
	log := s.log(ctx, "recurring_processor")

	resp := &rpc.ProcessRecurringTransactionsResponse{}
	pageToken := ""
	for {
		rules, nextToken, err := s.store.ListRecurrenceRules(ctx, userID, true, 1000, pageToken)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal,
				fmt.Errorf("failed to list recurrence rules: %w", err))
		}

		for _, rule := range rules {
			outcome, procErr := s.processOneRecurrenceRule(ctx, rule.ID, today)
			if procErr != nil {
				log.Error().Err(procErr).Str("rule_id", rule.ID).Str("user_id", rule.UserID).
					Msg("error processing recurrence rule")
				resp.ErrorCount++
				continue
			}
			switch outcome {
			case outcomeProcessed:
				resp.ProcessedCount++
			case outcomeEnded:
				resp.EndedCount++
			case outcomeInvalid:
				resp.InvalidCount++
			case outcomeConflict:
				resp.ConflictCount++
			default:
				resp.SkippedCount++
			}
		}

		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}

	log.Info().
		Time("today", today).
		Int32("processed", resp.ProcessedCount).
		Int32("skipped", resp.SkippedCount).
		Int32("ended", resp.EndedCount).
		Int32("invalid", resp.InvalidCount).
		Int32("conflicts", resp.ConflictCount).
		Int32("errors", resp.ErrorCount).
		Msg("completed")

	return connect.NewResponse(resp), nil
}

// processOneRecurrenceRule runs check, materialize and persist for one rule
// while holding its lock. The rule is re-read under the lock because the
// listed copy may predate another pass's write.
func (s *FinanceService) processOneRecurrenceRule(ctx context.Context, ruleID string, today time.Time) (ruleOutcome, error) {
	unlock := s.locks.Lock(ruleID)
	defer unlock()

	rule, err := s.store.GetRecurrenceRule(ctx, ruleID)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("failed to load recurrence rule: %w", err)
	}

	ev := recurrence.Evaluate(rule, today)
	if ev.Err != nil {
		log := s.log(ctx, "recurring_processor")
		log.Warn().Err(ev.Err).Str("rule_id", rule.ID).Msg("skipping malformed recurrence rule")
		return outcomeInvalid, nil
	}

	if ev.Expired {
		if !rule.Active {
			return outcomeSkipped, nil
		}
		if err := s.endRule(ctx, rule, today); err != nil {
			return outcomeSkipped, err
		}
		return outcomeEnded, nil
	}

	if !ev.Due {
		if ev.Completed {
			if err := s.endRule(ctx, rule, today); err != nil {
				return outcomeSkipped, err
			}
			return outcomeEnded, nil
		}
		return outcomeSkipped, nil
	}

	txn := recurrence.Materialize(rule, today, uuid.New().String())
	err = s.store.MaterializeRecurrence(ctx, rule.ID, rule.LastGenerated, &txn, today)
	if errors.Is(err, store.ErrConflict) {
		return outcomeConflict, nil
	}
	if err != nil {
		return outcomeSkipped, fmt.Errorf("failed to materialize occurrence: %w", err)
	}

	if ev.Completed {
		// Today's occurrence was the last one before EndDate.
		updated, err := s.store.GetRecurrenceRule(ctx, rule.ID)
		if err != nil {
			return outcomeSkipped, fmt.Errorf("failed to reload recurrence rule: %w", err)
		}
		if err := s.endRule(ctx, updated, today); err != nil {
			return outcomeSkipped, err
		}
	}
	return outcomeProcessed, nil
}

// endRule deactivates a rule with no occurrences left.
func (s *FinanceService) endRule(ctx context.Context, rule *model.RecurrenceRule, today time.Time) error {
	rule.Active = false
	rule.UpdatedAt = today
	if err := s.store.UpdateRecurrenceRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to mark recurrence rule as ended: %w", err)
	}
	return nil
}
