package service

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/duplicates"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/google/uuid"
)

// CreateTransaction stores a transaction and reports, without blocking the
// write, any recent transaction it appears to duplicate.
func (s *FinanceService) CreateTransaction(
	ctx context.Context,
	req *connect.Request[rpc.CreateTransactionRequest],
) (*connect.Response[rpc.CreateTransactionResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	if err := validateEntry(msg.Type, msg.Amount, msg.Category); err != nil {
		return nil, err
	}

	date := msg.Date
	if date.IsZero() {
		date = s.now()
	}
	txn := &model.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         msg.Type,
		Amount:       msg.Amount,
		Category:     msg.Category,
		CategoryName: msg.CategoryName,
		Date:         date.UTC(),
		Description:  strings.TrimSpace(msg.Description),
		Notes:        msg.Notes,
		CreatedAt:    s.now().UTC(),
	}

	log := s.log(ctx, "duplicates")
	warning, err := s.findDuplicate(ctx, *txn, s.windowDays)
	if err != nil {
		// Detection is advisory; the write proceeds without it.
		log.Warn().Err(err).Msg("duplicate check failed")
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, auth.WrapStoreError("create transaction", err)
	}
	if warning != nil {
		log.Info().Str("transaction_id", txn.ID).Str("duplicate_of", warning.Transaction.ID).
			Str("confidence", warning.Confidence).Msg("possible duplicate transaction")
	}

	return connect.NewResponse(&rpc.CreateTransactionResponse{
		Transaction: txn,
		Duplicate:   warning,
	}), nil
}

func (s *FinanceService) ListTransactions(
	ctx context.Context,
	req *connect.Request[rpc.ListTransactionsRequest],
) (*connect.Response[rpc.ListTransactionsResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	txns, nextToken, err := s.store.ListTransactions(ctx, userID, req.Msg.StartDate, req.Msg.EndDate,
		auth.NormalizePageSize(req.Msg.PageSize), req.Msg.PageToken)
	if err != nil {
		return nil, auth.WrapStoreError("list transactions", err)
	}
	return connect.NewResponse(&rpc.ListTransactionsResponse{
		Transactions:  txns,
		NextPageToken: nextToken,
	}), nil
}

// CheckDuplicate runs duplicate detection for a transaction that has not been
// stored.
func (s *FinanceService) CheckDuplicate(
	ctx context.Context,
	req *connect.Request[rpc.CheckDuplicateRequest],
) (*connect.Response[rpc.CheckDuplicateResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	window := s.windowDays
	if msg.WindowDays > 0 {
		window = int(msg.WindowDays)
	}
	date := msg.Date
	if date.IsZero() {
		date = s.now()
	}
	candidate := model.Transaction{
		ID:          msg.ID,
		UserID:      userID,
		Type:        msg.Type,
		Amount:      msg.Amount,
		Category:    msg.Category,
		Date:        date.UTC(),
		Description: msg.Description,
	}

	warning, err := s.findDuplicate(ctx, candidate, window)
	if err != nil {
		return nil, auth.WrapStoreError("check duplicate", err)
	}
	return connect.NewResponse(&rpc.CheckDuplicateResponse{Duplicate: warning}), nil
}

// findDuplicate loads the user's transactions within window days of the
// candidate's date and returns the best match, if any.
func (s *FinanceService) findDuplicate(ctx context.Context, candidate model.Transaction, window int) (*rpc.DuplicateWarning, error) {
	if window <= 0 {
		window = duplicates.DefaultWindowDays
	}
	span := time.Duration(window) * 24 * time.Hour
	start := candidate.Date.Add(-span)
	end := candidate.Date.Add(span)

	recent, err := s.collectTransactions(ctx, candidate.UserID, start, end)
	if err != nil {
		return nil, err
	}
	match := duplicates.FindDuplicate(candidate, recent, window)
	if match == nil {
		return nil, nil
	}
	found := match.Transaction
	return &rpc.DuplicateWarning{
		Transaction: &found,
		Confidence:  string(match.Confidence),
	}, nil
}
