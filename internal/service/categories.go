package service

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
)

func (s *FinanceService) ListCategories(
	ctx context.Context,
	req *connect.Request[rpc.ListCategoriesRequest],
) (*connect.Response[rpc.ListCategoriesResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, auth.WrapStoreError("list categories", err)
	}
	return connect.NewResponse(&rpc.ListCategoriesResponse{Categories: cats}), nil
}

// UpsertCategory creates or replaces a category. The id defaults to the
// lower-cased name.
func (s *FinanceService) UpsertCategory(
	ctx context.Context,
	req *connect.Request[rpc.UpsertCategoryRequest],
) (*connect.Response[rpc.UpsertCategoryResponse], error) {
	userID, err := auth.ResolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	id := strings.TrimSpace(req.Msg.ID)
	if id == "" {
		id = strings.ToLower(name)
	}
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("category id or name is required"))
	}
	if req.Msg.Budget < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			model.NewValidationError("budget", "must not be negative", req.Msg.Budget))
	}

	cat := &model.Category{ID: id, UserID: userID, Name: name, Budget: req.Msg.Budget}
	if err := s.store.UpsertCategory(ctx, cat); err != nil {
		return nil, auth.WrapStoreError("upsert category", err)
	}
	return connect.NewResponse(&rpc.UpsertCategoryResponse{Category: cat}), nil
}
