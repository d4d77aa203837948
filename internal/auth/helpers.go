package auth

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/store"
)

// RequireAuth extracts user claims from context or returns an unauthenticated error
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireUserAccess verifies the authenticated user matches the requested user ID
func RequireUserAccess(ctx context.Context, requestedUserID string) (*UserClaims, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if requestedUserID != "" && requestedUserID != claims.UID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("cannot access another user's resources"))
	}

	return claims, nil
}

// ResolveUserID returns the user a request acts on: requestedUserID when the
// caller may access it, otherwise the caller's own ID.
func ResolveUserID(ctx context.Context, requestedUserID string) (string, error) {
	claims, err := RequireUserAccess(ctx, requestedUserID)
	if err != nil {
		return "", err
	}
	return claims.UID, nil
}

// NormalizePageSize returns a valid page size (default 100, max 1000)
func NormalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 100
	}
	if pageSize > 1000 {
		return 1000
	}
	return pageSize
}

// WrapStoreError wraps store errors with operation context and maps store
// sentinels onto connect codes.
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("failed to %s: %w", operation, err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, wrapped)
	case errors.Is(err, store.ErrConflict):
		return connect.NewError(connect.CodeAborted, wrapped)
	default:
		return connect.NewError(connect.CodeInternal, wrapped)
	}
}
