package auth

import (
	"context"

	"connectrpc.com/connect"
)

// localDevUser acts for every request a local server receives without an
// impersonation header.
var localDevUser = UserClaims{
	UID:         "local-dev-user",
	Email:       "dev@localhost",
	DisplayName: "Local Dev User",
	Verified:    true,
}

// LocalDevInterceptor stands in for AuthInterceptor on local servers. Claims
// already set by DebugAuthInterceptor win.
func LocalDevInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if _, ok := GetUserClaims(ctx); !ok {
				claims := localDevUser
				ctx = WithUserClaims(ctx, &claims)
			}
			return next(ctx, req)
		}
	}
}
