package auth

import (
	"context"

	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/logging"
)

// Debug headers honoured by DebugAuthInterceptor when auth is skipped.
const (
	headerImpersonate = "X-Debug-Impersonate-User"
	headerScheduler   = "X-Debug-Scheduler"
)

// AuthInterceptor requires a verified bearer token on every procedure and
// stores the caller's claims on the context. /health is served outside the
// Connect handler and never reaches it.
func AuthInterceptor(verifier TokenVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, nil)
			}
			token, err := ExtractTokenFromHeader(header)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				log := logging.FromContext(ctx)
				log.Debug().Str("component", "auth").Str("procedure", req.Spec().Procedure).
					Err(err).Msg("token rejected")
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithUserClaims(ctx, claims), req)
		}
	}
}

// DebugAuthInterceptor lets a development server act as any user, or as the
// scheduler, from request headers. It does nothing unless enabled.
func DebugAuthInterceptor(enabled bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !enabled {
				return next(ctx, req)
			}
			if uid := req.Header().Get(headerImpersonate); uid != "" {
				ctx = WithUserClaims(ctx, &UserClaims{
					UID:       uid,
					Email:     uid + "@debug.local",
					Scheduler: req.Header().Get(headerScheduler) == "true",
				})
			}
			return next(ctx, req)
		}
	}
}

type claimsKey struct{}

// WithUserClaims returns a copy of ctx carrying the caller's claims.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetUserClaims returns the claims stored by one of the interceptors.
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*UserClaims)
	return claims, ok && claims != nil
}

// GetUserID returns the caller's uid.
func GetUserID(ctx context.Context) (string, bool) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return "", false
	}
	return claims.UID, true
}
