package auth

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
)

// HealthProcedure is served without authentication.
const HealthProcedure = "/agenda.v1.SchedulingService/Health"

// AuthInterceptor creates a Connect interceptor that verifies bearer tokens
// and stores the caller's claims and subscription in the context.
func AuthInterceptor(verifier TokenVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if isPublicEndpoint(req.Spec().Procedure) {
				return next(ctx, req)
			}

			token, err := ExtractTokenFromHeader(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, raw, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				slog.Debug("token rejected", "component", "auth", "procedure", req.Spec().Procedure, "err", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = withUserClaims(ctx, claims)
			ctx = WithSubscription(ctx, SubscriptionFromClaims(raw))

			return next(ctx, req)
		}
	}
}

// DebugAuthInterceptor creates an interceptor that allows impersonation via header
// ONLY use this in development - never in production!
func DebugAuthInterceptor(skipAuth bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skipAuth {
				if impersonate := req.Header().Get("X-Debug-Impersonate-User"); impersonate != "" {
					ctx = withUserClaims(ctx, &UserClaims{
						UID:   impersonate,
						Email: impersonate + "@debug.local",
					})
					ctx = WithSubscription(ctx, devSubscription())
				}
			}
			return next(ctx, req)
		}
	}
}

func isPublicEndpoint(procedure string) bool {
	return procedure == HealthProcedure
}

// Context keys
type contextKey string

const userClaimsKey contextKey = "user_claims"

func withUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// WithUserClaims is the exported version for testing purposes
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return withUserClaims(ctx, claims)
}

// GetUserClaims extracts user claims from context
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok
}

// GetUserID is a convenience function to get the user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	if claims, ok := GetUserClaims(ctx); ok {
		return claims.UID, true
	}
	return "", false
}
