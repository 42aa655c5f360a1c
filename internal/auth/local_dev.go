package auth

import (
	"context"

	"connectrpc.com/connect"
)

// LocalDevOwnerID owns every row created while auth is skipped and no
// impersonation header is sent.
const LocalDevOwnerID = "local-dev-owner"

// LocalDevInterceptor provides a mock user context for local development.
// Claims already placed by DebugAuthInterceptor are kept.
func LocalDevInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if isPublicEndpoint(req.Spec().Procedure) {
				return next(ctx, req)
			}
			if _, ok := GetUserClaims(ctx); ok {
				return next(ctx, req)
			}

			ctx = withUserClaims(ctx, &UserClaims{
				UID:         LocalDevOwnerID,
				Email:       "dev@localhost",
				DisplayName: "Local Dev Owner",
				Verified:    true,
			})
			ctx = WithSubscription(ctx, devSubscription())

			return next(ctx, req)
		}
	}
}
