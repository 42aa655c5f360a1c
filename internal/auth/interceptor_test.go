package auth

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *UserClaims
	raw    map[string]interface{}
	err    error
	tokens []string
}

func (v *stubVerifier) VerifyToken(_ context.Context, token string) (*UserClaims, map[string]interface{}, error) {
	v.tokens = append(v.tokens, token)
	return v.claims, v.raw, v.err
}

type ping struct{}

// capture runs the interceptor chain and returns the context seen by the handler.
func capture(t *testing.T, interceptor connect.UnaryInterceptorFunc, header map[string]string) (context.Context, error) {
	t.Helper()
	req := connect.NewRequest(&ping{})
	for k, v := range header {
		req.Header().Set(k, v)
	}
	var seen context.Context
	next := func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		seen = ctx
		return connect.NewResponse(&ping{}), nil
	}
	_, err := interceptor(next)(context.Background(), req)
	return seen, err
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		expectedErr bool
		errContains string
		wantToken   string
	}{
		{
			name:        "empty header",
			authHeader:  "",
			expectedErr: true,
			errContains: "authorization header is required",
		},
		{
			name:        "wrong prefix",
			authHeader:  "Basic token123",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:        "bearer only no token",
			authHeader:  "Bearer",
			expectedErr: true,
			errContains: "must be Bearer token",
		},
		{
			name:       "valid bearer token",
			authHeader: "Bearer mytoken123",
			wantToken:  "mytoken123",
		},
		{
			name:       "bearer mixed case",
			authHeader: "BEARER mytoken789",
			wantToken:  "mytoken789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractTokenFromHeader(tt.authHeader)

			if tt.expectedErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthInterceptor(t *testing.T) {
	t.Run("missing header is unauthenticated", func(t *testing.T) {
		v := &stubVerifier{}
		_, err := capture(t, AuthInterceptor(v), nil)
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		assert.Empty(t, v.tokens)
	})

	t.Run("rejected token is unauthenticated", func(t *testing.T) {
		v := &stubVerifier{err: errors.New("expired")}
		_, err := capture(t, AuthInterceptor(v), map[string]string{"Authorization": "Bearer abc"})
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		assert.Equal(t, []string{"abc"}, v.tokens)
	})

	t.Run("verified token carries claims and subscription", func(t *testing.T) {
		v := &stubVerifier{
			claims: &UserClaims{UID: "owner-1"},
			raw:    map[string]interface{}{"subscription_tier": "PRO", "subscription_status": "TRIALING"},
		}
		ctx, err := capture(t, AuthInterceptor(v), map[string]string{"Authorization": "Bearer abc"})
		require.NoError(t, err)

		uid, ok := GetUserID(ctx)
		require.True(t, ok)
		assert.Equal(t, "owner-1", uid)
		sub := GetSubscription(ctx)
		require.NotNil(t, sub)
		assert.Equal(t, TierPro, sub.Tier)
		assert.True(t, sub.Active())
	})
}

func TestDebugAndLocalDevInterceptors(t *testing.T) {
	t.Run("impersonation ignored unless auth is skipped", func(t *testing.T) {
		ctx, err := capture(t, DebugAuthInterceptor(false), map[string]string{"X-Debug-Impersonate-User": "eve"})
		require.NoError(t, err)
		_, ok := GetUserClaims(ctx)
		assert.False(t, ok)
	})

	t.Run("impersonation sets claims", func(t *testing.T) {
		ctx, err := capture(t, DebugAuthInterceptor(true), map[string]string{"X-Debug-Impersonate-User": "alice"})
		require.NoError(t, err)
		uid, _ := GetUserID(ctx)
		assert.Equal(t, "alice", uid)
	})

	t.Run("local dev fills in a default owner", func(t *testing.T) {
		ctx, err := capture(t, LocalDevInterceptor(), nil)
		require.NoError(t, err)
		uid, _ := GetUserID(ctx)
		assert.Equal(t, LocalDevOwnerID, uid)
		assert.NoError(t, RequireActiveSubscription(ctx))
	})
}

func TestContextUserClaims(t *testing.T) {
	t.Run("WithUserClaims adds claims to context", func(t *testing.T) {
		claims := &UserClaims{UID: "test-uid", Email: "test@example.com", DisplayName: "Test User", Verified: true}
		retrieved, ok := GetUserClaims(WithUserClaims(context.Background(), claims))
		require.True(t, ok)
		assert.Equal(t, claims, retrieved)
	})

	t.Run("GetUserID returns empty for empty context", func(t *testing.T) {
		uid, ok := GetUserID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, uid)
	})
}

func TestIsPublicEndpoint(t *testing.T) {
	assert.True(t, isPublicEndpoint(HealthProcedure))
	assert.False(t, isPublicEndpoint("/agenda.v1.SchedulingService/GetMonthlySeries"))
	assert.False(t, isPublicEndpoint(""))
}

func TestClaimsFromToken(t *testing.T) {
	claims := claimsFromToken("uid-1", map[string]interface{}{
		"email":          "owner@example.com",
		"email_verified": true,
		"name":           "Ana",
	})
	assert.Equal(t, &UserClaims{UID: "uid-1", Email: "owner@example.com", DisplayName: "Ana", Verified: true}, claims)
}
