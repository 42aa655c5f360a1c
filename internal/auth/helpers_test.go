package auth

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		claims, err := RequireAuth(context.Background())
		assert.Nil(t, claims)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unauthenticated")
	})

	t.Run("returns claims when present in context", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123", Email: "test@example.com"})
		claims, err := RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})
}

func TestRequireOwnerAccess(t *testing.T) {
	ctx := withUserClaims(context.Background(), &UserClaims{UID: "owner-1"})

	t.Run("empty owner resolves to caller", func(t *testing.T) {
		owner, err := RequireOwnerAccess(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", owner)
	})

	t.Run("other owner is denied", func(t *testing.T) {
		_, err := RequireOwnerAccess(ctx, "owner-2")
		require.Error(t, err)
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := RequireOwnerAccess(context.Background(), "owner-1")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}

func TestCheckRowOwner(t *testing.T) {
	ctx := withUserClaims(context.Background(), &UserClaims{UID: "owner-1"})
	assert.NoError(t, CheckRowOwner(ctx, "owner-1"))

	err := CheckRowOwner(ctx, "owner-2")
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	assert.True(t, errors.Is(err, ErrForeignRow))
}

func TestSubscriptionFromClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
		want   SubscriptionInfo
		active bool
	}{
		{"no claims", nil, SubscriptionInfo{Tier: TierFree}, false},
		{"pro active", map[string]interface{}{"subscription_tier": "PRO", "subscription_status": "ACTIVE"}, SubscriptionInfo{Tier: TierPro, Status: StatusActive}, true},
		{"free trialing", map[string]interface{}{"subscription_status": "TRIALING"}, SubscriptionInfo{Tier: TierFree, Status: StatusTrialing}, true},
		{"past due", map[string]interface{}{"subscription_tier": "PRO", "subscription_status": "PAST_DUE"}, SubscriptionInfo{Tier: TierPro, Status: StatusPastDue}, false},
		{"unknown status", map[string]interface{}{"subscription_status": "WHATEVER"}, SubscriptionInfo{Tier: TierFree}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubscriptionFromClaims(tt.claims)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, tt.active, got.Active())
		})
	}
}

func TestRequireActiveSubscription(t *testing.T) {
	err := RequireActiveSubscription(context.Background())
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	ctx := WithSubscription(context.Background(), &SubscriptionInfo{Tier: TierPro, Status: StatusCanceled})
	assert.Error(t, RequireActiveSubscription(ctx))

	ctx = WithSubscription(context.Background(), &SubscriptionInfo{Tier: TierFree, Status: StatusActive})
	assert.NoError(t, RequireActiveSubscription(ctx))
}

func TestWrapStoreError(t *testing.T) {
	assert.NoError(t, WrapStoreError("list rules", nil))

	base := errors.New("boom")
	err := WrapStoreError("list rules", base)
	assert.EqualError(t, err, "failed to list rules: boom")
	assert.ErrorIs(t, err, base)
}
