package auth

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
)

// SubscriptionTier is the plan named in the token's custom claims.
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "FREE"
	TierPro  SubscriptionTier = "PRO"
)

// SubscriptionStatus mirrors the billing provider's status claim.
type SubscriptionStatus string

const (
	StatusUnspecified SubscriptionStatus = ""
	StatusActive      SubscriptionStatus = "ACTIVE"
	StatusTrialing    SubscriptionStatus = "TRIALING"
	StatusPastDue     SubscriptionStatus = "PAST_DUE"
	StatusCanceled    SubscriptionStatus = "CANCELED"
)

type subscriptionKey struct{}

// SubscriptionInfo holds the user's subscription details extracted during auth
type SubscriptionInfo struct {
	Tier   SubscriptionTier
	Status SubscriptionStatus
}

// Active reports whether the subscription currently grants access.
func (i *SubscriptionInfo) Active() bool {
	return i != nil && (i.Status == StatusActive || i.Status == StatusTrialing)
}

// SubscriptionFromClaims reads subscription_tier and subscription_status from
// Firebase custom claims. Missing or unknown values fall back to a free plan
// with no status.
func SubscriptionFromClaims(claims map[string]interface{}) *SubscriptionInfo {
	info := &SubscriptionInfo{Tier: TierFree, Status: StatusUnspecified}

	if tier, ok := claims["subscription_tier"].(string); ok && SubscriptionTier(tier) == TierPro {
		info.Tier = TierPro
	}

	if status, ok := claims["subscription_status"].(string); ok {
		switch s := SubscriptionStatus(status); s {
		case StatusActive, StatusTrialing, StatusPastDue, StatusCanceled:
			info.Status = s
		}
	}

	return info
}

func devSubscription() *SubscriptionInfo {
	return &SubscriptionInfo{Tier: TierPro, Status: StatusActive}
}

// WithSubscription adds subscription info to context
func WithSubscription(ctx context.Context, info *SubscriptionInfo) context.Context {
	return context.WithValue(ctx, subscriptionKey{}, info)
}

// GetSubscription retrieves subscription info from context
func GetSubscription(ctx context.Context) *SubscriptionInfo {
	info, _ := ctx.Value(subscriptionKey{}).(*SubscriptionInfo)
	return info
}

// RequireActiveSubscription rejects callers whose plan is not active or trialing.
func RequireActiveSubscription(ctx context.Context) error {
	if !GetSubscription(ctx).Active() {
		return connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("your subscription is not active"))
	}
	return nil
}
