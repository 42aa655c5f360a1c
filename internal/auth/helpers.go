package auth

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// RequireAuth extracts user claims from context or returns an unauthenticated error
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireOwnerAccess verifies the authenticated user is the owner of the
// requested rows. An empty ownerID resolves to the caller.
func RequireOwnerAccess(ctx context.Context, ownerID string) (string, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return "", err
	}

	if ownerID != "" && ownerID != claims.UID {
		return "", connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("cannot access another owner's records"))
	}

	return claims.UID, nil
}

// ErrForeignRow is wrapped when a row fetched by ID belongs to another owner.
var ErrForeignRow = errors.New("row belongs to another owner")

// CheckRowOwner returns a permission error when rowOwner is not the caller.
func CheckRowOwner(ctx context.Context, rowOwner string) error {
	if _, err := RequireOwnerAccess(ctx, rowOwner); err != nil {
		var cerr *connect.Error
		if errors.As(err, &cerr) && cerr.Code() == connect.CodePermissionDenied {
			return connect.NewError(connect.CodePermissionDenied, ErrForeignRow)
		}
		return err
	}
	return nil
}

// WrapStoreError wraps store errors with operation context
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
