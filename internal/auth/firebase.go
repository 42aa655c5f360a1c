package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenVerifier turns a bearer token into user claims plus the raw token
// claims map.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*UserClaims, map[string]interface{}, error)
}

// FirebaseAuth handles Firebase authentication
type FirebaseAuth struct {
	client *auth.Client
}

// UserClaims represents the authenticated user information. UID doubles as
// the owner ID of every row the user touches.
type UserClaims struct {
	UID         string
	Email       string
	DisplayName string
	Verified    bool
}

// NewFirebaseAuth creates a new FirebaseAuth instance. An empty credentialsFile
// falls back to application default credentials.
func NewFirebaseAuth(ctx context.Context, projectID, credentialsFile string) (*FirebaseAuth, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Auth client: %w", err)
	}

	return &FirebaseAuth{client: client}, nil
}

// VerifyToken verifies a Firebase ID token and returns user claims plus the raw token claims map.
func (f *FirebaseAuth) VerifyToken(ctx context.Context, idToken string) (*UserClaims, map[string]interface{}, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}
	return claimsFromToken(token.UID, token.Claims), token.Claims, nil
}

func claimsFromToken(uid string, raw map[string]interface{}) *UserClaims {
	verified, _ := raw["email_verified"].(bool)
	claims := &UserClaims{UID: uid, Verified: verified}
	if email, ok := raw["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := raw["name"].(string); ok {
		claims.DisplayName = name
	}
	return claims
}

// ExtractTokenFromHeader extracts the Bearer token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("authorization header must be Bearer token")
	}

	return parts[1], nil
}
