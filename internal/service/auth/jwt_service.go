package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token is a signed credential together with its validity window.
type Token struct {
	Value     string    `json:"token"`
	NotBefore time.Time `json:"notBefore"`
	ExpiresAt time.Time `json:"expiresAt"`

	// SessionID is set only on refresh tokens.
	SessionID string `json:"-"`
}

// TokenIssuer defines operations for minting and validating JWT tokens.
type TokenIssuer interface {
	// IssueAccessToken creates a signed access token for subject carrying the
	// given authorities. A nil expiresAt applies the configured lifetime.
	// Access tokens never carry a session id.
	IssueAccessToken(ctx context.Context, subject uuid.UUID, expiresAt *time.Time, authorities []string) (*Token, error)

	// IssueRefreshToken creates a signed refresh token bound to sessionID.
	// The token stays redeemable only while sessionID is registered on the user.
	IssueRefreshToken(ctx context.Context, subject uuid.UUID, sessionID string) (*Token, error)

	// ValidateAccessToken verifies signature, validity window and token type.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies signature, validity window and token type.
	// It does not check whether the session is still registered.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of a token.
type Claims struct {
	UserID      uuid.UUID `json:"uid,omitempty"`
	TokenType   string    `json:"type,omitempty"`
	Authorities []string  `json:"authorities,omitempty"`
	SessionID   string    `json:"sid,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	NotBefore time.Time `json:"nbf,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
