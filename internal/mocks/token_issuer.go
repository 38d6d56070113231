package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer for testing.
type MockTokenIssuer struct {
	IssueAccessTokenFn     func(ctx context.Context, subject uuid.UUID, expiresAt *time.Time, authorities []string) (*auth.Token, error)
	IssueRefreshTokenFn    func(ctx context.Context, subject uuid.UUID, sessionID string) (*auth.Token, error)
	ValidateAccessTokenFn  func(ctx context.Context, tokenString string) (*auth.Claims, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       *auth.Token
	Claims      *auth.Claims
	Err         error
	ValidateErr error
}

var _ auth.TokenIssuer = (*MockTokenIssuer)(nil)

// IssueAccessToken implements auth.TokenIssuer.
func (m *MockTokenIssuer) IssueAccessToken(
	ctx context.Context,
	subject uuid.UUID,
	expiresAt *time.Time,
	authorities []string,
) (*auth.Token, error) {
	if m.IssueAccessTokenFn != nil {
		return m.IssueAccessTokenFn(ctx, subject, expiresAt, authorities)
	}
	return m.Token, m.Err
}

// IssueRefreshToken implements auth.TokenIssuer.
func (m *MockTokenIssuer) IssueRefreshToken(
	ctx context.Context,
	subject uuid.UUID,
	sessionID string,
) (*auth.Token, error) {
	if m.IssueRefreshTokenFn != nil {
		return m.IssueRefreshTokenFn(ctx, subject, sessionID)
	}
	return m.Token, m.Err
}

// ValidateAccessToken implements auth.TokenIssuer.
func (m *MockTokenIssuer) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateAccessTokenFn != nil {
		return m.ValidateAccessTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// ValidateRefreshToken implements auth.TokenIssuer.
func (m *MockTokenIssuer) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
