package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/config"
	"github.com/maacloud/account-api/internal/platform/logger"
)

const minSecretLength = 32

// hmacTokenIssuer is an implementation of TokenIssuer using HMAC-SHA signing.
type hmacTokenIssuer struct {
	signingKey           []byte
	tokenLifetime        time.Duration    // Access token lifetime
	refreshTokenLifetime time.Duration    // Refresh token lifetime
	timeFunc             func() time.Time // Injectable for testing
	clockSkew            time.Duration    // Allowed time difference for validation to handle clock drift
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	UserID      uuid.UUID `json:"uid"`
	TokenType   string    `json:"type"`
	Authorities []string  `json:"authorities,omitempty"`
	SessionID   string    `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenIssuer implements TokenIssuer interface
var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer creates a new token issuer using HMAC-SHA256 signing.
func NewTokenIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	return newHMACTokenIssuer(cfg, time.Now)
}

func newHMACTokenIssuer(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacTokenIssuer, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if cfg.TokenLifetimeMinutes <= 0 || cfg.RefreshTokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return &hmacTokenIssuer{
		signingKey:           []byte(cfg.JWTSecret),
		tokenLifetime:        time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		timeFunc:             timeFunc,
		clockSkew:            2 * time.Minute,
	}, nil
}

// IssueAccessToken implements TokenIssuer.
func (s *hmacTokenIssuer) IssueAccessToken(
	ctx context.Context,
	subject uuid.UUID,
	expiresAt *time.Time,
	authorities []string,
) (*Token, error) {
	now := s.timeFunc()
	expiry := now.Add(s.tokenLifetime)
	if expiresAt != nil {
		expiry = *expiresAt
	}
	if authorities == nil {
		authorities = []string{}
	}

	claims := jwtCustomClaims{
		UserID:           subject,
		TokenType:        TokenTypeAccess,
		Authorities:      authorities,
		RegisteredClaims: s.registeredClaims(subject, now, expiry),
	}
	return s.sign(ctx, claims)
}

// IssueRefreshToken implements TokenIssuer.
func (s *hmacTokenIssuer) IssueRefreshToken(
	ctx context.Context,
	subject uuid.UUID,
	sessionID string,
) (*Token, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("refresh token requires a session id")
	}
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID:           subject,
		TokenType:        TokenTypeRefresh,
		SessionID:        sessionID,
		RegisteredClaims: s.registeredClaims(subject, now, now.Add(s.refreshTokenLifetime)),
	}
	return s.sign(ctx, claims)
}

// ValidateAccessToken implements TokenIssuer.
func (s *hmacTokenIssuer) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, TokenTypeAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// ValidateRefreshToken implements TokenIssuer.
func (s *hmacTokenIssuer) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, TokenTypeRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredRefreshToken
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidRefreshToken
		}
	}
	if claims.SessionID == "" {
		logger.FromContext(ctx).Debug("refresh token validation failed: missing session id")
		return nil, ErrInvalidRefreshToken
	}
	return claims, nil
}

func (s *hmacTokenIssuer) registeredClaims(subject uuid.UUID, now, expiry time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        uuid.New().String(), // Unique token ID
	}
}

func (s *hmacTokenIssuer) sign(ctx context.Context, claims jwtCustomClaims) (*Token, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign JWT",
			"error", err,
			"user_id", claims.UserID,
			"token_type", claims.TokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return nil, fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", claims.TokenType, err)
	}

	return &Token{
		Value:     signedToken,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		SessionID: claims.SessionID,
	}, nil
}

// parse verifies the signature and time claims, then checks the token type.
// Errors from the jwt library are returned unchanged for the caller to map.
func (s *hmacTokenIssuer) parse(ctx context.Context, tokenString, wantType string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		log.Debug("token validation failed",
			"error", err,
			"token_type", wantType,
			"error_type", fmt.Sprintf("%T", err))
		return nil, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims", "token_type", wantType)
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	result := &Claims{
		UserID:      claims.UserID,
		TokenType:   claims.TokenType,
		Authorities: claims.Authorities,
		SessionID:   claims.SessionID,
		ID:          claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.NotBefore != nil {
		result.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	log.Debug("token validated successfully",
		"user_id", claims.UserID,
		"token_id", claims.ID,
		"token_type", wantType)
	return result, nil
}
