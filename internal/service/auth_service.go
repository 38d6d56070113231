package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/platform/logger"
	"github.com/maacloud/account-api/internal/service/auth"
	"github.com/maacloud/account-api/internal/store"
)

// VerificationMailer sends one-time codes and redeems them.
type VerificationMailer interface {
	// Send delivers a fresh code to email.
	Send(ctx context.Context, email string) error

	// Redeem reports whether code is the live code for email and consumes it
	// on success.
	Redeem(ctx context.Context, email, code string) (bool, error)
}

// AuthService implements login, registration, verification-code dispatch
// and access-token refresh. It holds no per-user state; the session list
// lives on the stored user.
type AuthService struct {
	users       store.UserStore
	hasher      auth.PasswordHasher
	tokens      auth.TokenIssuer
	mailer      VerificationMailer
	maxSessions int
	validate    *validator.Validate
	logger      *slog.Logger

	newSessionID func() string

	dummyHashOnce sync.Once
	dummyHash     string
}

// dummyPassword is hashed once per service so that logins for unknown
// emails still pay for a full Verify with the configured hasher.
const dummyPassword = "unknown-account-placeholder" //nolint:gosec // not a credential

// NewAuthService creates an AuthService. maxSessions bounds the refresh
// sessions kept per user and must be at least 1.
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
	mailer VerificationMailer,
	maxSessions int,
	logger *slog.Logger,
) (*AuthService, error) {
	if users == nil || hasher == nil || tokens == nil || mailer == nil {
		return nil, errors.New("auth service requires a user store, hasher, token issuer and mailer")
	}
	if maxSessions < 1 {
		return nil, fmt.Errorf("max concurrent sessions must be at least 1, got %d", maxSessions)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		maxSessions:  maxSessions,
		validate:     newValidator(),
		logger:       logger.With("component", "auth_service"),
		newSessionID: uuid.NewString,
	}, nil
}

// newValidator returns a validator with the maxbytes tag registered.
// The built-in max tag counts runes, and bcrypt limits bytes.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// validateRequest is the guard stage run before any collaborator is called.
func (s *AuthService) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Login authenticates email and password, registers a new refresh session
// (evicting the oldest beyond the configured bound) and returns an access
// and a refresh token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login attempt for unknown email")
			_, _ = s.hasher.Verify(req.Password, s.unknownUserHash())
			return nil, ErrLoginFailed
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if !user.IsPersisted() {
		log.Error("stored user has no identifier")
		return nil, ErrInvariantViolation
	}

	// A disabled account is reported as such whatever the password.
	if !user.IsEnabled() {
		log.Info("login attempt for disabled account", "user_id", user.ID)
		return nil, ErrAccountDisabled
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		log.Error("stored password hash could not be verified",
			"error", err,
			"user_id", user.ID)
		return nil, ErrLoginFailed
	}
	if !match {
		log.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrLoginFailed
	}

	sessionID := s.newSessionID()
	evicted := user.AddSession(sessionID, s.maxSessions)
	authorities := user.Authorities()

	access, err := s.tokens.IssueAccessToken(ctx, user.ID, nil, authorities)
	if err != nil {
		log.Error("failed to issue access token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}
	refresh, err := s.tokens.IssueRefreshToken(ctx, user.ID, sessionID)
	if err != nil {
		log.Error("failed to issue refresh token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	if err := s.users.UpdateSessions(ctx, user); err != nil {
		log.Error("failed to persist session list", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Info("user logged in",
		"user_id", user.ID,
		"active_sessions", len(user.RefreshSessionIDs),
		"evicted_sessions", len(evicted))

	return &LoginResponse{
		AccessToken:      access.Value,
		AccessNotBefore:  access.NotBefore,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Value,
		RefreshNotBefore: refresh.NotBefore,
		RefreshExpiresAt: refresh.ExpiresAt,
		UserInfo:         user.Info(),
	}, nil
}

// Register redeems the emailed code, then creates an enabled user with no
// sessions.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.UserInfo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)

	ok, err := s.mailer.Redeem(ctx, email, req.RegistrationToken)
	if err != nil {
		log.Error("failed to redeem registration code", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !ok {
		log.Debug("registration attempted with invalid code")
		return nil, ErrVerificationFailed
	}

	hash, err := s.hasher.Encode(req.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPasswordHashing, err)
	}

	user, err := domain.NewUser(req.Username, email, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration for an email that already exists")
		} else {
			log.Error("failed to create user", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Info("user registered", "user_id", user.ID)
	info := user.Info()
	return &info, nil
}

// SendVerificationCode emails a registration code to an address that has no
// account yet.
func (s *AuthService) SendVerificationCode(ctx context.Context, req SendVerificationCodeRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validateRequest(req); err != nil {
		return err
	}
	email := domain.NormalizeEmail(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailAlreadyRegistered
	case !store.IsNotFoundError(err):
		log.Error("failed to look up email before sending code", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		log.Error("failed to send verification code", "error", err)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

// unknownUserHash returns a hash of dummyPassword in the configured format.
// If encoding fails the empty string is returned; Verify then errors out
// early, which is still reported as ErrLoginFailed.
func (s *AuthService) unknownUserHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Encode(dummyPassword)
		if err != nil {
			s.logger.Error("failed to prepare placeholder password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Refresh exchanges a refresh token for a new access token. The token's
// session must still be registered on the user: sessions evicted by later
// logins are rejected even though their signature is valid. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
		}
		log.Error("failed to load user for refresh", "error", err, "user_id", claims.UserID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if !user.HasSession(claims.SessionID) {
		log.Info("refresh attempted with evicted session", "user_id", user.ID)
		return nil, ErrSessionRevoked
	}
	if !user.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	access, err := s.tokens.IssueAccessToken(ctx, user.ID, nil, user.Authorities())
	if err != nil {
		log.Error("failed to issue access token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	return &RefreshResponse{
		AccessToken:     access.Value,
		AccessNotBefore: access.NotBefore,
		AccessExpiresAt: access.ExpiresAt,
	}, nil
}
