package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maacloud/account-api/internal/config"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/mail"
	"github.com/maacloud/account-api/internal/platform/memory"
	"github.com/maacloud/account-api/internal/service/auth"
	"github.com/maacloud/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// inboxSender records delivered messages so tests can read the codes.
type inboxSender struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (s *inboxSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

var inboxCode = regexp.MustCompile(`\b(\d{6})\b`)

func (s *inboxSender) lastCode(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	match := inboxCode.FindStringSubmatch(s.messages[len(s.messages)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

type flowFixture struct {
	svc    *AuthService
	users  *memory.UserStore
	codes  *mail.MemoryCodeStore
	inbox  *inboxSender
	tokens auth.TokenIssuer
}

func newFlowFixture(t *testing.T, maxSessions int) flowFixture {
	t.Helper()
	users := memory.NewUserStore(nil)
	inbox := &inboxSender{}
	codes := mail.NewMemoryCodeStore()
	mailer := mail.NewMailer(codes, inbox, nil)
	tokens, err := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret:                   "flow-test-secret-that-is-at-least-32-chars",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	svc, err := NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost), tokens, mailer, maxSessions, nil)
	require.NoError(t, err)
	return flowFixture{svc: svc, users: users, codes: codes, inbox: inbox, tokens: tokens}
}

func (f flowFixture) register(t *testing.T, email, password string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.SendVerificationCode(ctx, SendVerificationCodeRequest{Email: email}))
	_, err := f.svc.Register(ctx, RegisterRequest{
		Username:          "alice",
		Email:             email,
		Password:          password,
		RegistrationToken: f.inbox.lastCode(t),
	})
	require.NoError(t, err)
}

func TestFlow_SessionBoundKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t, 2)
	f.register(t, "a@x.com", "secret-password")

	var sessions []string
	var refreshTokens []string
	for i := 0; i < 3; i++ {
		resp, err := f.svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "secret-password"})
		require.NoError(t, err)
		claims, err := f.tokens.ValidateRefreshToken(ctx, resp.RefreshToken)
		require.NoError(t, err)
		sessions = append(sessions, claims.SessionID)
		refreshTokens = append(refreshTokens, resp.RefreshToken)

		access, err := f.tokens.ValidateAccessToken(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"0"}, access.Authorities)
		assert.Empty(t, access.SessionID)
	}

	user, err := f.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, sessions[1:], user.RefreshSessionIDs)

	_, err = f.svc.Refresh(ctx, RefreshRequest{RefreshToken: refreshTokens[0]})
	assert.ErrorIs(t, err, ErrSessionRevoked)

	resp, err := f.svc.Refresh(ctx, RefreshRequest{RefreshToken: refreshTokens[2]})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestFlow_SecondRegisterForSameEmailFails(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t, 1)
	f.register(t, "a@x.com", "secret-password")

	err := f.svc.SendVerificationCode(ctx, SendVerificationCodeRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	// A code issued before the first registration completed still redeems,
	// so uniqueness has to come from the store.
	require.NoError(t, f.codes.Put(ctx, "a@x.com", "999999", time.Minute))
	info, err := f.svc.Register(ctx, RegisterRequest{
		Username: "mallory", Email: "a@x.com", Password: "other-password", RegistrationToken: "999999",
	})
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	user, err := f.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestFlow_RegisterWithUnissuedCode(t *testing.T) {
	f := newFlowFixture(t, 1)
	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "secret-password", RegistrationToken: "000000",
	})
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestFlow_LoginMissingUser(t *testing.T) {
	f := newFlowFixture(t, 1)
	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "missing@x.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestFlow_AccessTokenAuthoritiesFollowStatus(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t, 1)

	hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Encode("secret-password")
	require.NoError(t, err)
	user, err := domain.NewUser("root", "root@x.com", hash)
	require.NoError(t, err)
	user.Status = 3
	_, err = f.users.Create(ctx, user)
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, LoginRequest{Email: "root@x.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UserInfo.Status)

	claims, err := f.tokens.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, claims.Authorities)

	refreshed, err := f.svc.Refresh(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	claims, err = f.tokens.ValidateAccessToken(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, claims.Authorities)
}

func TestFlow_MultiByteOverlongPasswordKeepsCode(t *testing.T) {
	ctx := context.Background()
	f := newFlowFixture(t, 1)
	require.NoError(t, f.svc.SendVerificationCode(ctx, SendVerificationCodeRequest{Email: "a@x.com"}))
	code := f.inbox.lastCode(t)

	_, err := f.svc.Register(ctx, RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: strings.Repeat("é", 40), RegistrationToken: code,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Register(ctx, RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "secret-password", RegistrationToken: code,
	})
	assert.NoError(t, err)
}
