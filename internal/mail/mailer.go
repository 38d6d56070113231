package mail

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/platform/logger"
)

// Default code parameters.
const (
	DefaultCodeLength = 6
	DefaultCodeTTL    = 10 * time.Minute
)

// CodeStore holds outstanding verification codes keyed by email address.
type CodeStore interface {
	// Put stores code for email, replacing any previous code.
	Put(ctx context.Context, email, code string, ttl time.Duration) error

	// Consume reports whether code matches the live code for email and, on a
	// match, deletes it in the same step. A mismatch leaves the code in place.
	Consume(ctx context.Context, email, code string) (bool, error)

	// Delete removes any code stored for email.
	Delete(ctx context.Context, email string) error
}

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer sends verification codes and redeems them.
type Mailer struct {
	codes      CodeStore
	sender     Sender
	codeLength int
	ttl        time.Duration
	logger     *slog.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithCodeLength sets the number of digits in generated codes.
func WithCodeLength(n int) Option {
	return func(m *Mailer) {
		if n > 0 {
			m.codeLength = n
		}
	}
}

// WithCodeTTL sets how long a code stays redeemable.
func WithCodeTTL(ttl time.Duration) Option {
	return func(m *Mailer) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewMailer creates a Mailer. It panics if codes or sender is nil.
func NewMailer(codes CodeStore, sender Sender, logger *slog.Logger, opts ...Option) *Mailer {
	if codes == nil {
		panic("codes cannot be nil")
	}
	if sender == nil {
		panic("sender cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mailer{
		codes:      codes,
		sender:     sender,
		codeLength: DefaultCodeLength,
		ttl:        DefaultCodeTTL,
		logger:     logger.With(slog.String("component", "mailer")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send generates a fresh code for email, stores it and delivers it. If
// delivery fails the stored code is removed again and ErrDelivery is
// returned.
func (m *Mailer) Send(ctx context.Context, email string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)
	email = domain.NormalizeEmail(email)

	code, err := GenerateCode(m.codeLength)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := m.codes.Put(ctx, email, code, m.ttl); err != nil {
		log.Error("failed to store verification code", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrCodeStore, err)
	}

	msg := Message{
		To:      email,
		Subject: "Your verification code",
		Body: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
			code, int(m.ttl.Minutes())),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		log.Error("failed to deliver verification code", slog.String("error", err.Error()))
		if delErr := m.codes.Delete(ctx, email); delErr != nil {
			log.Warn("failed to remove undelivered verification code",
				slog.String("error", delErr.Error()))
		}
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	log.Info("verification code sent")
	return nil
}

// Redeem reports whether code is the live code for email, consuming it on
// success. Store failures are returned wrapped in ErrCodeStore.
func (m *Mailer) Redeem(ctx context.Context, email, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	ok, err := m.codes.Consume(ctx, domain.NormalizeEmail(email), code)
	if err != nil {
		logger.FromContextOrDefault(ctx, m.logger).Error("failed to redeem verification code",
			slog.String("error", err.Error()))
		return false, fmt.Errorf("%w: %w", ErrCodeStore, err)
	}
	return ok, nil
}

// GenerateCode returns a uniformly random string of n decimal digits.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	digits := v.Text(10)
	return strings.Repeat("0", n-len(digits)) + digits, nil
}
