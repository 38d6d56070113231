package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maacloud/account-api/internal/api"
	"github.com/maacloud/account-api/internal/config"
	"github.com/maacloud/account-api/internal/mail"
	"github.com/maacloud/account-api/internal/platform/memory"
	"github.com/maacloud/account-api/internal/platform/postgres"
	"github.com/maacloud/account-api/internal/service"
	"github.com/maacloud/account-api/internal/service/auth"
	"github.com/maacloud/account-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Connections; nil when the in-memory fallback is used.
	pool  *pgxpool.Pool
	redis *redis.Client

	userStore   store.UserStore
	codeStore   mail.CodeStore
	tokens      auth.TokenIssuer
	authService *service.AuthService

	registry *prometheus.Registry
	metrics  *api.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
// Without a database URL users are kept in memory, and without a Redis
// address so are verification codes.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordAlgorithm, cfg.Auth.BcryptCost)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.tokens, err = auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	logger.Info("token issuer initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	mailer := mail.NewMailer(app.codeStore, newSender(cfg.Mail, logger), logger,
		mail.WithCodeLength(cfg.Mail.CodeLength),
		mail.WithCodeTTL(time.Duration(cfg.Mail.CodeTTLMinutes)*time.Minute))

	app.authService, err = service.NewAuthService(
		app.userStore,
		hasher,
		app.tokens,
		mailer,
		cfg.Auth.MaxConcurrentSessions,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = api.NewMetrics(app.registry)

	logger.Info("application initialized",
		"max_concurrent_sessions", cfg.Auth.MaxConcurrentSessions,
		"password_algorithm", cfg.Auth.PasswordAlgorithm)
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	if app.config.Database.URL != "" {
		pool, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.pool = pool
		app.userStore = postgres.NewPostgresUserStore(pool, app.logger)
	} else {
		app.logger.Warn("no database configured, users are kept in memory")
		app.userStore = memory.NewUserStore(app.logger)
	}

	if app.config.Redis.Addr != "" {
		client, err := mail.NewRedisClient(ctx, app.config.Redis.Addr, app.config.Redis.Password, app.config.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = client
		app.codeStore = mail.NewRedisCodeStore(client)
	} else {
		app.logger.Warn("no redis configured, verification codes are kept in memory")
		app.codeStore = mail.NewMemoryCodeStore()
	}
	return nil
}

func newSender(cfg config.MailConfig, logger *slog.Logger) mail.Sender {
	if cfg.Driver == "smtp" {
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.Username,
			Password: cfg.Password,
			From:     cfg.From,
		})
	}
	return mail.NewLogSender(logger)
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes connections opened by newApplication. It is safe to call
// on a partially initialized application.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
		app.redis = nil
	}
	if app.pool != nil {
		app.pool.Close()
		app.pool = nil
	}
	app.logger.Info("application shutdown completed")
}
