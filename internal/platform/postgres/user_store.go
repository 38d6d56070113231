package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/platform/logger"
	"github.com/maacloud/account-api/internal/store"
)

// Pool is the subset of *pgxpool.Pool used by the stores. pgxmock pools
// satisfy it as well.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, password_hash, status,
	refresh_session_ids, version, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	pool    Pool
	logger  *slog.Logger
	newID   func() uuid.UUID
	nowFunc func() time.Time
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(pool Pool, logger *slog.Logger) *PostgresUserStore {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		pool:    pool,
		logger:  logger.With(slog.String("component", "user_store")),
		newID:   uuid.New,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
// The ID is generated here; user.ID is only set once the insert succeeds.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	id := s.newID()
	sessions := user.RefreshSessionIDs
	if sessions == nil {
		sessions = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Status,
		sessions,
		user.Version,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to create user with existing email")
			return uuid.Nil, MapUniqueViolation(err, store.ErrEmailExists)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return uuid.Nil, store.NewStoreError("user", "create", "failed to insert user", MapError(err))
	}

	user.ID = id
	user.RefreshSessionIDs = sessions
	log.Info("user created", slog.String("user_id", id.String()))
	return id, nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user by id",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, store.NewStoreError("user", "get", "failed to query user by id", MapError(err))
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user by email",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "failed to query user by email", MapError(err))
	}
	return user, nil
}

// UpdateSessions implements store.UserStore.UpdateSessions as a single
// compare-and-swap on the version column.
func (s *PostgresUserStore) UpdateSessions(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !user.IsPersisted() {
		return fmt.Errorf("%w: user has no id", store.ErrInvalidEntity)
	}

	sessions := user.RefreshSessionIDs
	if sessions == nil {
		sessions = []string{}
	}
	now := s.nowFunc()

	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET refresh_session_ids = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4
	`, user.ID, sessions, now, user.Version)
	if err != nil {
		log.Error("failed to update user sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update", "failed to update sessions", MapError(err))
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, user.ID).Scan(&exists)
		if err != nil {
			return store.NewStoreError("user", "update", "failed to check user existence", MapError(err))
		}
		if !exists {
			return store.ErrUserNotFound
		}
		log.Warn("session update lost a concurrent write",
			slog.String("user_id", user.ID.String()),
			slog.Int64("version", user.Version))
		return store.ErrConcurrentUpdate
	}

	user.Version++
	user.UpdatedAt = now
	log.Debug("user sessions updated",
		slog.String("user_id", user.ID.String()),
		slog.Int("session_count", len(sessions)))
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.RefreshSessionIDs,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.RefreshSessionIDs == nil {
		user.RefreshSessionIDs = []string{}
	}
	return &user, nil
}
