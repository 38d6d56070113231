package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/platform/logger"
	"github.com/maacloud/account-api/internal/store"
)

// UserStore is a mutex-guarded store.UserStore. Users are copied on the way
// in and out so callers never share state with the map.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
	logger  *slog.Logger
	nowFunc func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore returns an empty UserStore.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
		logger:  logger.With(slog.String("component", "memory_user_store")),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	if err := user.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return uuid.Nil, store.ErrEmailExists
	}

	id := uuid.New()
	stored := clone(user)
	stored.ID = id
	if stored.RefreshSessionIDs == nil {
		stored.RefreshSessionIDs = []string{}
	}
	s.byID[id] = stored
	s.byEmail[stored.Email] = id

	user.ID = id
	logger.FromContextOrDefault(ctx, s.logger).Info("user created", slog.String("user_id", id.String()))
	return id, nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return clone(user), nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

// UpdateSessions implements store.UserStore.UpdateSessions with the same
// version check as the database store.
func (s *UserStore) UpdateSessions(ctx context.Context, user *domain.User) error {
	if !user.IsPersisted() {
		return fmt.Errorf("%w: user has no id", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if stored.Version != user.Version {
		logger.FromContextOrDefault(ctx, s.logger).Warn("session update lost a concurrent write",
			slog.String("user_id", user.ID.String()),
			slog.Int64("version", user.Version))
		return store.ErrConcurrentUpdate
	}

	now := s.nowFunc()
	stored.RefreshSessionIDs = append([]string{}, user.RefreshSessionIDs...)
	stored.Version++
	stored.UpdatedAt = now

	user.Version = stored.Version
	user.UpdatedAt = now
	return nil
}

func clone(u *domain.User) *domain.User {
	c := *u
	if u.RefreshSessionIDs != nil {
		c.RefreshSessionIDs = append([]string{}, u.RefreshSessionIDs...)
	}
	return &c
}
