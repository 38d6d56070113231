package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Without function
// fields it answers from Users, keyed by email. It is not safe for
// concurrent use.
type MockUserStore struct {
	CreateFn         func(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	UpdateSessionsFn func(ctx context.Context, user *domain.User) error

	// Data for default implementation
	Users               map[string]*domain.User
	CreateError         error
	GetByEmailError     error
	UpdateSessionsError error
	UpdateSessionsCalls int
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.User)}
	for _, u := range users {
		m.Users[u.Email] = u
	}
	return m
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return uuid.Nil, m.CreateError
	}
	if _, exists := m.Users[user.Email]; exists {
		return uuid.Nil, store.ErrEmailExists
	}

	user.ID = uuid.New()
	m.Users[user.Email] = user
	return user.ID, nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}
	u, ok := m.Users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// UpdateSessions implements store.UserStore. The default implementation
// records the call and bumps Version.
func (m *MockUserStore) UpdateSessions(ctx context.Context, user *domain.User) error {
	m.UpdateSessionsCalls++
	if m.UpdateSessionsFn != nil {
		return m.UpdateSessionsFn(ctx, user)
	}
	if m.UpdateSessionsError != nil {
		return m.UpdateSessionsError
	}
	user.Version++
	return nil
}
