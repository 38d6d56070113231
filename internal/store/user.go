package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user, assigns its ID and returns it.
	// Returns ErrEmailExists if the email is already taken; this is the
	// serialization point for concurrent registrations of one address.
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateSessions atomically replaces the user's refresh session list,
	// provided the stored version still equals user.Version. On success the
	// user's Version and UpdatedAt are advanced to the stored values.
	// Returns ErrConcurrentUpdate when another writer got there first and
	// ErrUserNotFound when the user no longer exists.
	UpdateSessions(ctx context.Context, user *domain.User) error
}
