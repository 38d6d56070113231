package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(" alice ", " Alice@Example.COM ", "hash")
		require.NoError(t, err)

		assert.Equal(t, uuid.Nil, user.ID, "new users are not persisted yet")
		assert.False(t, user.IsPersisted())
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.Equal(t, DefaultUserStatus, user.Status)
		assert.NotNil(t, user.RefreshSessionIDs)
		assert.Empty(t, user.RefreshSessionIDs)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			username string
			email    string
			hash     string
			wantErr  error
		}{
			{"empty username", "", "a@x.com", "hash", ErrEmptyUsername},
			{"empty email", "alice", "", "hash", ErrEmptyEmail},
			{"email without at", "alice", "ax.com", "hash", ErrInvalidEmail},
			{"email without domain dot", "alice", "a@x", "hash", ErrInvalidEmail},
			{"empty hash", "alice", "a@x.com", "", ErrEmptyPasswordHash},
		}

		for _, tc := range tests {
			_, err := NewUser(tc.username, tc.email, tc.hash)
			assert.ErrorIs(t, err, tc.wantErr, tc.name)
		}
	})
}

func TestUser_Validate_NegativeStatus(t *testing.T) {
	t.Parallel()

	user := &User{Username: "bob", Email: "bob@x.com", PasswordHash: "h", Status: -1}
	assert.ErrorIs(t, user.Validate(), ErrInvalidStatus)
}

func TestUser_IsEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, (&User{Status: 0}).IsEnabled())
	assert.True(t, (&User{Status: 1}).IsEnabled())
	assert.True(t, (&User{Status: 3}).IsEnabled())
}

func TestUser_Authorities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   []string
	}{
		{0, []string{}},
		{1, []string{"0"}},
		{3, []string{"0", "1", "2"}},
		{11, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
	}

	for _, tc := range tests {
		user := &User{Status: tc.status}
		assert.Equal(t, tc.want, user.Authorities(), "status %d", tc.status)
	}
}

func TestUser_AddSession(t *testing.T) {
	t.Parallel()

	t.Run("keeps most recent sessions in insertion order", func(t *testing.T) {
		t.Parallel()

		user := &User{RefreshSessionIDs: []string{}}

		assert.Empty(t, user.AddSession("s1", 2))
		assert.Empty(t, user.AddSession("s2", 2))
		assert.Equal(t, []string{"s1"}, user.AddSession("s3", 2))
		assert.Equal(t, []string{"s2", "s3"}, user.RefreshSessionIDs)

		assert.Equal(t, []string{"s2"}, user.AddSession("s4", 2))
		assert.Equal(t, []string{"s3", "s4"}, user.RefreshSessionIDs)
	})

	t.Run("shrinks an oversized list to the bound", func(t *testing.T) {
		t.Parallel()

		user := &User{RefreshSessionIDs: []string{"a", "b", "c"}}

		evicted := user.AddSession("d", 1)
		assert.Equal(t, []string{"a", "b", "c"}, evicted)
		assert.Equal(t, []string{"d"}, user.RefreshSessionIDs)
	})

	t.Run("non-positive bound is treated as one", func(t *testing.T) {
		t.Parallel()

		user := &User{}
		user.AddSession("a", 0)
		user.AddSession("b", -5)
		assert.Equal(t, []string{"b"}, user.RefreshSessionIDs)
	})
}

func TestUser_HasSession(t *testing.T) {
	t.Parallel()

	user := &User{RefreshSessionIDs: []string{"a", "b"}}
	assert.True(t, user.HasSession("a"))
	assert.True(t, user.HasSession("b"))
	assert.False(t, user.HasSession("c"))
	assert.False(t, user.HasSession(""))
}

func TestUser_Info(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	user := &User{
		ID:                id,
		Username:          "carol",
		Email:             "carol@x.com",
		PasswordHash:      "secret-hash",
		Status:            2,
		RefreshSessionIDs: []string{"s"},
	}

	assert.Equal(t, UserInfo{ID: id, Username: "carol", Email: "carol@x.com", Status: 2}, user.Info())
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com\t"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
