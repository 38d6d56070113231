package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUserStatus is the status assigned to newly registered users.
const DefaultUserStatus = 1

// User represents a registered account.
//
// Status carries two meanings: zero disables the account, and any positive
// value also determines the authorities granted at login (see Authorities).
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Status       int       `json:"status"`

	// RefreshSessionIDs lists the sessions whose refresh tokens are still
	// redeemable, oldest first.
	RefreshSessionIDs []string `json:"-"`

	// Version is incremented by the store on every session update and is
	// used for optimistic concurrency control.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserInfo is the public projection of a User returned to clients.
type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Status   int       `json:"status"`
}

// NewUser creates an unpersisted, enabled User with an empty session list.
// The ID stays uuid.Nil until the store assigns one.
func NewUser(username, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:          strings.TrimSpace(username),
		Email:             NormalizeEmail(email),
		PasswordHash:      passwordHash,
		Status:            DefaultUserStatus,
		RefreshSessionIDs: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the fields every stored user must carry.
// The ID is not checked so that unpersisted users validate too.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	if u.Status < 0 {
		return ErrInvalidStatus
	}
	return nil
}

// IsPersisted reports whether the user has been assigned an identifier.
func (u *User) IsPersisted() bool {
	return u.ID != uuid.Nil
}

// IsEnabled reports whether the account may log in.
func (u *User) IsEnabled() bool {
	return u.Status != 0
}

// Authorities derives the claim list from Status: "0" through
// strconv.Itoa(Status-1). A disabled user has none.
func (u *User) Authorities() []string {
	if u.Status <= 0 {
		return []string{}
	}
	authorities := make([]string, 0, u.Status)
	for i := 0; i < u.Status; i++ {
		authorities = append(authorities, strconv.Itoa(i))
	}
	return authorities
}

// AddSession registers sessionID as the newest active session and evicts the
// oldest entries until at most maxSessions remain. The evicted ids are
// returned in eviction order.
func (u *User) AddSession(sessionID string, maxSessions int) []string {
	if maxSessions < 1 {
		maxSessions = 1
	}

	u.RefreshSessionIDs = append(u.RefreshSessionIDs, sessionID)

	var evicted []string
	for len(u.RefreshSessionIDs) > maxSessions {
		evicted = append(evicted, u.RefreshSessionIDs[0])
		u.RefreshSessionIDs = u.RefreshSessionIDs[1:]
	}
	return evicted
}

// HasSession reports whether sessionID is still registered.
func (u *User) HasSession(sessionID string) bool {
	for _, id := range u.RefreshSessionIDs {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Info returns the public projection of the user.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Status:   u.Status,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// that lookups and the unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat is a cheap structural check; request validation
// applies the stricter RFC 5322 rule before anything reaches the domain.
func validateEmailFormat(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
