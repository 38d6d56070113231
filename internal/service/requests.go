package service

import (
	"time"

	"github.com/maacloud/account-api/internal/domain"
)

// LoginRequest holds the credentials for Login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries both tokens with their validity windows.
type LoginResponse struct {
	AccessToken      string          `json:"accessToken"`
	AccessNotBefore  time.Time       `json:"accessNotBefore"`
	AccessExpiresAt  time.Time       `json:"accessExpiresAt"`
	RefreshToken     string          `json:"refreshToken"`
	RefreshNotBefore time.Time       `json:"refreshNotBefore"`
	RefreshExpiresAt time.Time       `json:"refreshExpiresAt"`
	UserInfo         domain.UserInfo `json:"userInfo"`
}

// RegisterRequest holds the data for Register. Password is capped at 72
// bytes (not characters), the most bcrypt will consider.
type RegisterRequest struct {
	Username          string `json:"username"          validate:"required,min=1,max=64"`
	Email             string `json:"email"             validate:"required,email"`
	Password          string `json:"password"          validate:"required,min=8,maxbytes=72"`
	RegistrationToken string `json:"registrationToken" validate:"required"`
}

// SendVerificationCodeRequest names the address to send a code to.
type SendVerificationCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RefreshRequest carries a refresh token to redeem.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse carries a newly issued access token.
type RefreshResponse struct {
	AccessToken     string    `json:"accessToken"`
	AccessNotBefore time.Time `json:"accessNotBefore"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}
