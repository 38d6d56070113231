package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/maacloud/account-api/internal/api/shared"
	"github.com/maacloud/account-api/internal/domain"
	"github.com/maacloud/account-api/internal/service"
)

// Operation names used in metrics and logs.
const (
	opLogin            = "login"
	opRegister         = "register"
	opVerificationCode = "verification_code"
	opRefresh          = "refresh"
)

// AuthService is the subset of service.AuthService the handlers call.
type AuthService interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	Register(ctx context.Context, req service.RegisterRequest) (*domain.UserInfo, error)
	SendVerificationCode(ctx context.Context, req service.SendVerificationCodeRequest) error
	Refresh(ctx context.Context, req service.RefreshRequest) (*service.RefreshResponse, error)
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	UserID      uuid.UUID `json:"userId"`
	Authorities []string  `json:"authorities"`
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	auth    AuthService
	metrics *Metrics
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(authService AuthService, metrics *Metrics) *AuthHandler {
	return &AuthHandler{
		auth:    authService,
		metrics: metrics,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.metrics.Observe(opLogin, fmt.Errorf("%w: %w", service.ErrValidation, err), time.Since(start))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	h.metrics.Observe(opLogin, err, time.Since(start))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.metrics.Observe(opRegister, fmt.Errorf("%w: %w", service.ErrValidation, err), time.Since(start))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	info, err := h.auth.Register(r.Context(), req)
	h.metrics.Observe(opRegister, err, time.Since(start))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, info)
}

// SendVerificationCode handles POST /api/auth/verification-code.
func (h *AuthHandler) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.SendVerificationCodeRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.metrics.Observe(opVerificationCode, fmt.Errorf("%w: %w", service.ErrValidation, err), time.Since(start))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	err := h.auth.SendVerificationCode(r.Context(), req)
	h.metrics.Observe(opVerificationCode, err, time.Since(start))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.RefreshRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.metrics.Observe(opRefresh, fmt.Errorf("%w: %w", service.ErrValidation, err), time.Since(start))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := h.auth.Refresh(r.Context(), req)
	h.metrics.Observe(opRefresh, err, time.Since(start))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Me handles GET /api/me. It must run behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	authorities := shared.GetAuthorities(r.Context())
	if authorities == nil {
		authorities = []string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		UserID:      userID,
		Authorities: authorities,
	})
}
