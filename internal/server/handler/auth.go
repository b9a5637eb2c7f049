package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
	"github.com/HEGATNB/kyrsach-basketball/internal/service"
)

// AuthService is the slice of the auth service this handler needs.
type AuthService interface {
	Register(ctx context.Context, email, name, password string) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	Me(ctx context.Context, userID int64) (domain.User, error)
}

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates an account and returns a session token.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me returns the calling user's account.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication token")
		return
	}

	user, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
