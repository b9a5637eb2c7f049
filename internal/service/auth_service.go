package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HEGATNB/kyrsach-basketball/internal/auth"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// AuthResult is the payload returned on successful registration or login.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// AuthService handles accounts and session tokens.
type AuthService struct {
	users  domain.UserStore
	tokens *auth.TokenManager
	audit  domain.AuditStore
	logger *slog.Logger
}

// NewAuthService creates an AuthService. Audit is optional.
func NewAuthService(
	users domain.UserStore,
	tokens *auth.TokenManager,
	audit domain.AuditStore,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
		logger: logger,
	}
}

// Register creates a new account with the default role and returns a session
// token. A taken email returns domain.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return AuthResult{}, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return AuthResult{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("auth_service: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	s.auditLog(ctx, user.ID, "REGISTER", map[string]any{"email": user.Email})
	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))
	return AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a session token. Wrong email or
// password both map to domain.ErrUnauthorized so the response does not leak
// which accounts exist. Blocked accounts return domain.ErrAccountBlocked.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrUnauthorized
		}
		return AuthResult{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return AuthResult{}, domain.ErrUnauthorized
	}
	if user.IsBlocked {
		return AuthResult{}, domain.ErrAccountBlocked
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "auth_service: touch last login failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.auditLog(ctx, user.ID, "LOGIN", nil)
	return AuthResult{Token: token, User: user}, nil
}

// Me returns the account for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) auditLog(ctx context.Context, userID int64, action string, detail map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, domain.AuditEntry{
		UserID:   userID,
		Action:   action,
		Entity:   "User",
		EntityID: userID,
		Detail:   detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "auth_service: audit log failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
