package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// VerificationSender delivers account-verification and password-reset
// tokens over email.
type VerificationSender interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// AuthService implements registration, login and the one-time token
// flows.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.AuthTokenRepository

	tokenManager *auth.TokenManager
	sender       VerificationSender
	logger       *zap.Logger
	cfg          config.AuthConfig

	now func() time.Time
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens repository.AuthTokenRepository, tokenManager *auth.TokenManager, sender VerificationSender, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:        users,
		tokens:       tokens,
		tokenManager: tokenManager,
		sender:       sender,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult carries the issued access token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates an account with the USER role and sends a
// verification token. Token delivery is best-effort.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("name, email and a password of at least 8 characters are required", nil)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceFailure("user insert", err)
	}

	s.issueToken(ctx, user, repository.PurposeEmailVerification)
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewForbidden("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RequestVerification re-sends an email-verification token. Unknown
// emails return success so the endpoint cannot be used for enumeration.
func (s *AuthService) RequestVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if user.EmailVerified {
		return nil
	}
	s.issueToken(ctx, user, repository.PurposeEmailVerification)
	return nil
}

// ConfirmVerification marks the account verified if the token is live.
func (s *AuthService) ConfirmVerification(ctx context.Context, tokenStr string) error {
	token, user, err := s.consumeToken(ctx, repository.PurposeEmailVerification, tokenStr)
	if err != nil {
		return err
	}

	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewPersistenceFailure("user update", err)
	}
	return s.retireToken(ctx, token)
}

// RequestPasswordReset sends a reset token. Unknown emails return
// success, same as verification.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	s.issueToken(ctx, user, repository.PurposePasswordReset)
	return nil
}

// ConfirmPasswordReset replaces the password if the token is live.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	token, user, err := s.consumeToken(ctx, repository.PurposePasswordReset, tokenStr)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewPersistenceFailure("user update", err)
	}
	return s.retireToken(ctx, token)
}

// ChangePassword replaces the password for an authenticated user after
// re-checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password does not match")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewPersistenceFailure("user update", err)
	}
	return nil
}

// issueToken stores and mails a one-time token. Failures are logged,
// never surfaced; the caller's flow already succeeded.
func (s *AuthService) issueToken(ctx context.Context, user *domain.User, purpose repository.TokenPurpose) {
	token := &repository.AuthToken{
		UserID:    user.ID,
		Purpose:   purpose,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.cfg.TokenTTL()),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.logger.Warn("one-time token insert failed",
			zap.String("user_id", user.ID), zap.String("purpose", string(purpose)), zap.Error(err))
		return
	}

	var sendErr error
	switch purpose {
	case repository.PurposeEmailVerification:
		sendErr = s.sender.SendVerification(ctx, user.Email, token.Token)
	case repository.PurposePasswordReset:
		sendErr = s.sender.SendPasswordReset(ctx, user.Email, token.Token)
	}
	if sendErr != nil {
		s.logger.Warn("one-time token delivery failed",
			zap.String("user_id", user.ID), zap.String("purpose", string(purpose)), zap.Error(sendErr))
	}
}

func (s *AuthService) consumeToken(ctx context.Context, purpose repository.TokenPurpose, tokenStr string) (*repository.AuthToken, *domain.User, error) {
	token, err := s.tokens.GetByToken(ctx, purpose, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewValidationError("invalid or expired token", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	if token.UsedAt != nil || s.now().After(token.ExpiresAt) {
		return nil, nil, apperrors.NewValidationError("invalid or expired token", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return token, user, nil
}

func (s *AuthService) retireToken(ctx context.Context, token *repository.AuthToken) error {
	if err := s.tokens.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.NewPersistenceFailure("token retire", err)
	}
	return nil
}
