package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type fakeTokenRepo struct {
	tokens map[string]*repository.AuthToken
}

func (r *fakeTokenRepo) Create(_ context.Context, token *repository.AuthToken) error {
	token.ID = "tok-" + token.Token
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, purpose repository.TokenPurpose, tokenStr string) (*repository.AuthToken, error) {
	token, ok := r.tokens[tokenStr]
	if !ok || token.Purpose != purpose {
		return nil, pgx.ErrNoRows
	}
	return token, nil
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id string) error {
	for _, token := range r.tokens {
		if token.ID == id {
			used := time.Now()
			token.UsedAt = &used
		}
	}
	return nil
}

type fakeVerificationSender struct {
	verifications []string
	resets        []string
}

func (s *fakeVerificationSender) SendVerification(_ context.Context, to, _ string) error {
	s.verifications = append(s.verifications, to)
	return nil
}

func (s *fakeVerificationSender) SendPasswordReset(_ context.Context, to, _ string) error {
	s.resets = append(s.resets, to)
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeTokenRepo, *fakeVerificationSender) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	tokens := &fakeTokenRepo{tokens: map[string]*repository.AuthToken{}}
	sender := &fakeVerificationSender{}
	cfg := config.AuthConfig{JWTSecret: "s", AccessTokenTTLMinutes: 60, AuthTokenTTLMinutes: 30, BcryptCost: 4}
	svc := NewAuthService(users, tokens, auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes), sender, cfg, zap.NewNop())
	return svc, users, tokens, sender
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, sender := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "Dana@Example.com", Password: "correcthorse"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
	require.Equal(t, "dana@example.com", user.Email)
	require.Len(t, sender.verifications, 1)

	result, err := svc.Login(ctx, "dana@example.com", "correcthorse")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "dana@example.com", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "dana@example.com", Password: "correcthorse"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
}

func TestVerificationFlow(t *testing.T) {
	svc, users, tokens, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	require.False(t, user.EmailVerified)

	var issued string
	for tokenStr := range tokens.tokens {
		issued = tokenStr
	}
	require.NotEmpty(t, issued)

	require.NoError(t, svc.ConfirmVerification(ctx, issued))
	stored := users.users[user.ID]
	require.True(t, stored.EmailVerified)

	// One-time: the same token cannot be used again.
	err = svc.ConfirmVerification(ctx, issued)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, tokens, sender := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	for tokenStr := range tokens.tokens {
		delete(tokens.tokens, tokenStr)
	}

	require.NoError(t, svc.RequestPasswordReset(ctx, "dana@example.com"))
	require.Len(t, sender.resets, 1)

	var issued string
	for tokenStr := range tokens.tokens {
		issued = tokenStr
	}
	require.NoError(t, svc.ConfirmPasswordReset(ctx, issued, "betterhorsebattery"))

	_, err = svc.Login(ctx, "dana@example.com", "correcthorse")
	require.Error(t, err)
	_, err = svc.Login(ctx, "dana@example.com", "betterhorsebattery")
	require.NoError(t, err)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, sender := newAuthFixture()
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	require.Empty(t, sender.resets)
}
