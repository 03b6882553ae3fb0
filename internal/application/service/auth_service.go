package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	logger   *zap.Logger
}

func NewAuthService(userRepo domain.UserRepository, hasher domain.PasswordHasher, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// Authenticate checks the credentials. On success the state redirects to the
// dashboard and the user is returned so the caller can open a session.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, *ActionState) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info("login rejected: unknown email")
			return nil, failed(MsgInvalidCredentials)
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		return nil, failed(MsgSomethingWentWrong)
	}

	ok, err := s.hasher.VerifyPassword(ctx, password, user.PasswordHash)
	if err != nil {
		s.logger.Error("failed to verify password", zap.Error(err), zap.String("user_id", user.ID))
		return nil, failed(MsgSomethingWentWrong)
	}
	if !ok {
		s.logger.Info("login rejected: wrong password", zap.String("user_id", user.ID))
		return nil, failed(MsgInvalidCredentials)
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID))
	return user, redirectTo("/dashboard")
}

// RegisterUser stores a new operator with a hashed password.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := s.hasher.HashPassword(ctx, password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}
