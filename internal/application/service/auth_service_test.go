package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "user-1", Email: "user@nextmail.com", PasswordHash: "$argon2id$stub"}

	tests := []struct {
		name        string
		setup       func(*MockUserRepository, *MockPasswordHasher)
		wantUser    bool
		wantMessage string
	}{
		{
			name: "valid credentials",
			setup: func(users *MockUserRepository, hasher *MockPasswordHasher) {
				users.On("FindByEmail", ctx, "user@nextmail.com").Return(user, nil)
				hasher.On("VerifyPassword", ctx, "123456", user.PasswordHash).Return(true, nil)
			},
			wantUser: true,
		},
		{
			name: "unknown email",
			setup: func(users *MockUserRepository, _ *MockPasswordHasher) {
				users.On("FindByEmail", ctx, "user@nextmail.com").Return(nil, domain.ErrUserNotFound)
			},
			wantMessage: MsgInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(users *MockUserRepository, hasher *MockPasswordHasher) {
				users.On("FindByEmail", ctx, "user@nextmail.com").Return(user, nil)
				hasher.On("VerifyPassword", ctx, "123456", user.PasswordHash).Return(false, nil)
			},
			wantMessage: MsgInvalidCredentials,
		},
		{
			name: "database failure",
			setup: func(users *MockUserRepository, _ *MockPasswordHasher) {
				users.On("FindByEmail", ctx, "user@nextmail.com").Return(nil, errors.New("too many connections"))
			},
			wantMessage: MsgSomethingWentWrong,
		},
		{
			name: "corrupt hash",
			setup: func(users *MockUserRepository, hasher *MockPasswordHasher) {
				users.On("FindByEmail", ctx, "user@nextmail.com").Return(user, nil)
				hasher.On("VerifyPassword", ctx, "123456", user.PasswordHash).Return(false, errors.New("malformed"))
			},
			wantMessage: MsgSomethingWentWrong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			hasher := new(MockPasswordHasher)
			tt.setup(users, hasher)
			s := NewAuthService(users, hasher, zap.NewNop())

			got, state := s.Authenticate(ctx, "  User@Nextmail.com ", "123456")

			if tt.wantUser {
				require.NotNil(t, got)
				assert.Equal(t, "user-1", got.ID)
				assert.Equal(t, "/dashboard", state.Redirect)
				return
			}
			assert.Nil(t, got)
			assert.False(t, state.Succeeded())
			assert.Equal(t, tt.wantMessage, state.Message)
		})
	}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	hasher := new(MockPasswordHasher)
	s := NewAuthService(users, hasher, zap.NewNop())

	hasher.On("HashPassword", ctx, "123456").Return("$argon2id$hash", nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "user@nextmail.com" && u.PasswordHash == "$argon2id$hash"
	})).Return(nil)

	user, err := s.RegisterUser(ctx, "User", "User@Nextmail.com", "123456")

	require.NoError(t, err)
	assert.Equal(t, "User", user.Name)
	users.AssertExpectations(t)
}
