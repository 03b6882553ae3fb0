package sqlrepository

import (
	"context"
	"testing"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newTestDB(t), zap.NewNop())

	user := &domain.User{Name: "User", Email: " User@Nextmail.com ", PasswordHash: "$argon2id$..."}
	require.NoError(t, users.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "user@nextmail.com", user.Email)

	found, err := users.FindByEmail(ctx, "USER@nextmail.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "$argon2id$...", found.PasswordHash)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newTestDB(t), zap.NewNop())

	require.NoError(t, users.Create(ctx, &domain.User{Name: "A", Email: "a@b.com", PasswordHash: "h"}))
	err := users.Create(ctx, &domain.User{Name: "B", Email: "A@b.com", PasswordHash: "h"})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	users := NewUserRepository(newTestDB(t), zap.NewNop())

	user, err := users.FindByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Nil(t, user)
}
