package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMUserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) *GORMUserRepository {
	return &GORMUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *GORMUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model persistence.UserModel
	result := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email)))

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to query user", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	result := r.db.WithContext(ctx).Create(persistence.UserModelFromDomain(user))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return ErrDuplicateEmail
		}
		r.logger.Error("failed to create user", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}
