package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adpilot/internal/domain/user"
	"adpilot/internal/infrastructure/persistence/mappers"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/db"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("email already registered")
		}
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := userEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created successfully", "id", model.ID, "email", model.Email)
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UserRepositoryImpl) ListTenantMembers(ctx context.Context) ([]*user.User, error) {
	var userModels []*models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id IS NOT NULL").
		Order("id ASC").
		Find(&userModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant members: %w", err)
	}

	return r.mapper.ToEntities(userModels)
}

func (r *UserRepositoryImpl) ListSystemAdministrators(ctx context.Context) ([]*user.User, error) {
	var userModels []*models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("is_system_admin = ?", true).
		Order("id ASC").
		Find(&userModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list system administrators: %w", err)
	}

	return r.mapper.ToEntities(userModels)
}

func (r *UserRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Delete(&models.UserModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	return result.RowsAffected, nil
}
