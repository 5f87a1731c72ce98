package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"adpilot/internal/domain/permission"
	"adpilot/internal/infrastructure/persistence/mappers"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/db"
	"adpilot/internal/shared/errors"
)

type PermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.PermissionRepository {
	return &PermissionRepositoryImpl{db: db}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, perm *permission.Permission) error {
	model := mappers.PermissionToModel(perm)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return permission.ErrDuplicatePermission
		}
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return perm.SetID(model.ID)
}

func (r *PermissionRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return mappers.PermissionToEntity(&model)
}

func (r *PermissionRepositoryImpl) GetByCode(ctx context.Context, resource, action string) (*permission.Permission, error) {
	var model models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("resource = ? AND action = ?", resource, action).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}

	return mappers.PermissionToEntity(&model)
}

func (r *PermissionRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return []*permission.Permission{}, nil
	}

	var permModels []*models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id IN ?", ids).
		Order("resource ASC, action ASC").
		Find(&permModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions by IDs: %w", err)
	}

	return mappers.PermissionsToEntities(permModels)
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]*permission.Permission, error) {
	var permModels []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Order("resource ASC, action ASC").Find(&permModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return mappers.PermissionsToEntities(permModels)
}
