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

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) permission.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *permission.Role) error {
	model := mappers.RoleToModel(role)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return permission.ErrDuplicateRole
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return mappers.RoleToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return mappers.RoleToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Role, error) {
	if len(ids) == 0 {
		return []*permission.Role{}, nil
	}

	var roleModels []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("name ASC").Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by IDs: %w", err)
	}

	return mappers.RolesToEntities(roleModels)
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*permission.Role, error) {
	var roleModels []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return mappers.RolesToEntities(roleModels)
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, role *permission.Role) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]interface{}{
			"name":        role.Name(),
			"description": role.Description(),
			"updated_at":  role.UpdatedAt(),
		})
	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return permission.ErrDuplicateRole
		}
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("role not found")
	}

	return nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete role bindings: %w", err)
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete role assignments: %w", err)
		}

		result := tx.Delete(&models.RoleModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete role: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.NewNotFoundError("role not found")
		}
		return nil
	})
}

func (r *RoleRepositoryImpl) DeleteNonSystem(ctx context.Context) (int64, error) {
	var deleted int64
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		custom := tx.Model(&models.RoleModel{}).Select("id").Where("is_system = ?", false)

		if err := tx.Where("role_id IN (?)", custom).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete custom role bindings: %w", err)
		}
		if err := tx.Where("role_id IN (?)", custom).Delete(&models.UserRoleModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete custom role assignments: %w", err)
		}

		result := tx.Where("is_system = ?", false).Delete(&models.RoleModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete custom roles: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *RoleRepositoryImpl) GrantPermission(ctx context.Context, roleID, permissionID uint) error {
	model := &models.RolePermissionModel{
		RoleID:       roleID,
		PermissionID: permissionID,
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return permission.ErrDuplicateGrant
		}
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) RevokePermission(ctx context.Context, roleID, permissionID uint) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermissionModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke permission: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *RoleRepositoryImpl) HasGrant(ctx context.Context, roleID, permissionID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.RolePermissionModel{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepositoryImpl) AnyRoleHasPermission(ctx context.Context, roleIDs []uint, permissionID uint) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.RolePermissionModel{}).
		Where("role_id IN ? AND permission_id = ?", roleIDs, permissionID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permissions: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepositoryImpl) GetPermissionIDs(ctx context.Context, roleIDs []uint) ([]uint, error) {
	if len(roleIDs) == 0 {
		return []uint{}, nil
	}

	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.RolePermissionModel{}).
		Where("role_id IN ?", roleIDs).
		Distinct().
		Pluck("permission_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get permission IDs: %w", err)
	}
	return ids, nil
}

func (r *RoleRepositoryImpl) DeleteAllGrants(ctx context.Context) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.RolePermissionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete role permissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
