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

// UserRoleRepositoryImpl persists the assignment ledger.
type UserRoleRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) permission.AssignmentRepository {
	return &UserRoleRepositoryImpl{db: db}
}

func (r *UserRoleRepositoryImpl) Create(ctx context.Context, assignment *permission.Assignment) error {
	model := mappers.AssignmentToModel(assignment)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return permission.ErrDuplicateAssignment
		}
		return fmt.Errorf("failed to create user role: %w", err)
	}

	return assignment.SetID(model.ID)
}

func (r *UserRoleRepositoryImpl) Update(ctx context.Context, assignment *permission.Assignment) error {
	// A map keeps false and nil values in the UPDATE.
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserRoleModel{}).
		Where("id = ?", assignment.ID()).
		Updates(map[string]interface{}{
			"assigned_by": assignment.AssignedBy(),
			"assigned_at": assignment.AssignedAt(),
			"expires_at":  assignment.ExpiresAt(),
			"is_active":   assignment.IsActive(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("role assignment not found")
	}
	return nil
}

func (r *UserRoleRepositoryImpl) GetByKey(ctx context.Context, userID, roleID uint, scope uint) (*permission.Assignment, error) {
	var model models.UserRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id = ? AND tenant_id = ?", userID, roleID, scope).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}

	return mappers.AssignmentToEntity(&model)
}

func (r *UserRoleRepositoryImpl) Find(ctx context.Context, q permission.AssignmentQuery) ([]*permission.Assignment, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{})

	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.RoleID != 0 {
		query = query.Where("role_id = ?", q.RoleID)
	}
	if q.Scopes != nil {
		if len(q.Scopes) == 0 {
			return []*permission.Assignment{}, nil
		}
		query = query.Where("tenant_id IN ?", q.Scopes)
	}
	if q.ValidAt != nil {
		query = query.
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", q.ValidAt.UTC())
	}

	var rows []*models.UserRoleModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find user roles: %w", err)
	}

	return mappers.AssignmentsToEntities(rows)
}

func (r *UserRoleRepositoryImpl) ListAll(ctx context.Context) ([]*permission.Assignment, error) {
	return r.Find(ctx, permission.AssignmentQuery{})
}

func (r *UserRoleRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.UserRoleModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete user roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRoleRepositoryImpl) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&models.UserRoleModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete user roles for user: %w", result.Error)
	}
	return result.RowsAffected, nil
}
