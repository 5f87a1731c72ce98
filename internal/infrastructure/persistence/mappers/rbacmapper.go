package mappers

import (
	"fmt"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/mapper"
)

// PermissionToEntity rebuilds a permission, re-validating the stored pair.
func PermissionToEntity(model *models.PermissionModel) (*permission.Permission, error) {
	if model == nil {
		return nil, nil
	}

	resource, err := vo.NewResource(model.Resource)
	if err != nil {
		return nil, fmt.Errorf("stored permission %d: %w", model.ID, err)
	}
	action, err := vo.NewAction(model.Action)
	if err != nil {
		return nil, fmt.Errorf("stored permission %d: %w", model.ID, err)
	}

	return permission.ReconstructPermission(
		model.ID,
		resource,
		action,
		model.Description,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func PermissionsToEntities(modelList []*models.PermissionModel) ([]*permission.Permission, error) {
	return mapper.ToEntities("permission", modelList, PermissionToEntity, func(m *models.PermissionModel) uint { return m.ID })
}

func PermissionToModel(entity *permission.Permission) *models.PermissionModel {
	return &models.PermissionModel{
		ID:          entity.ID(),
		Resource:    entity.Resource().String(),
		Action:      entity.Action().String(),
		Description: entity.Description(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func RoleToEntity(model *models.RoleModel) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}

	return permission.ReconstructRole(
		model.ID,
		model.Name,
		model.Description,
		model.IsSystem,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func RolesToEntities(modelList []*models.RoleModel) ([]*permission.Role, error) {
	return mapper.ToEntities("role", modelList, RoleToEntity, func(m *models.RoleModel) uint { return m.ID })
}

func RoleToModel(entity *permission.Role) *models.RoleModel {
	return &models.RoleModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Description: entity.Description(),
		IsSystem:    entity.IsSystem(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func AssignmentToEntity(model *models.UserRoleModel) (*permission.Assignment, error) {
	if model == nil {
		return nil, nil
	}

	return permission.ReconstructAssignment(
		model.ID,
		model.UserID,
		model.RoleID,
		vo.ForTenant(model.TenantID),
		model.AssignedBy,
		model.AssignedAt,
		model.ExpiresAt,
		model.IsActive,
	)
}

func AssignmentsToEntities(modelList []*models.UserRoleModel) ([]*permission.Assignment, error) {
	return mapper.ToEntities("role assignment", modelList, AssignmentToEntity, func(m *models.UserRoleModel) uint { return m.ID })
}

func AssignmentToModel(entity *permission.Assignment) *models.UserRoleModel {
	return &models.UserRoleModel{
		ID:         entity.ID(),
		UserID:     entity.UserID(),
		RoleID:     entity.RoleID(),
		TenantID:   entity.Scope().Value(),
		AssignedBy: entity.AssignedBy(),
		AssignedAt: entity.AssignedAt(),
		ExpiresAt:  entity.ExpiresAt(),
		IsActive:   entity.IsActive(),
	}
}
