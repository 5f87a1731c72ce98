package mappers

import (
	"fmt"

	"adpilot/internal/domain/user"
	vo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/mapper"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	entity, err := user.ReconstructUser(
		model.ID,
		email,
		model.Name,
		model.PasswordHash,
		model.TenantID,
		model.IsSystemAdmin,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}

	return &models.UserModel{
		ID:            entity.ID(),
		Email:         entity.Email().String(),
		Name:          entity.Name(),
		PasswordHash:  entity.PasswordHash(),
		TenantID:      entity.TenantID(),
		IsSystemAdmin: entity.IsSystemAdmin(),
		Status:        entity.Status(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *UserMapperImpl) ToEntities(modelList []*models.UserModel) ([]*user.User, error) {
	return mapper.ToEntities("user", modelList, m.ToEntity, func(model *models.UserModel) uint { return model.ID })
}
