package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"adpilot/internal/domain/tenant"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/mapper"
)

func TenantToEntity(model *models.TenantModel) (*tenant.Tenant, error) {
	if model == nil {
		return nil, nil
	}

	var meta map[string]any
	if len(model.Meta) > 0 {
		if err := json.Unmarshal(model.Meta, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode tenant %d meta: %w", model.ID, err)
		}
	}

	return tenant.ReconstructTenant(
		model.ID,
		model.Name,
		model.Slug,
		model.Status,
		meta,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func TenantsToEntities(modelList []*models.TenantModel) ([]*tenant.Tenant, error) {
	return mapper.ToEntities("tenant", modelList, TenantToEntity, func(m *models.TenantModel) uint { return m.ID })
}

func TenantToModel(entity *tenant.Tenant) (*models.TenantModel, error) {
	model := &models.TenantModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Slug:      entity.Slug(),
		Status:    entity.Status(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}

	if meta := entity.Meta(); len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tenant meta: %w", err)
		}
		model.Meta = datatypes.JSON(raw)
	}
	return model, nil
}
