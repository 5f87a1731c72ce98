package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"adpilot/internal/domain/tenant"
	"adpilot/internal/infrastructure/persistence/mappers"
	"adpilot/internal/infrastructure/persistence/models"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/db"
	"adpilot/internal/shared/errors"
)

type TenantRepositoryImpl struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) tenant.Repository {
	return &TenantRepositoryImpl{db: db}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	model, err := mappers.TenantToModel(t)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("tenant slug already exists", t.Slug())
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	return t.SetID(model.ID)
}

func (r *TenantRepositoryImpl) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return mappers.TenantToEntity(&model)
}

func (r *TenantRepositoryImpl) List(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TenantModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	var tenantModels []*models.TenantModel
	err := query.Offset((page - 1) * pageSize).Limit(pageSize).Order("id ASC").Find(&tenantModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	tenants, err := mappers.TenantsToEntities(tenantModels)
	if err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func (r *TenantRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete tenant role assignments: %w", err)
		}

		result := tx.Delete(&models.TenantModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete tenant: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.NewNotFoundError("tenant not found")
		}
		return nil
	})
}

func (r *TenantRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.TenantModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check tenant existence: %w", err)
	}
	return count > 0, nil
}
