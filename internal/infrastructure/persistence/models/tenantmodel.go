package models

import (
	"time"

	"gorm.io/datatypes"

	"adpilot/internal/shared/constants"
)

type TenantModel struct {
	ID        uint           `gorm:"primarykey"`
	Name      string         `gorm:"not null;size:100"`
	Slug      string         `gorm:"uniqueIndex;not null;size:50"`
	Status    string         `gorm:"not null;size:20"`
	Meta      datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TenantModel) TableName() string {
	return constants.TableTenants
}

// AllModels lists every persistence model in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&TenantModel{},
		&UserModel{},
		&PermissionModel{},
		&RoleModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
	}
}
