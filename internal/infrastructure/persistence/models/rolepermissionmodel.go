package models

import (
	"time"

	"adpilot/internal/shared/constants"
)

type RolePermissionModel struct {
	ID           uint `gorm:"primarykey"`
	RoleID       uint `gorm:"not null;uniqueIndex:idx_role_permission,priority:1"`
	PermissionID uint `gorm:"not null;uniqueIndex:idx_role_permission,priority:2;index"`
	CreatedAt    time.Time
}

func (RolePermissionModel) TableName() string {
	return constants.TableRolePermissions
}

// UserRoleModel is a ledger row. TenantID 0 stores the system-wide scope so
// that the unique index also covers tenant-less grants; a nullable column
// would let duplicates through because NULLs never compare equal.
type UserRoleModel struct {
	ID         uint       `gorm:"primarykey"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_user_role_tenant,priority:1"`
	RoleID     uint       `gorm:"not null;uniqueIndex:idx_user_role_tenant,priority:2;index"`
	TenantID   uint       `gorm:"not null;uniqueIndex:idx_user_role_tenant,priority:3"`
	AssignedBy uint       `gorm:"not null"`
	AssignedAt time.Time  `gorm:"not null"`
	ExpiresAt  *time.Time `gorm:"index"`
	IsActive   bool       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}
