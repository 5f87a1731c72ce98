package models

import (
	"time"

	"adpilot/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID            uint   `gorm:"primarykey"`
	Email         string `gorm:"uniqueIndex;not null;size:255"`
	Name          string `gorm:"not null;size:100"`
	PasswordHash  string `gorm:"size:255"`
	TenantID      *uint  `gorm:"index"`
	IsSystemAdmin bool   `gorm:"not null"`
	Status        string `gorm:"not null;size:20"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
