package permission

import (
	"fmt"
	"regexp"
	"time"

	"adpilot/internal/shared/biztime"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const maxRoleNameLength = 50

// Role groups permissions under a unique name. System roles ship with the
// catalog and can be neither deleted nor renamed.
type Role struct {
	id          uint
	name        string
	description string
	isSystem    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewRole(name, description string, isSystem bool) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Role{
		name:        name,
		description: description,
		isSystem:    isSystem,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructRole(id uint, name, description string, isSystem bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:          id,
		name:        name,
		description: description,
		isSystem:    isSystem,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func validateRoleName(name string) error {
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	if len(name) > maxRoleNameLength {
		return fmt.Errorf("role name too long (max %d characters)", maxRoleNameLength)
	}
	if !roleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid role name %q: use lowercase letters, digits and underscores", name)
	}
	return nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) IsSystem() bool {
	return r.isSystem
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Role) Rename(name string) error {
	if name == r.name {
		return nil
	}
	if r.isSystem {
		return ErrSystemRoleImmutable
	}
	if err := validateRoleName(name); err != nil {
		return err
	}
	r.name = name
	r.updatedAt = biztime.NowUTC()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = biztime.NowUTC()
}

// EnsureDeletable rejects deletion of system roles.
func (r *Role) EnsureDeletable() error {
	if r.isSystem {
		return ErrSystemRoleImmutable
	}
	return nil
}
