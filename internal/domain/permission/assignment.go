package permission

import (
	"fmt"
	"time"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/shared/biztime"
)

// Assignment binds a user to a role within a tenant scope. Revocation flips
// isActive rather than deleting the row, so the ledger keeps who granted
// what and when.
type Assignment struct {
	id         uint
	userID     uint
	roleID     uint
	scope      vo.TenantScope
	assignedBy uint
	assignedAt time.Time
	expiresAt  *time.Time
	isActive   bool
}

func NewAssignment(userID, roleID uint, scope vo.TenantScope, assignedBy uint, expiresAt *time.Time) (*Assignment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}
	if assignedBy == 0 {
		return nil, fmt.Errorf("assigning user is required")
	}

	now := biztime.NowUTC()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("expiry must be in the future")
	}

	return &Assignment{
		userID:     userID,
		roleID:     roleID,
		scope:      scope,
		assignedBy: assignedBy,
		assignedAt: now,
		expiresAt:  normalizeExpiry(expiresAt),
		isActive:   true,
	}, nil
}

func ReconstructAssignment(id, userID, roleID uint, scope vo.TenantScope, assignedBy uint, assignedAt time.Time, expiresAt *time.Time, isActive bool) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}

	return &Assignment{
		id:         id,
		userID:     userID,
		roleID:     roleID,
		scope:      scope,
		assignedBy: assignedBy,
		assignedAt: assignedAt,
		expiresAt:  normalizeExpiry(expiresAt),
		isActive:   isActive,
	}, nil
}

func normalizeExpiry(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func (a *Assignment) ID() uint {
	return a.id
}

func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *Assignment) UserID() uint {
	return a.userID
}

func (a *Assignment) RoleID() uint {
	return a.roleID
}

func (a *Assignment) Scope() vo.TenantScope {
	return a.scope
}

func (a *Assignment) AssignedBy() uint {
	return a.assignedBy
}

func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

func (a *Assignment) ExpiresAt() *time.Time {
	return a.expiresAt
}

func (a *Assignment) IsActive() bool {
	return a.isActive
}

// IsExpiredAt reports whether the assignment has lapsed. An expiry equal to
// at counts as expired.
func (a *Assignment) IsExpiredAt(at time.Time) bool {
	return a.expiresAt != nil && !a.expiresAt.After(at)
}

// IsValidAt reports whether the assignment grants its role at the given time.
func (a *Assignment) IsValidAt(at time.Time) bool {
	return a.isActive && !a.IsExpiredAt(at)
}

// Revoke deactivates the assignment. Revoking twice is a no-op.
func (a *Assignment) Revoke() {
	a.isActive = false
}

// Renew reactivates a revoked or lapsed assignment on behalf of assignedBy.
func (a *Assignment) Renew(assignedBy uint, expiresAt *time.Time) error {
	if assignedBy == 0 {
		return fmt.Errorf("assigning user is required")
	}
	now := biztime.NowUTC()
	if expiresAt != nil && !expiresAt.After(now) {
		return fmt.Errorf("expiry must be in the future")
	}
	if a.IsValidAt(now) {
		return ErrDuplicateAssignment
	}
	a.assignedBy = assignedBy
	a.assignedAt = now
	a.expiresAt = normalizeExpiry(expiresAt)
	a.isActive = true
	return nil
}
