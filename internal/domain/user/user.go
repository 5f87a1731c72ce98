package user

import (
	"fmt"
	"strings"
	"time"

	vo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/shared/biztime"
	"adpilot/internal/shared/constants"
)

// User is an authenticated identity. Authorization never reads it directly:
// roles come from the assignment ledger. The home tenant is only the
// default scope when a request names none.
type User struct {
	id            uint
	email         *vo.Email
	name          string
	passwordHash  string
	tenantID      *uint
	isSystemAdmin bool
	status        string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewUser(email *vo.Email, name string, tenantID *uint) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("name cannot exceed 100 characters")
	}

	now := biztime.NowUTC()
	return &User{
		email:     email,
		name:      name,
		tenantID:  copyTenant(tenantID),
		status:    constants.UserStatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewSystemAdministrator builds the tenant-less bootstrap account.
func NewSystemAdministrator(email *vo.Email, name string) (*User, error) {
	u, err := NewUser(email, name, nil)
	if err != nil {
		return nil, err
	}
	u.isSystemAdmin = true
	return u, nil
}

func ReconstructUser(id uint, email *vo.Email, name, passwordHash string, tenantID *uint, isSystemAdmin bool, status string, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:            id,
		email:         email,
		name:          name,
		passwordHash:  passwordHash,
		tenantID:      copyTenant(tenantID),
		isSystemAdmin: isSystemAdmin,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func copyTenant(tenantID *uint) *uint {
	if tenantID == nil || *tenantID == 0 {
		return nil
	}
	id := *tenantID
	return &id
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Email() *vo.Email {
	return u.email
}

func (u *User) Name() string {
	return u.name
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

// TenantID returns the home tenant, nil for tenant-less accounts.
func (u *User) TenantID() *uint {
	return copyTenant(u.tenantID)
}

// IsSystemAdmin is retained for compatibility with existing user records.
// Bootstrap converts it into a system-wide super_admin assignment.
func (u *User) IsSystemAdmin() bool {
	return u.isSystemAdmin
}

func (u *User) Status() string {
	return u.status
}

func (u *User) IsActive() bool {
	return u.status == constants.UserStatusActive
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// SetPassword hashes and stores a new password.
func (u *User) SetPassword(password string, hasher PasswordHasher) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.passwordHash = hash
	u.updatedAt = biztime.NowUTC()
	return nil
}

// VerifyPassword fails for accounts without a password.
func (u *User) VerifyPassword(password string, hasher PasswordHasher) error {
	if u.passwordHash == "" {
		return fmt.Errorf("password login not available")
	}
	return hasher.Verify(password, u.passwordHash)
}

func (u *User) Deactivate() {
	u.status = constants.UserStatusInactive
	u.updatedAt = biztime.NowUTC()
}
