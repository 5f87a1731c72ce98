package permission

import (
	"context"
	"time"
)

// Lookups return (nil, nil) when nothing matches; errors are reserved for
// storage faults so callers can tell "absent" from "unavailable".

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uint) (*Permission, error)
	GetByCode(ctx context.Context, resource, action string) (*Permission, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Permission, error)
	List(ctx context.Context) ([]*Permission, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Update(ctx context.Context, role *Role) error
	// Delete removes the role together with its permission and user bindings.
	Delete(ctx context.Context, id uint) error
	DeleteNonSystem(ctx context.Context) (int64, error)

	// GrantPermission returns ErrDuplicateGrant when the binding exists.
	GrantPermission(ctx context.Context, roleID, permissionID uint) error
	// RevokePermission reports whether a binding was removed.
	RevokePermission(ctx context.Context, roleID, permissionID uint) (bool, error)
	HasGrant(ctx context.Context, roleID, permissionID uint) (bool, error)
	// AnyRoleHasPermission answers the core check in a single query.
	AnyRoleHasPermission(ctx context.Context, roleIDs []uint, permissionID uint) (bool, error)
	// GetPermissionIDs returns the distinct permission ids bound to any of roleIDs.
	GetPermissionIDs(ctx context.Context, roleIDs []uint) ([]uint, error)
	DeleteAllGrants(ctx context.Context) (int64, error)
}

// AssignmentQuery selects ledger rows. Zero-valued fields do not filter.
type AssignmentQuery struct {
	UserID uint
	RoleID uint
	// Scopes lists stored tenant values to accept (0 is system-wide); nil accepts any.
	Scopes []uint
	// ValidAt keeps only active rows whose expiry is unset or after this instant.
	ValidAt *time.Time
}

type AssignmentRepository interface {
	// Create returns ErrDuplicateAssignment when (user, role, scope) exists.
	Create(ctx context.Context, assignment *Assignment) error
	Update(ctx context.Context, assignment *Assignment) error
	GetByKey(ctx context.Context, userID, roleID uint, scope uint) (*Assignment, error)
	Find(ctx context.Context, query AssignmentQuery) ([]*Assignment, error)
	// ListAll returns every row, used by the policy snapshot exporter.
	ListAll(ctx context.Context) ([]*Assignment, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}
