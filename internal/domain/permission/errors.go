package permission

import "errors"

var (
	// ErrSystemRoleImmutable is returned when deleting or renaming a system role.
	ErrSystemRoleImmutable = errors.New("system roles cannot be deleted or renamed")
	// ErrDuplicateGrant is returned when a role already holds a permission.
	ErrDuplicateGrant = errors.New("role already has this permission")
	// ErrDuplicateAssignment is returned when (user, role, tenant) is already bound.
	ErrDuplicateAssignment = errors.New("role already assigned to user in this scope")
	// ErrDuplicateRole is returned when a role name is taken.
	ErrDuplicateRole = errors.New("role name already exists")
	// ErrDuplicatePermission is returned when a (resource, action) pair exists.
	ErrDuplicatePermission = errors.New("permission already exists")
)

var (
	// ErrRoleNotFound is returned by administrative writes naming a role absent from the catalog.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPermissionNotFound is returned by administrative writes naming an undefined permission.
	ErrPermissionNotFound = errors.New("permission not found")
)
