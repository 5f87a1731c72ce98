package user

import "context"

// Repository defines the interface for user data operations. Lookups return
// (nil, nil) when the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListTenantMembers returns every user with a home tenant.
	ListTenantMembers(ctx context.Context) ([]*User, error)
	// ListSystemAdministrators returns users carrying the legacy system admin flag.
	ListSystemAdministrators(ctx context.Context) ([]*User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}
