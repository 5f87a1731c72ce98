package tenant

import "context"

type ListFilter struct {
	Page     int
	PageSize int
}

// Repository persists tenants. Lookups return (nil, nil) when absent.
type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id uint) (*Tenant, error)
	List(ctx context.Context, filter ListFilter) ([]*Tenant, int64, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}
