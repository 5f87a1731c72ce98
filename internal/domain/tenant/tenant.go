package tenant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"adpilot/internal/shared/biztime"
	"adpilot/internal/shared/constants"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Tenant is an advertiser account. Role assignments may be scoped to one.
type Tenant struct {
	id        uint
	name      string
	slug      string
	status    string
	meta      map[string]any
	createdAt time.Time
	updatedAt time.Time
}

func NewTenant(name, slug string, meta map[string]any) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("tenant name too long (max 100 characters)")
	}
	if !slugPattern.MatchString(slug) || len(slug) > 50 {
		return nil, fmt.Errorf("invalid tenant slug %q", slug)
	}

	now := biztime.NowUTC()
	return &Tenant{
		name:      name,
		slug:      slug,
		status:    constants.TenantStatusActive,
		meta:      meta,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTenant(id uint, name, slug, status string, meta map[string]any, createdAt, updatedAt time.Time) (*Tenant, error) {
	if id == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	return &Tenant{
		id:        id,
		name:      name,
		slug:      slug,
		status:    status,
		meta:      meta,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (t *Tenant) ID() uint {
	return t.id
}

func (t *Tenant) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Tenant) Name() string {
	return t.name
}

func (t *Tenant) Slug() string {
	return t.slug
}

func (t *Tenant) Status() string {
	return t.status
}

func (t *Tenant) Meta() map[string]any {
	return t.meta
}

func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Tenant) IsActive() bool {
	return t.status == constants.TenantStatusActive
}
