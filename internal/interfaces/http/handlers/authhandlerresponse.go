package handlers

import (
	"time"

	"adpilot/internal/application/permission"
	domainpermission "adpilot/internal/domain/permission"
	"adpilot/internal/domain/tenant"
	"adpilot/internal/domain/user"
)

// LoginResponse represents the response for user login.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
	Roles       []string      `json:"roles"`
}

// UserResponse represents user information in API responses.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TenantID  *uint     `json:"tenant_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID(),
		Email:     u.Email().String(),
		Name:      u.Name(),
		TenantID:  u.TenantID(),
		Status:    u.Status(),
		CreatedAt: u.CreatedAt(),
	}
}

type CheckPermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	TenantID *uint  `json:"tenant_id"`
	Allowed  bool   `json:"allowed"`
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

func toPermissionResponse(p *domainpermission.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID(),
		Code:        p.Code(),
		Resource:    p.Resource().String(),
		Action:      p.Action().String(),
		Description: p.Description(),
	}
}

type RoleResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoleResponse(r *domainpermission.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		IsSystem:    r.IsSystem(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

type AssignmentResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Role       string     `json:"role"`
	TenantID   *uint      `json:"tenant_id"`
	AssignedBy uint       `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	IsActive   bool       `json:"is_active"`
	Valid      bool       `json:"valid"`
}

func toAssignmentResponse(a *domainpermission.Assignment, roleName string, now time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID(),
		UserID:     a.UserID(),
		Role:       roleName,
		TenantID:   a.Scope().TenantID(),
		AssignedBy: a.AssignedBy(),
		AssignedAt: a.AssignedAt(),
		ExpiresAt:  a.ExpiresAt(),
		IsActive:   a.IsActive(),
		Valid:      a.IsValidAt(now),
	}
}

func toAssignmentResponses(rows []permission.AssignmentDetails, now time.Time) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAssignmentResponse(row.Assignment, row.RoleName, now))
	}
	return out
}

type TenantResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Status    string         `json:"status"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID(),
		Name:      t.Name(),
		Slug:      t.Slug(),
		Status:    t.Status(),
		Meta:      t.Meta(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}
